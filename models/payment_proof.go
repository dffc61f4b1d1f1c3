package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentPending  = "pending"
	PaymentApproved = "approved"
	PaymentRejected = "rejected"
)

// PaymentProof is a tenant-submitted record of a monthly rent payment
// awaiting admin verification. Once approved or rejected it is terminal.
type PaymentProof struct {
	ID               string         `gorm:"primaryKey;size:36" json:"id"`
	TenantPropertyID string         `gorm:"size:36;not null;index" json:"tenant_property_id"`
	TenantProperty   TenantProperty `gorm:"foreignKey:TenantPropertyID" json:"tenant_property,omitempty"`
	MonthYear        string         `gorm:"not null;size:7" json:"month_year"` // "YYYY-MM"
	Amount           float64        `gorm:"not null" json:"amount"`
	PaymentDate      time.Time      `gorm:"not null" json:"payment_date"`
	ProofURL         string         `json:"proof_url"`
	Status           string         `gorm:"not null;default:'pending'" json:"status"` // "pending", "approved", "rejected"
	AdminNotes       *string        `json:"admin_notes"`
	VerifiedBy       *string        `gorm:"size:36" json:"verified_by"` // set iff approved
	Version          uint           `gorm:"not null;default:1" json:"version"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (p *PaymentProof) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *PaymentProof) Reviewed() bool {
	return p.Status != PaymentPending
}
