package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LeaseActive     = "active"
	LeaseTerminated = "terminated"
)

// TenantProperty is a lease: one tenant bound to one property for a time
// window. At most one active lease may exist per tenant and per property.
type TenantProperty struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	TenantID       string    `gorm:"size:36;not null;index" json:"tenant_id"`
	Tenant         User      `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	PropertyID     string    `gorm:"size:36;not null;index" json:"property_id"`
	Property       Property  `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	LeaseStartDate time.Time `gorm:"not null" json:"lease_start_date"`
	LeaseEndDate   time.Time `gorm:"not null" json:"lease_end_date"`
	MonthlyRent    float64   `gorm:"not null" json:"monthly_rent"`
	Status         string    `gorm:"not null;default:'active'" json:"status"` // "active" or "terminated"
	Version        uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (tp *TenantProperty) BeforeCreate(tx *gorm.DB) error {
	if tp.ID == "" {
		tp.ID = uuid.NewString()
	}
	return nil
}
