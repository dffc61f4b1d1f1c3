package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	HandoverPending   = "pending"
	HandoverScheduled = "scheduled"
	HandoverCompleted = "completed"
	HandoverCancelled = "cancelled"

	HandoverMoveIn  = "move_in"
	HandoverMoveOut = "move_out"
)

// handoverTransitions is the legal status graph. Completed and cancelled
// are terminal.
var handoverTransitions = map[string][]string{
	HandoverPending:   {HandoverScheduled, HandoverCancelled},
	HandoverScheduled: {HandoverCompleted, HandoverCancelled},
}

type KeyHandover struct {
	ID               string         `gorm:"primaryKey;size:36" json:"id"`
	TenantPropertyID string         `gorm:"size:36;not null;index" json:"tenant_property_id"`
	TenantProperty   TenantProperty `gorm:"foreignKey:TenantPropertyID" json:"tenant_property,omitempty"`
	HandoverType     string         `gorm:"not null" json:"handover_type"` // "move_in" or "move_out"
	ScheduledDate    time.Time      `gorm:"not null" json:"scheduled_date"`
	Status           string         `gorm:"not null;default:'pending'" json:"status"` // "pending", "scheduled", "completed", "cancelled"
	Notes            string         `json:"notes"`
	CompletedBy      *string        `gorm:"size:36" json:"completed_by"` // set iff completed
	Version          uint           `gorm:"not null;default:1" json:"version"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (h *KeyHandover) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// CanTransition reports whether moving this handover to newStatus is legal.
func (h *KeyHandover) CanTransition(newStatus string) bool {
	for _, s := range handoverTransitions[h.Status] {
		if s == newStatus {
			return true
		}
	}
	return false
}

// Overdue is computed at read time, never stored.
func (h *KeyHandover) Overdue(now time.Time) bool {
	if h.Status == HandoverCompleted || h.Status == HandoverCancelled {
		return false
	}
	return h.ScheduledDate.Before(now)
}
