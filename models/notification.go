package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotifyInfo    = "info"
	NotifySuccess = "success"
	NotifyWarning = "warning"
	NotifyError   = "error"
)

type Notification struct {
	ID                string         `gorm:"primaryKey;size:36" json:"id"`
	UserID            string         `gorm:"size:36;not null;index" json:"user_id"`
	Title             string         `gorm:"not null" json:"title"`
	Message           string         `gorm:"not null" json:"message"`
	Type              string         `gorm:"not null;default:'info'" json:"type"` // "info", "success", "warning", "error"
	IsRead            bool           `gorm:"default:false" json:"is_read"`
	IsAdminLog        bool           `gorm:"default:false" json:"is_admin_log"`
	AdminActionBy     *string        `gorm:"size:36" json:"admin_action_by"`
	RelatedEntityType string         `json:"related_entity_type"`
	RelatedEntityID   string         `json:"related_entity_id"`
	Metadata          datatypes.JSON `json:"metadata"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
