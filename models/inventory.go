package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
	ConditionPoor      = "poor"
)

type InventoryItem struct {
	ID             string           `gorm:"primaryKey;size:36" json:"id"`
	PropertyID     string           `gorm:"size:36;not null;index" json:"property_id"`
	Name           string           `gorm:"not null" json:"name"`
	Description    string           `json:"description"`
	Location       string           `json:"location"`
	Condition      string           `gorm:"not null;default:'good'" json:"condition"` // "excellent", "good", "fair", "poor"
	Quantity       int              `gorm:"not null;default:1" json:"quantity"`
	EstimatedValue float64          `json:"estimated_value"`
	Notes          string           `json:"notes"` // tenant-writable
	Photos         []InventoryPhoto `gorm:"foreignKey:InventoryItemID" json:"photos,omitempty"`
	Version        uint             `gorm:"not null;default:1" json:"version"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type InventoryPhoto struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	InventoryItemID string    `gorm:"size:36;not null;index" json:"inventory_item_id"`
	PhotoURL        string    `gorm:"not null" json:"photo_url"`
	Caption         string    `json:"caption"`
	UploadedBy      string    `gorm:"size:36" json:"uploaded_by"`
	CreatedAt       time.Time `json:"created_at"`
}

func (p *InventoryPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
