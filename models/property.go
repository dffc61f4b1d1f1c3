package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PropertyAvailable   = "available"
	PropertyOccupied    = "occupied"
	PropertyMaintenance = "maintenance"
	PropertyUnavailable = "unavailable"
)

type Property struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"not null" json:"name"`
	Address       string    `gorm:"not null" json:"address"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	MonthlyRent   float64   `json:"monthly_rent"`
	Deposit       float64   `json:"deposit"`
	PropertyType  string    `json:"property_type"`
	Status        string    `gorm:"not null;default:'available'" json:"status"` // "available", "occupied", "maintenance", "unavailable"
	Version       uint      `gorm:"not null;default:1" json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
