package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin  = "admin"
	RoleTenant = "tenant"
)

type User struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Email           string     `gorm:"unique;not null" json:"email"`
	Password        string     `gorm:"not null" json:"-"`
	FullName        string     `gorm:"not null" json:"full_name"`
	TelephoneNumber string     `json:"telephone_number"`
	Role            string     `gorm:"not null;default:'tenant'" json:"role"` // "admin" or "tenant"
	IsActive        bool       `gorm:"default:true" json:"is_active"`
	LastLogoutAt    *time.Time `gorm:"column:last_logout_at" json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserPreference holds per-user settings such as the UI language.
type UserPreference struct {
	UserID    string    `gorm:"primaryKey;size:36" json:"user_id"`
	Language  string    `gorm:"not null;default:'en'" json:"language"`
	UpdatedAt time.Time `json:"updated_at"`
}
