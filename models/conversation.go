package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ConversationOpen   = "open"
	ConversationClosed = "closed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Conversation struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	PropertyID string    `gorm:"size:36;not null;index" json:"property_id"`
	Property   Property  `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	TenantID   string    `gorm:"size:36;not null;index" json:"tenant_id"`
	Tenant     User      `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Subject    string    `gorm:"not null" json:"subject"`
	Status     string    `gorm:"not null;default:'open'" json:"status"`     // "open" or "closed"
	Priority   string    `gorm:"not null;default:'medium'" json:"priority"` // "low", "medium", "high"
	Messages   []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Message is append-only; posting one bumps the parent conversation's
// updated_at.
type Message struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	ConversationID string    `gorm:"size:36;not null;index" json:"conversation_id"`
	SenderID       string    `gorm:"size:36;not null" json:"sender_id"`
	Sender         User      `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Message        string    `gorm:"type:text;not null" json:"message"`
	IsAdmin        bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt      time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
