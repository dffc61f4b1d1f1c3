package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/datatypes"

	"github.com/davidreact/tenanthub1/models"
)

// NotificationParams describes a single recipient-addressed notification.
type NotificationParams struct {
	UserID            string
	Title             string
	Message           string
	Type              string
	IsAdminLog        bool
	AdminActionBy     string
	RelatedEntityType string
	RelatedEntityID   string
	Metadata          map[string]interface{}
}

// CreateNotification inserts one notification row and publishes it to the
// recipient's redis channel. The publish is best-effort: a failure is logged
// and swallowed so the triggering action still succeeds.
func CreateNotification(p NotificationParams) error {
	if p.Type == "" {
		p.Type = models.NotifyInfo
	}

	n := models.Notification{
		UserID:            p.UserID,
		Title:             p.Title,
		Message:           p.Message,
		Type:              p.Type,
		IsAdminLog:        p.IsAdminLog,
		RelatedEntityType: p.RelatedEntityType,
		RelatedEntityID:   p.RelatedEntityID,
	}
	if p.AdminActionBy != "" {
		n.AdminActionBy = &p.AdminActionBy
	}
	if p.Metadata != nil {
		if raw, err := json.Marshal(p.Metadata); err == nil {
			n.Metadata = datatypes.JSON(raw)
		}
	}

	if err := DB.Create(&n).Error; err != nil {
		return err
	}

	publishNotification(&n)
	return nil
}

// NotifyAllAdmins writes an admin audit-log notification for every active
// admin account in one multi-row insert. Errors are logged and swallowed:
// audit fan-out must never fail the action that triggered it.
func NotifyAllAdmins(actorID, action, entityType, entityID string, details map[string]interface{}) {
	var admins []models.User
	if err := DB.Where("role = ? AND is_active = ?", models.RoleAdmin, true).Find(&admins).Error; err != nil {
		log.Printf("Failed to fetch admins for audit log: %v", err)
		return
	}
	if len(admins) == 0 {
		return
	}

	message := fmt.Sprintf("%s on %s", action, entityType)
	if entityID != "" {
		message = fmt.Sprintf("%s (ID: %s)", message, entityID)
	}

	var metadata datatypes.JSON
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			metadata = datatypes.JSON(raw)
		}
	}

	notifications := make([]models.Notification, 0, len(admins))
	for _, admin := range admins {
		notifications = append(notifications, models.Notification{
			UserID:            admin.ID,
			Title:             "System Activity Log",
			Message:           message,
			Type:              models.NotifyInfo,
			IsAdminLog:        true,
			AdminActionBy:     &actorID,
			RelatedEntityType: entityType,
			RelatedEntityID:   entityID,
			Metadata:          metadata,
		})
	}

	if err := DB.Create(&notifications).Error; err != nil {
		log.Printf("Failed to create admin log notifications: %v", err)
		return
	}

	for i := range notifications {
		publishNotification(&notifications[i])
	}
}

func publishNotification(n *models.Notification) {
	if Redis == nil {
		return
	}

	payload, err := json.Marshal(n)
	if err != nil {
		log.Printf("Failed to marshal notification %s: %v", n.ID, err)
		return
	}

	if err := Redis.Publish(context.Background(), NotificationChannel(n.UserID), payload).Err(); err != nil {
		log.Printf("Failed to publish notification %s: %v", n.ID, err)
	}
}
