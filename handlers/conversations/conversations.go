package conversations

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/davidreact/tenanthub1/handlers/auth"
	"github.com/davidreact/tenanthub1/models"
	"github.com/davidreact/tenanthub1/utils"
)

func validPriority(priority string) bool {
	switch priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
		return true
	}
	return false
}

// CreateConversation opens a thread between the calling tenant and the
// admins, scoped to the tenant's active-lease property.
func CreateConversation(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Subject  string `json:"subject"`
		Priority string `json:"priority"`
		Message  string `json:"message"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	if input.Subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subject is required"})
		return
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !validPriority(input.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
		return
	}

	var lease models.TenantProperty
	if err := utils.DB.Where("tenant_id = ? AND status = ?", user.ID, models.LeaseActive).
		First(&lease).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active lease found"})
		return
	}

	conversation := models.Conversation{
		PropertyID: lease.PropertyID,
		TenantID:   user.ID,
		Subject:    input.Subject,
		Status:     models.ConversationOpen,
		Priority:   input.Priority,
	}

	err := utils.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&conversation).Error; err != nil {
			return err
		}
		if input.Message != "" {
			message := models.Message{
				ConversationID: conversation.ID,
				SenderID:       user.ID,
				Message:        input.Message,
				IsAdmin:        false,
			}
			return tx.Create(&message).Error
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}

	utils.NotifyAllAdmins(user.ID, "Opened conversation", "message", conversation.ID, map[string]interface{}{
		"subject":  conversation.Subject,
		"priority": conversation.Priority,
	})

	c.JSON(http.StatusCreated, gin.H{"conversation": conversation})
}

// GetConversations returns all threads for admins, or the caller's own
// threads for tenants.
func GetConversations(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	query := utils.DB.Preload("Property").Preload("Tenant").Order("updated_at DESC")
	if !user.IsAdmin() {
		query = query.Where("tenant_id = ?", user.ID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var conversations []models.Conversation
	if err := query.Find(&conversations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetMessages lists a thread's messages in insertion order.
func GetMessages(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var conversation models.Conversation
	if err := utils.DB.First(&conversation, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	if !auth.CanPerform(user, auth.ActionReadOwn, conversation.TenantID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	var messages []models.Message
	if err := utils.DB.Preload("Sender").
		Where("conversation_id = ?", conversation.ID).
		Order("created_at ASC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversation": conversation, "messages": messages})
}

// PostMessage appends to a thread and bumps the conversation's updated_at
// in the same transaction.
func PostMessage(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var conversation models.Conversation
	if err := utils.DB.First(&conversation, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	if !auth.CanPerform(user, auth.ActionWriteOwn, conversation.TenantID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	var input struct {
		Message string `json:"message"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	message := models.Message{
		ConversationID: conversation.ID,
		SenderID:       user.ID,
		Message:        input.Message,
		IsAdmin:        user.IsAdmin(),
	}

	err := utils.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(&conversation).Update("updated_at", time.Now()).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post message"})
		return
	}

	// Notify the other party.
	if user.IsAdmin() {
		utils.CreateNotification(utils.NotificationParams{
			UserID:            conversation.TenantID,
			Title:             "New message",
			Message:           "You have a new message about: " + conversation.Subject,
			Type:              models.NotifyInfo,
			RelatedEntityType: "message",
			RelatedEntityID:   conversation.ID,
		})
	} else {
		utils.NotifyAllAdmins(user.ID, "Posted message", "message", conversation.ID, map[string]interface{}{
			"subject": conversation.Subject,
		})
	}

	c.JSON(http.StatusCreated, gin.H{"message": message})
}

// SetConversationStatus toggles a thread open or closed. Either party may
// toggle, and reopening is allowed.
func SetConversationStatus(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var conversation models.Conversation
	if err := utils.DB.First(&conversation, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		return
	}

	if !auth.CanPerform(user, auth.ActionWriteOwn, conversation.TenantID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	var input struct {
		Status string `json:"status"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	if input.Status != models.ConversationOpen && input.Status != models.ConversationClosed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be open or closed"})
		return
	}

	if err := utils.DB.Model(&conversation).Update("status", input.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation updated successfully"})
}
