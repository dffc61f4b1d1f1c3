package handovers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davidreact/tenanthub1/handlers/auth"
	"github.com/davidreact/tenanthub1/models"
	"github.com/davidreact/tenanthub1/utils"
)

// RequestHandover creates a key handover appointment for the caller's
// active lease. New requests always start pending and wait for an admin to
// confirm the slot.
func RequestHandover(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		HandoverType  string    `json:"handover_type"`
		ScheduledDate time.Time `json:"scheduled_date"`
		Notes         string    `json:"notes"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	if input.HandoverType != models.HandoverMoveIn && input.HandoverType != models.HandoverMoveOut {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Handover type must be move_in or move_out"})
		return
	}
	if input.ScheduledDate.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Scheduled date is required"})
		return
	}

	var lease models.TenantProperty
	if err := utils.DB.Where("tenant_id = ? AND status = ?", user.ID, models.LeaseActive).
		First(&lease).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active lease found"})
		return
	}

	handover := models.KeyHandover{
		TenantPropertyID: lease.ID,
		HandoverType:     input.HandoverType,
		ScheduledDate:    input.ScheduledDate,
		Status:           models.HandoverPending,
		Notes:            input.Notes,
	}

	if err := utils.DB.Create(&handover).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request handover"})
		return
	}

	utils.NotifyAllAdmins(user.ID, "Requested key handover", "handover", handover.ID, map[string]interface{}{
		"type":          handover.HandoverType,
		"scheduledDate": handover.ScheduledDate,
	})

	c.JSON(http.StatusCreated, gin.H{"handover": handover})
}

// GetMyHandovers lists the caller's handovers with the overdue flag
// computed at read time.
func GetMyHandovers(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var leaseIDs []string
	if err := utils.DB.Model(&models.TenantProperty{}).
		Where("tenant_id = ?", user.ID).Pluck("id", &leaseIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch handovers"})
		return
	}

	var handovers []models.KeyHandover
	if len(leaseIDs) > 0 {
		if err := utils.DB.Where("tenant_property_id IN ?", leaseIDs).
			Order("scheduled_date ASC").Find(&handovers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch handovers"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"handovers": withOverdue(handovers)})
}

// GetHandovers lists all handovers for admin review.
func GetHandovers(c *gin.Context) {
	query := utils.DB.Preload("TenantProperty.Tenant").Preload("TenantProperty.Property").
		Order("scheduled_date ASC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var handovers []models.KeyHandover
	if err := query.Find(&handovers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch handovers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"handovers": withOverdue(handovers)})
}

func withOverdue(handovers []models.KeyHandover) []gin.H {
	now := time.Now()
	result := make([]gin.H, 0, len(handovers))
	for _, h := range handovers {
		result = append(result, gin.H{
			"handover": h,
			"overdue":  h.Overdue(now),
		})
	}
	return result
}

// UpdateHandoverStatus moves a handover through the status graph
// (pending -> scheduled/cancelled, scheduled -> completed/cancelled).
// completed_by is set only on completion.
func UpdateHandoverStatus(c *gin.Context) {
	admin, ok := auth.CurrentUser(c)
	if !ok || !auth.CanPerform(admin, auth.ActionReviewWork, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var handover models.KeyHandover
	if err := utils.DB.First(&handover, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Handover not found"})
		return
	}

	var input struct {
		Status string  `json:"status"`
		Notes  *string `json:"notes"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	if !handover.CanTransition(input.Status) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": models.ErrInvalidTransition.Error()})
		return
	}

	updates := map[string]interface{}{
		"status":  input.Status,
		"version": handover.Version + 1,
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.Status == models.HandoverCompleted {
		updates["completed_by"] = admin.ID
	} else {
		updates["completed_by"] = nil
	}

	result := utils.DB.Model(&models.KeyHandover{}).
		Where("id = ? AND version = ?", handover.ID, handover.Version).
		Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update handover status"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": models.ErrConcurrentModification.Error()})
		return
	}

	var lease models.TenantProperty
	if err := utils.DB.First(&lease, "id = ?", handover.TenantPropertyID).Error; err == nil {
		utils.CreateNotification(utils.NotificationParams{
			UserID:            lease.TenantID,
			Title:             "Handover " + input.Status,
			Message:           "Your key handover has been " + input.Status + ".",
			Type:              models.NotifyInfo,
			RelatedEntityType: "handover",
			RelatedEntityID:   handover.ID,
		})
	}

	utils.NotifyAllAdmins(admin.ID, "Updated handover status to "+input.Status, "handover", handover.ID, nil)

	utils.DB.First(&handover, "id = ?", handover.ID)
	c.JSON(http.StatusOK, gin.H{"handover": handover})
}
