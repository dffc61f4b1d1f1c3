package leases

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/davidreact/tenanthub1/handlers/auth"
	"github.com/davidreact/tenanthub1/models"
	"github.com/davidreact/tenanthub1/utils"
)

func GetLeases(c *gin.Context) {
	query := utils.DB.Preload("Tenant").Preload("Property").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var leases []models.TenantProperty
	if err := query.Find(&leases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch leases"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"leases": leases})
}

// AssignProperty creates an active lease and marks the property occupied in
// one transaction. The property must be available, and neither the tenant
// nor the property may already hold an active lease.
func AssignProperty(c *gin.Context) {
	admin, ok := auth.CurrentUser(c)
	if !ok || !auth.CanPerform(admin, auth.ActionManage, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var input struct {
		TenantID       string    `json:"tenant_id"`
		PropertyID     string    `json:"property_id"`
		LeaseStartDate time.Time `json:"lease_start_date"`
		LeaseEndDate   time.Time `json:"lease_end_date"`
		MonthlyRent    float64   `json:"monthly_rent"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	if input.TenantID == "" || input.PropertyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tenant and property are required"})
		return
	}

	var tenant models.User
	if err := utils.DB.Where("role = ? AND is_active = ?", models.RoleTenant, true).
		First(&tenant, "id = ?", input.TenantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tenant not found"})
		return
	}

	lease := models.TenantProperty{
		TenantID:       input.TenantID,
		PropertyID:     input.PropertyID,
		LeaseStartDate: input.LeaseStartDate,
		LeaseEndDate:   input.LeaseEndDate,
		MonthlyRent:    input.MonthlyRent,
		Status:         models.LeaseActive,
	}

	err := utils.DB.Transaction(func(tx *gorm.DB) error {
		var property models.Property
		if err := tx.First(&property, "id = ?", input.PropertyID).Error; err != nil {
			return err
		}
		if property.Status != models.PropertyAvailable {
			return models.ErrPropertyNotAvailable
		}

		var count int64
		if err := tx.Model(&models.TenantProperty{}).
			Where("status = ? AND (tenant_id = ? OR property_id = ?)",
				models.LeaseActive, input.TenantID, input.PropertyID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.ErrActiveLeaseExists
		}

		if err := tx.Create(&lease).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Property{}).
			Where("id = ? AND version = ?", property.ID, property.Version).
			Updates(map[string]interface{}{
				"status":  models.PropertyOccupied,
				"version": property.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrConcurrentModification
		}
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	case errors.Is(err, models.ErrPropertyNotAvailable),
		errors.Is(err, models.ErrActiveLeaseExists),
		errors.Is(err, models.ErrConcurrentModification):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign property"})
		return
	}

	utils.CreateNotification(utils.NotificationParams{
		UserID:            tenant.ID,
		Title:             "Property assigned",
		Message:           "A property has been assigned to you. Check your dashboard for details.",
		Type:              models.NotifySuccess,
		RelatedEntityType: "property",
		RelatedEntityID:   input.PropertyID,
	})
	utils.NotifyAllAdmins(admin.ID, "Assigned property to tenant", "tenant", tenant.ID, map[string]interface{}{
		"propertyId": input.PropertyID,
		"leaseId":    lease.ID,
	})

	c.JSON(http.StatusCreated, gin.H{"lease": lease})
}

// TerminateLease ends an active lease and releases the property back to
// available in one transaction.
func TerminateLease(c *gin.Context) {
	admin, ok := auth.CurrentUser(c)
	if !ok || !auth.CanPerform(admin, auth.ActionManage, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var lease models.TenantProperty
	if err := utils.DB.First(&lease, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lease not found"})
		return
	}

	if lease.Status != models.LeaseActive {
		c.JSON(http.StatusConflict, gin.H{"error": "Lease is not active"})
		return
	}

	err := utils.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.TenantProperty{}).
			Where("id = ? AND version = ? AND status = ?", lease.ID, lease.Version, models.LeaseActive).
			Updates(map[string]interface{}{
				"status":  models.LeaseTerminated,
				"version": lease.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrConcurrentModification
		}

		return tx.Model(&models.Property{}).
			Where("id = ?", lease.PropertyID).
			Updates(map[string]interface{}{
				"status":  models.PropertyAvailable,
				"version": gorm.Expr("version + 1"),
			}).Error
	})

	switch {
	case err == nil:
	case errors.Is(err, models.ErrConcurrentModification):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to terminate lease"})
		return
	}

	utils.CreateNotification(utils.NotificationParams{
		UserID:            lease.TenantID,
		Title:             "Lease terminated",
		Message:           "Your lease has been terminated. Contact your property manager with any questions.",
		Type:              models.NotifyWarning,
		RelatedEntityType: "property",
		RelatedEntityID:   lease.PropertyID,
	})
	utils.NotifyAllAdmins(admin.ID, "Terminated lease", "tenant", lease.TenantID, map[string]interface{}{
		"propertyId": lease.PropertyID,
		"leaseId":    lease.ID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Lease terminated successfully"})
}
