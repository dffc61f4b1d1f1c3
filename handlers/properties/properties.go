package properties

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davidreact/tenanthub1/handlers/auth"
	"github.com/davidreact/tenanthub1/models"
	"github.com/davidreact/tenanthub1/utils"
)

func GetProperties(c *gin.Context) {
	status := c.Query("status")

	query := utils.DB.Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var properties []models.Property
	if err := query.Find(&properties).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch properties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": properties})
}

func GetProperty(c *gin.Context) {
	var property models.Property
	if err := utils.DB.First(&property, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

func CreateProperty(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok || !auth.CanPerform(user, auth.ActionManage, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var input struct {
		Name         string  `json:"name"`
		Address      string  `json:"address"`
		Bedrooms     int     `json:"bedrooms"`
		Bathrooms    int     `json:"bathrooms"`
		MonthlyRent  float64 `json:"monthly_rent"`
		Deposit      float64 `json:"deposit"`
		PropertyType string  `json:"property_type"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	if input.Name == "" || input.Address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and address are required"})
		return
	}

	property := models.Property{
		Name:         input.Name,
		Address:      input.Address,
		Bedrooms:     input.Bedrooms,
		Bathrooms:    input.Bathrooms,
		MonthlyRent:  input.MonthlyRent,
		Deposit:      input.Deposit,
		PropertyType: input.PropertyType,
		Status:       models.PropertyAvailable,
	}

	if err := utils.DB.Create(&property).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}

	utils.NotifyAllAdmins(user.ID, "Created property", "property", property.ID, map[string]interface{}{
		"name": property.Name,
	})

	c.JSON(http.StatusCreated, gin.H{"property": property})
}

func UpdateProperty(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok || !auth.CanPerform(user, auth.ActionManage, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var property models.Property
	if err := utils.DB.First(&property, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	var input struct {
		Name         *string  `json:"name"`
		Address      *string  `json:"address"`
		Bedrooms     *int     `json:"bedrooms"`
		Bathrooms    *int     `json:"bathrooms"`
		MonthlyRent  *float64 `json:"monthly_rent"`
		Deposit      *float64 `json:"deposit"`
		PropertyType *string  `json:"property_type"`
		Status       *string  `json:"status"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Bedrooms != nil {
		updates["bedrooms"] = *input.Bedrooms
	}
	if input.Bathrooms != nil {
		updates["bathrooms"] = *input.Bathrooms
	}
	if input.MonthlyRent != nil {
		updates["monthly_rent"] = *input.MonthlyRent
	}
	if input.Deposit != nil {
		updates["deposit"] = *input.Deposit
	}
	if input.PropertyType != nil {
		updates["property_type"] = *input.PropertyType
	}
	if input.Status != nil {
		switch *input.Status {
		case models.PropertyAvailable, models.PropertyOccupied, models.PropertyMaintenance, models.PropertyUnavailable:
			updates["status"] = *input.Status
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property status"})
			return
		}
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	updates["version"] = property.Version + 1

	result := utils.DB.Model(&models.Property{}).
		Where("id = ? AND version = ?", property.ID, property.Version).
		Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": models.ErrConcurrentModification.Error()})
		return
	}

	utils.DB.First(&property, "id = ?", property.ID)
	c.JSON(http.StatusOK, gin.H{"property": property})
}

func DeleteProperty(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok || !auth.CanPerform(user, auth.ActionManage, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var property models.Property
	if err := utils.DB.First(&property, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	// An actively leased property cannot be removed.
	var activeLeases int64
	utils.DB.Model(&models.TenantProperty{}).
		Where("property_id = ? AND status = ?", property.ID, models.LeaseActive).
		Count(&activeLeases)
	if activeLeases > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Property has an active lease and cannot be deleted"})
		return
	}

	if err := utils.DB.Delete(&property).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
		return
	}

	utils.NotifyAllAdmins(user.ID, "Deleted property", "property", property.ID, map[string]interface{}{
		"name": property.Name,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
}
