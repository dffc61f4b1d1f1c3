package inventory

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davidreact/tenanthub1/handlers/auth"
	"github.com/davidreact/tenanthub1/models"
	"github.com/davidreact/tenanthub1/utils"
)

func validCondition(condition string) bool {
	switch condition {
	case models.ConditionExcellent, models.ConditionGood, models.ConditionFair, models.ConditionPoor:
		return true
	}
	return false
}

// GetPropertyInventory lists items (with photos) for one property.
func GetPropertyInventory(c *gin.Context) {
	var property models.Property
	if err := utils.DB.First(&property, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	var items []models.InventoryItem
	if err := utils.DB.Preload("Photos").
		Where("property_id = ?", property.ID).
		Order("created_at ASC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// GetMyInventory lists the inventory of the caller's active-lease property.
func GetMyInventory(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var lease models.TenantProperty
	if err := utils.DB.Where("tenant_id = ? AND status = ?", user.ID, models.LeaseActive).
		First(&lease).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active lease found"})
		return
	}

	var items []models.InventoryItem
	if err := utils.DB.Preload("Photos").
		Where("property_id = ?", lease.PropertyID).
		Order("created_at ASC").Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func CreateItem(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok || !auth.CanPerform(user, auth.ActionManage, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var input struct {
		PropertyID     string  `json:"property_id"`
		Name           string  `json:"name"`
		Description    string  `json:"description"`
		Location       string  `json:"location"`
		Condition      string  `json:"condition"`
		Quantity       int     `json:"quantity"`
		EstimatedValue float64 `json:"estimated_value"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	if input.PropertyID == "" || input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Property and name are required"})
		return
	}

	if input.Condition == "" {
		input.Condition = models.ConditionGood
	}
	if !validCondition(input.Condition) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid condition"})
		return
	}
	if input.Quantity <= 0 {
		input.Quantity = 1
	}

	var property models.Property
	if err := utils.DB.First(&property, "id = ?", input.PropertyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return
	}

	item := models.InventoryItem{
		PropertyID:     input.PropertyID,
		Name:           input.Name,
		Description:    input.Description,
		Location:       input.Location,
		Condition:      input.Condition,
		Quantity:       input.Quantity,
		EstimatedValue: input.EstimatedValue,
	}

	if err := utils.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inventory item"})
		return
	}

	utils.NotifyAllAdmins(user.ID, "Created inventory item", "inventory", item.ID, map[string]interface{}{
		"propertyId": item.PropertyID,
		"name":       item.Name,
	})

	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func UpdateItem(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok || !auth.CanPerform(user, auth.ActionManage, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var item models.InventoryItem
	if err := utils.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}

	var input struct {
		Name           *string  `json:"name"`
		Description    *string  `json:"description"`
		Location       *string  `json:"location"`
		Condition      *string  `json:"condition"`
		Quantity       *int     `json:"quantity"`
		EstimatedValue *float64 `json:"estimated_value"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Location != nil {
		updates["location"] = *input.Location
	}
	if input.Condition != nil {
		if !validCondition(*input.Condition) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid condition"})
			return
		}
		updates["condition"] = *input.Condition
	}
	if input.Quantity != nil {
		updates["quantity"] = *input.Quantity
	}
	if input.EstimatedValue != nil {
		updates["estimated_value"] = *input.EstimatedValue
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	updates["version"] = item.Version + 1

	result := utils.DB.Model(&models.InventoryItem{}).
		Where("id = ? AND version = ?", item.ID, item.Version).
		Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update inventory item"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": models.ErrConcurrentModification.Error()})
		return
	}

	utils.DB.First(&item, "id = ?", item.ID)
	c.JSON(http.StatusOK, gin.H{"item": item})
}

func DeleteItem(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok || !auth.CanPerform(user, auth.ActionManage, "") {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var item models.InventoryItem
	if err := utils.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}

	if err := utils.DB.Where("inventory_item_id = ?", item.ID).
		Delete(&models.InventoryPhoto{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete inventory photos"})
		return
	}

	if err := utils.DB.Delete(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete inventory item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted successfully"})
}

// UpdateItemNotes lets a tenant change only the notes field of an item in
// the property they actively lease.
func UpdateItemNotes(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var item models.InventoryItem
	if err := utils.DB.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}

	// Only the holder of the active lease on the item's property may write.
	var lease models.TenantProperty
	if err := utils.DB.Where("property_id = ? AND status = ?",
		item.PropertyID, models.LeaseActive).First(&lease).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Item does not belong to your property"})
		return
	}

	if !auth.CanPerform(user, auth.ActionWriteOwn, lease.TenantID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Item does not belong to your property"})
		return
	}

	var input struct {
		Notes string `json:"notes"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	if err := utils.DB.Model(&item).Update("notes", input.Notes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notes updated successfully"})
}
