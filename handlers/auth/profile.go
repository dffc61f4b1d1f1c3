package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"github.com/davidreact/tenanthub1/models"
	"github.com/davidreact/tenanthub1/utils"
)

func GetProfile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var pref models.UserPreference
	language := "en"
	if err := utils.DB.First(&pref, "user_id = ?", user.ID).Error; err == nil {
		language = pref.Language
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     user,
		"language": language,
	})
}

func UpdateProfile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		FullName        string `json:"full_name"`
		TelephoneNumber string `json:"telephone_number"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input data"})
		return
	}

	if input.FullName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full name is required"})
		return
	}

	if err := utils.DB.Model(&user).Updates(map[string]interface{}{
		"full_name":        input.FullName,
		"telephone_number": input.TelephoneNumber,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// UpdatePreferences upserts the caller's language preference.
func UpdatePreferences(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Language string `json:"language"`
	}

	if err := c.ShouldBindJSON(&input); err != nil || input.Language == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Language is required"})
		return
	}

	pref := models.UserPreference{
		UserID:   user.ID,
		Language: input.Language,
	}

	if err := utils.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"language", "updated_at"}),
	}).Create(&pref).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Preferences updated"})
}
