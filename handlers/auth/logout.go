package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/davidreact/tenanthub1/utils"
)

func Logout(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	now := time.Now()
	user.LastLogoutAt = &now
	if err := utils.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logout successful.",
	})
}
