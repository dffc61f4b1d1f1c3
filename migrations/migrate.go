package migrations

import (
	"github.com/davidreact/tenanthub1/models"
	"github.com/davidreact/tenanthub1/utils"
)

func MigrateUsers() {
	utils.DB.AutoMigrate(&models.User{}, &models.UserPreference{})
}

func MigrateProperties() {
	utils.DB.AutoMigrate(&models.Property{}, &models.TenantProperty{})
}

func MigrateInventory() {
	utils.DB.AutoMigrate(&models.InventoryItem{}, &models.InventoryPhoto{})
}

func MigratePayments() {
	utils.DB.AutoMigrate(&models.PaymentProof{})
}

func MigrateConversations() {
	utils.DB.AutoMigrate(&models.Conversation{}, &models.Message{})
}

func MigrateHandovers() {
	utils.DB.AutoMigrate(&models.KeyHandover{})
}

func MigrateNotifications() {
	utils.DB.AutoMigrate(&models.Notification{})
}

// MigrateAll runs every migration in dependency order.
func MigrateAll() {
	MigrateUsers()
	MigrateProperties()
	MigrateInventory()
	MigratePayments()
	MigrateConversations()
	MigrateHandovers()
	MigrateNotifications()
}
