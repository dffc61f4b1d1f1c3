package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/davidreact/tenanthub1/handlers/auth"
	"github.com/davidreact/tenanthub1/handlers/conversations"
	"github.com/davidreact/tenanthub1/handlers/handovers"
	"github.com/davidreact/tenanthub1/handlers/inventory"
	"github.com/davidreact/tenanthub1/handlers/leases"
	"github.com/davidreact/tenanthub1/handlers/notifications"
	"github.com/davidreact/tenanthub1/handlers/payments"
	"github.com/davidreact/tenanthub1/handlers/properties"
	"github.com/davidreact/tenanthub1/handlers/tenants"
	"github.com/davidreact/tenanthub1/migrations"
	"github.com/davidreact/tenanthub1/seed"
	"github.com/davidreact/tenanthub1/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env file:", err)
	}
}

func main() {
	r := gin.Default()

	allowOrigins := []string{"http://localhost:3000"}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		allowOrigins = strings.Split(origins, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	utils.ConnectDatabase()
	utils.ConnectRedis()

	migrations.MigrateAll()

	// Seed Initial Data
	if err := seed.SeedAdmin(); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	r.POST("/register", auth.Register)
	r.POST("/login", auth.Login)
	r.POST("/refresh", auth.Refresh)

	protected := r.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/logout", auth.Logout)
		protected.POST("/reset-password", auth.ResetPassword)
		protected.GET("/profile", auth.GetProfile)
		protected.PUT("/profile", auth.UpdateProfile)
		protected.PUT("/preferences", auth.UpdatePreferences)

		notifications.RegisterNotificationsRoutes(protected)

		// Tenant-facing routes
		protected.GET("/tenant/inventory", inventory.GetMyInventory)
		protected.PUT("/tenant/inventory/:id/notes", inventory.UpdateItemNotes)
		protected.GET("/tenant/payments", payments.GetMyPayments)
		protected.POST("/tenant/payments", payments.SubmitPaymentProof)
		protected.GET("/tenant/handovers", handovers.GetMyHandovers)
		protected.POST("/tenant/handovers", handovers.RequestHandover)
		protected.GET("/conversations", conversations.GetConversations)
		protected.POST("/conversations", conversations.CreateConversation)
		protected.GET("/conversations/:id/messages", conversations.GetMessages)
		protected.POST("/conversations/:id/messages", conversations.PostMessage)
		protected.PUT("/conversations/:id/status", conversations.SetConversationStatus)

		admin := protected.Group("/admin")
		admin.Use(auth.AdminOnly())
		{
			admin.GET("/properties", properties.GetProperties)
			admin.GET("/properties/:id", properties.GetProperty)
			admin.POST("/properties", properties.CreateProperty)
			admin.PUT("/properties/:id", properties.UpdateProperty)
			admin.DELETE("/properties/:id", properties.DeleteProperty)
			admin.GET("/properties/:id/inventory", inventory.GetPropertyInventory)

			admin.GET("/tenants", tenants.GetTenants)
			admin.POST("/tenants", tenants.CreateTenant)
			admin.PUT("/tenants/:id/active", tenants.SetTenantActive)

			admin.GET("/leases", leases.GetLeases)
			admin.POST("/leases", leases.AssignProperty)
			admin.POST("/leases/:id/terminate", leases.TerminateLease)

			admin.POST("/inventory", inventory.CreateItem)
			admin.PUT("/inventory/:id", inventory.UpdateItem)
			admin.DELETE("/inventory/:id", inventory.DeleteItem)

			admin.GET("/payments", payments.GetPayments)
			admin.POST("/payments/:id/review", payments.ReviewPayment)

			admin.GET("/handovers", handovers.GetHandovers)
			admin.POST("/handovers/:id/status", handovers.UpdateHandoverStatus)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
