// seed/seed.go
package seed

import (
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/davidreact/tenanthub1/models"
	"github.com/davidreact/tenanthub1/utils"
)

// SeedAdmin creates the initial admin account if no admin exists yet.
// Credentials come from ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdmin() error {
	var existingAdmin models.User
	err := utils.DB.Where("role = ?", models.RoleAdmin).First(&existingAdmin).Error
	if err == nil {
		log.Println("Admin account already exists. Skipping seeding.")
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL or ADMIN_PASSWORD not set. Skipping admin seeding.")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    email,
		Password: string(hashedPassword),
		FullName: "Administrator",
		Role:     models.RoleAdmin,
		IsActive: true,
	}

	if err := utils.DB.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("Admin account seeded successfully.")
	return nil
}
