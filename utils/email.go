package utils

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/gomail.v2"
)

// SendWelcomeEmail sends the initial credentials to a tenant account created
// by an admin. Failures are logged, never surfaced to the caller.
func SendWelcomeEmail(email, fullName, tempPassword string) {
	if os.Getenv("SMTP_HOST") == "" {
		log.Printf("SMTP not configured, skipping welcome email to %s", email)
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_SENDER"))
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Your tenant portal account")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hello %s,\n\nAn account has been created for you on the tenant portal.\n\nEmail: %s\nTemporary password: %s\n\nPlease sign in and change your password.",
		fullName, email, tempPassword))

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		465,
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASS"),
	)

	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send welcome email to %s: %v", email, err)
		return
	}

	log.Printf("Welcome email sent to %s", email)
}
