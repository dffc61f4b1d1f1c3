package utils

import (
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/joho/godotenv"
)

var JwtSecret []byte

func init() {
	// Load the .env file
	if err := godotenv.Load(); err != nil {
		// It's okay if the .env file isn't found; environment variables may be set elsewhere
		log.Println("No .env file found or error loading .env file:", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("JWT_SECRET is not set in the environment; using an insecure development secret")
		secret = "insecure-dev-secret"
	}

	JwtSecret = []byte(secret)
}

// GenerateAccessToken creates a new JWT access token
func GenerateAccessToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(15 * time.Minute).Unix(), // Access token valid for 15 minutes
	})

	return token.SignedString(JwtSecret)
}

// GenerateRefreshToken creates a new JWT refresh token
func GenerateRefreshToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(7 * 24 * time.Hour).Unix(), // Refresh token valid for 7 days
	})

	return token.SignedString(JwtSecret)
}

// ExtractUserIDFromToken parses a token string and returns the user ID claim
// plus the issue time. Tokens issued before the user's last logout are
// rejected by the callers, so issuedAt must round-trip the iat claim.
func ExtractUserIDFromToken(tokenString string) (string, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", time.Time{}, jwt.ErrSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", time.Time{}, jwt.ErrSignatureInvalid
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", time.Time{}, jwt.ErrSignatureInvalid
	}

	var issuedAt time.Time
	if iat, ok := claims["iat"].(float64); ok {
		issuedAt = time.Unix(int64(iat), 0)
	}

	return userID, issuedAt, nil
}
