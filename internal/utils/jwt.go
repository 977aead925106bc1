package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GetJwtSecretString returns the resolved JWT secret as a string.
// Resolution order: JWT_SECRET -> dev default (non-production only).
func GetJwtSecretString() (string, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		// Provide a safe dev default to avoid local setup drift unless explicitly disabled.
		// If STRICT_JWT is set to 1/true, we require an env secret.
		strict := strings.EqualFold(strings.TrimSpace(os.Getenv("STRICT_JWT")), "1") ||
			strings.EqualFold(strings.TrimSpace(os.Getenv("STRICT_JWT")), "true")
		if !strict {
			secret = "dev_jwt_secret_123"
		}
	}
	if secret == "" {
		return "", fmt.Errorf("JWT_SECRET environment variable not set")
	}
	return secret, nil
}

// GetJwtSecretBytes returns the resolved JWT secret in []byte form.
func GetJwtSecretBytes() ([]byte, error) {
	s, err := GetJwtSecretString()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// GenerateJWT creates a new signed token carrying the user's id and username
func GenerateJWT(userID uuid.UUID, username string) (string, error) {
	jwtSecret, err := GetJwtSecretBytes()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"user_id":  userID.String(),
		"username": username,
		"exp":      time.Now().Add(time.Hour * 72).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}
