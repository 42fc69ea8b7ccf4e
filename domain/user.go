package domain

import (
	"strings"
	"time"
)

// MinPasswordLength is the shortest password accepted at signup and password change.
const MinPasswordLength = 8

// User represents an authenticated identity in the platform.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Principal is the identity carried by a verified access token.
type Principal struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// ValidEmail applies the deliberately loose address check used at signup and login.
func ValidEmail(email string) bool {
	return strings.Contains(email, "@")
}

// ValidPassword reports whether password satisfies the length policy.
func ValidPassword(password string) bool {
	return len([]rune(password)) >= MinPasswordLength
}
