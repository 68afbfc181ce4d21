package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Limits applied to user credentials.
const (
	MaxEmailLength    = 255
	MinPasswordLength = 8
	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

// Credential validation errors.
var (
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrEmailExists      = errors.New("email already exists")
)

// User represents a registered account. Tasks and sessions belong to a user.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a User with a fresh ID for an already-hashed password.
func NewUser(email, hashedPassword string, now time.Time) *User {
	return &User{
		ID:             uuid.New(),
		Email:          NormalizeEmail(email),
		HashedPassword: hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NormalizeEmail trims surrounding whitespace and lowercases an email
// address. Stored emails are always normalized, so lookups and the unique
// index agree on every database.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the shape of an email address: non-empty, contains '@'
// and at most MaxEmailLength characters.
func ValidateEmail(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return NewValidationError("email", "Email is required", ErrEmptyEmail)
	}
	if !strings.Contains(email, "@") || utf8.RuneCountInString(email) > MaxEmailLength {
		return NewValidationError("email", "Invalid email format", ErrInvalidEmail)
	}
	return nil
}

// ValidatePassword checks password length bounds.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return NewValidationError("password", "Password must be at least 8 characters long", ErrPasswordTooShort)
	}
	if len(password) > MaxPasswordBytes {
		return NewValidationError("password", "Password must be at most 72 bytes long", ErrPasswordTooLong)
	}
	return nil
}
