package entities

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User is an account that can authenticate against the API.
// The password is stored only as a bcrypt hash and never serialized.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string         `gorm:"size:100" json:"-"`
	FirstName    string         `gorm:"size:100" json:"first_name,omitempty"`
	LastName     string         `gorm:"size:100" json:"last_name,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// DisplayName returns the user's full name, falling back to the email
// when no name fields are set.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}
