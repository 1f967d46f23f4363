// Package users provides database operations for account records.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByEmail("a@b.com")
package users

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dkarpov/authgate/internal/entities"
)

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when creating a user with an email
	// that already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// Repository handles all user database operations. It is the only
// component that reads or writes password hashes.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user with an already-hashed password.
func (r *Repository) Create(email, passwordHash string) (*entities.User, error) {
	var existing entities.User
	err := r.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := &entities.User{
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := r.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdatePassword replaces the stored password hash for a user.
func (r *Repository) UpdatePassword(id uint, newHash string) (*entities.User, error) {
	result := r.db.Model(&entities.User{}).Where("id = ?", id).Update("password_hash", newHash)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(id)
}
