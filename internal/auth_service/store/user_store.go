package store

import (
	"errors"

	"docuchat/internal/models"

	"gorm.io/gorm"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// Store wraps the relational database handle for user records.
type Store struct {
	DB *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

// GetUserByEmail looks a user up by email address.
func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername looks a user up by username.
func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateUser saves changes to an existing user row.
func (s *Store) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}
