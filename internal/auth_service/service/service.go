package service

import (
	"errors"
	"fmt"
	"time"

	"docuchat/internal/auth_service/store"
	"docuchat/internal/models"
	"docuchat/pkg/logger"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

// Sentinel errors the API layer maps to HTTP status codes.
var (
	// ErrEmailTaken means the email is already registered.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrInvalidCredentials deliberately covers both unknown user and wrong
	// password so login responses never reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service implements registration, login and password reset.
type Service struct {
	store     *store.Store
	jwtSecret []byte
	tokenTTL  time.Duration
	log       *logger.Logger
}

// NewService creates a new Service. tokenTTL bounds how long issued access
// tokens stay valid.
func NewService(s *store.Store, jwtSecret string, tokenTTL time.Duration, log *logger.Logger) *Service {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &Service{
		store:     s,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// Register creates a new user with a bcrypt-hashed password.
func (s *Service) Register(email, password, username, fullName string) (*models.User, error) {
	if _, err := s.store.GetUserByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		FullName: fullName,
		Email:    email,
		Password: string(hashed),
		Role:     "user",
		Status:   models.StatusActive,
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.WithField("email", email).Info("User registered")
	return user, nil
}

// Login verifies the credentials and returns a signed access token.
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.store.UpdateUser(user); err != nil {
		s.log.WithField("email", email).Warn("Failed to record login time")
	}

	return s.generateJWT(user)
}

// ResetPassword replaces the password of an existing user. There is no email
// verification loop; knowing the registered address is the whole challenge.
func (s *Service) ResetPassword(email, newPassword string) error {
	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = string(hashed)
	if err := s.store.UpdateUser(user); err != nil {
		return err
	}

	s.log.WithField("email", email).Info("Password reset")
	return nil
}

// generateJWT signs an HS256 token carrying the user's email and role.
func (s *Service) generateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.Email,
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
