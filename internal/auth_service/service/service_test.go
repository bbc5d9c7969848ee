package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"docuchat/internal/auth_service/store"
	"docuchat/internal/models"
	"docuchat/pkg/logger"

	"github.com/golang-jwt/jwt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newTestService(t *testing.T) *Service {
	t.Helper()

	// A named shared-cache database keeps gorm's pooled connections on one
	// in-memory instance while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewService(store.NewStore(db), testSecret, time.Hour, logger.New("test", "", ""))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)

	user, err := svc.Register("alice@example.com", "supersecret", "alice", "Alice A")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Password == "supersecret" {
		t.Fatal("password stored in plain text")
	}
	if user.Role != "user" {
		t.Fatalf("role = %q, expected default role", user.Role)
	}

	token, err := svc.Login("alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["sub"] != "alice@example.com" {
		t.Fatalf("sub = %v, expected email", claims["sub"])
	}
	if claims["role"] != "user" {
		t.Fatalf("role claim = %v", claims["role"])
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register("bob@example.com", "supersecret", "bob", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register("bob@example.com", "othersecret", "bob2", "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register("carol@example.com", "supersecret", "carol", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login("carol@example.com", "wrongpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("nobody@example.com", "supersecret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register("dave@example.com", "oldpassword", "dave", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.ResetPassword("dave@example.com", "newpassword"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := svc.Login("dave@example.com", "oldpassword"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := svc.Login("dave@example.com", "newpassword"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestResetPasswordUnknownUser(t *testing.T) {
	svc := newTestService(t)

	err := svc.ResetPassword("ghost@example.com", "whatever123")
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
