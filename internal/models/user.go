package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserStatus describes the lifecycle state of a user account.
type UserStatus string

const (
	StatusPending     UserStatus = "pending"
	StatusActive      UserStatus = "active"
	StatusSuspended   UserStatus = "suspended"
	StatusDeactivated UserStatus = "deactivated"
)

// User is a registered account in the system.
type User struct {
	gorm.Model

	Username string `gorm:"unique;not null" json:"username"`
	FullName string `gorm:"size:255" json:"full_name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255" json:"-"` // bcrypt hash, never serialized

	Role   string     `gorm:"size:50;default:'user';not null" json:"role"`
	Status UserStatus `gorm:"type:varchar(20);default:'active';not null" json:"status"`

	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	Settings    datatypes.JSON `json:"settings,omitempty"`
}

func (User) TableName() string {
	return "users"
}
