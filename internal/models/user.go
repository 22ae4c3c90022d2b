package models

import (
	"time"
)

// User represents a registered account in the credential store
type User struct {
	ID            string    `gorm:"type:varchar(36);primaryKey;column:id"`
	Username      string    `gorm:"type:varchar(64);not null;uniqueIndex:users_ux1;column:username"`
	Email         string    `gorm:"type:varchar(256);not null;default:'';column:email"`
	PasswordHash  string    `gorm:"type:varchar(128);not null;column:password_hash"`
	FirstName     string    `gorm:"type:varchar(64);not null;default:'';column:first_name"`
	LastName      string    `gorm:"type:varchar(64);not null;default:'';column:last_name"`
	Role          string    `gorm:"type:varchar(32);not null;default:'user';column:role"`
	SecurityStamp string    `gorm:"type:varchar(36);not null;column:security_stamp"`
	CreatedAt     time.Time `gorm:"not null;column:created_at"`
	UpdatedAt     time.Time `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// Role constants
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
