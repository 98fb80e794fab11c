package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"` // stored lowercase
	PasswordHash string     `json:"-" gorm:"size:255;not null"`                 // Never expose in JSON
	Role         Role       `json:"role" gorm:"size:20;default:'user';index"`
	FirstName    string     `json:"first_name,omitempty" gorm:"size:100"`
	LastName     string     `json:"last_name,omitempty" gorm:"size:100"`
	Phone        string     `json:"phone,omitempty" gorm:"size:20"`
	Active       bool       `json:"active" gorm:"default:true;index"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
