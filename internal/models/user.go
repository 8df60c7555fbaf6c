package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Phone        string         `json:"phone" gorm:"unique;not null"`
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	PasswordHash string         `json:"-" gorm:"not null"`
	AuthStatus   string         `json:"auth_status" gorm:"default:'new'"` // new, code_verified
	IsStaff      bool           `json:"is_staff" gorm:"default:false"`
	IsActive     bool           `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at" gorm:"index"`
}

type AuthStatus string

const (
	AuthNew          AuthStatus = "new"
	AuthCodeVerified AuthStatus = "code_verified"
)
