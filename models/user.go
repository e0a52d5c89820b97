package models

import (
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

type User struct {
	ID                 uint               `gorm:"primaryKey" json:"id"`
	Email              string             `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash       string             `gorm:"size:255;not null" json:"-"` // bcrypt, never returned in JSON
	FullName           string             `gorm:"size:255;not null" json:"full_name"`
	PhoneNumber        string             `gorm:"size:20" json:"phone_number"`
	Role               Role               `gorm:"type:varchar(20);not null;default:client" json:"role"`
	RegistrationStatus RegistrationStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"registration_status"`
	Address            string             `gorm:"type:text" json:"address"`
	IsActive           bool               `gorm:"not null;default:true" json:"is_active"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// CanAuthenticate reports whether the account passed review and is enabled.
func (u User) CanAuthenticate() bool {
	return u.RegistrationStatus == RegistrationApproved && u.IsActive
}
