package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleTenant   = "tenant"
	RoleLandlord = "landlord"
	RoleAdmin    = "admin"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"column:name;size:128" json:"name"`
	Email    string `gorm:"column:email;size:191;uniqueIndex" json:"email"`
	Password string `gorm:"column:password;size:128" json:"-"`
	Role     string `gorm:"column:role;size:32;default:tenant" json:"role"`

	AvatarPublicID string `gorm:"column:avatar_public_id;size:191" json:"avatar_public_id,omitempty"`
	AvatarURL      string `gorm:"column:avatar_url;size:512" json:"avatar_url,omitempty"`
}
