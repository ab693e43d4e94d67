package models

import (
	"time"

	"gorm.io/gorm"
)

type Review struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID    uint `gorm:"index;column:user_id" json:"user_id"`
	ListingID uint `gorm:"index;column:listing_id" json:"listing_id"`

	Rating  int    `gorm:"column:rating" json:"rating"`
	Comment string `gorm:"column:comment;type:text" json:"comment"`

	User    User    `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Listing Listing `gorm:"foreignKey:ListingID;references:ID" json:"listing,omitempty"`
}
