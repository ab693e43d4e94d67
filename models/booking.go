package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingPending    = "pending"
	BookingConfirmed  = "confirmed"
	BookingCancelled  = "cancelled"
	BookingCheckedIn  = "checked-in"
	BookingCheckedOut = "checked-out"
)

// ActiveBookingStatuses are the statuses that hold a listing. A (user,
// listing) pair may have at most one booking in these states.
var ActiveBookingStatuses = []string{BookingPending, BookingConfirmed}

// OccupyingBookingStatuses are the statuses that keep a listing Reserved.
var OccupyingBookingStatuses = []string{BookingConfirmed, BookingCheckedIn}

func IsBookingStatus(s string) bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCheckedIn, BookingCheckedOut:
		return true
	}
	return false
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID    uint `gorm:"index;column:user_id" json:"user_id"`
	ListingID uint `gorm:"index;column:listing_id" json:"listing_id"`

	ReferenceCode string    `gorm:"column:reference_code;size:64;uniqueIndex" json:"reference_code"`
	CheckIn       time.Time `gorm:"column:check_in" json:"check_in"`
	CheckOut      time.Time `gorm:"column:check_out" json:"check_out"`
	Status        string    `gorm:"column:status;size:32;default:pending" json:"status"`

	Paid          bool   `gorm:"column:paid;default:false" json:"paid"`
	TransactionID string `gorm:"column:transaction_id;size:191" json:"transaction_id,omitempty"`

	User    User    `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Listing Listing `gorm:"foreignKey:ListingID;references:ID" json:"listing,omitempty"`
}
