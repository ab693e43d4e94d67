package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	GatewayStripe   = "stripe"
	GatewayRazorpay = "razorpay"
	GatewayPayPal   = "paypal"
)

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

func IsGateway(s string) bool {
	switch s {
	case GatewayStripe, GatewayRazorpay, GatewayPayPal:
		return true
	}
	return false
}

// Payment is one gateway charge attempt. Rows are never deleted; only
// verification moves status off pending.
type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID    uint `gorm:"index;column:user_id" json:"user_id"`
	ListingID uint `gorm:"index;column:listing_id" json:"listing_id"`
	// Listing owner at the time the charge was initiated, kept for
	// revenue reporting even if the listing changes hands.
	LandlordID uint `gorm:"index;column:landlord_id" json:"landlord_id"`

	Gateway  string  `gorm:"column:gateway;size:32" json:"gateway"`
	Amount   float64 `gorm:"column:amount" json:"amount"`
	Currency string  `gorm:"column:currency;size:8;default:USD" json:"currency"`
	Status   string  `gorm:"column:status;size:32;default:pending" json:"status"`

	CheckIn  time.Time `gorm:"column:check_in" json:"check_in"`
	CheckOut time.Time `gorm:"column:check_out" json:"check_out"`

	// Gateway-side charge/session/order id, unique per payment.
	TransactionID string `gorm:"column:transaction_id;size:191;uniqueIndex" json:"transaction_id"`

	User    User    `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Listing Listing `gorm:"foreignKey:ListingID;references:ID" json:"listing,omitempty"`
}

const (
	PayoutMethodBank   = "bank"
	PayoutMethodPayPal = "paypal"
)

type Payout struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	LandlordID  uint       `gorm:"index;column:landlord_id" json:"landlord_id"`
	Amount      float64    `gorm:"column:amount" json:"amount"`
	Method      string     `gorm:"column:method;size:32" json:"method"`
	Status      string     `gorm:"column:status;size:32;default:pending" json:"status"`
	ReferenceID string     `gorm:"column:reference_id;size:191" json:"reference_id,omitempty"`
	PaidAt      *time.Time `gorm:"column:paid_at" json:"paid_at,omitempty"`

	Landlord User `gorm:"foreignKey:LandlordID;references:ID" json:"landlord,omitempty"`
}
