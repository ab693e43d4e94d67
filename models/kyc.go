package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	KYCTypeSSN      = "ssn"
	KYCTypePassport = "passport"
)

const (
	KYCPending  = "Pending"
	KYCVerified = "Verified"
	KYCRejected = "Rejected"
)

// KYC holds one identity-verification application per user. Documents are
// opaque blob-store URLs.
type KYC struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID           uint   `gorm:"uniqueIndex;column:user_id" json:"user_id"`
	VerificationType string `gorm:"column:verification_type;size:32" json:"verification_type"`
	SSN              string `gorm:"column:ssn;size:32" json:"ssn,omitempty"`
	PassportNumber   string `gorm:"column:passport_number;size:64" json:"passport_number,omitempty"`
	PassportDocument string `gorm:"column:passport_document;size:512" json:"passport_document,omitempty"`
	VisaDocument     string `gorm:"column:visa_document;size:512" json:"visa_document,omitempty"`
	Status           string `gorm:"column:status;size:32;default:Pending" json:"status"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}
