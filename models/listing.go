package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Listing statuses. Available/Reserved are driven by the booking engine,
// the rest by admin moderation.
const (
	ListingAvailable = "Available"
	ListingReserved  = "Reserved"
	ListingPending   = "Pending"
	ListingApproved  = "Approved"
	ListingRejected  = "Rejected"
)

type Listing struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OwnerID uint `gorm:"index;column:owner_id" json:"owner_id"`

	Title        string  `gorm:"column:title;size:191" json:"title"`
	Description  string  `gorm:"column:description;type:text" json:"description"`
	Status       string  `gorm:"column:status;size:32;default:Available" json:"status"`
	Price        float64 `gorm:"column:price" json:"price"`
	Size         float64 `gorm:"column:size" json:"size,omitempty"`
	Floor        int     `gorm:"column:floor" json:"floor,omitempty"`
	Location     string  `gorm:"column:location;size:191" json:"location"`
	Latitude     float64 `gorm:"column:latitude" json:"latitude"`
	Longitude    float64 `gorm:"column:longitude" json:"longitude"`
	PropertyType string  `gorm:"column:property_type;size:32" json:"property_type"`

	Rooms     int `gorm:"column:rooms;default:1" json:"rooms"`
	Beds      int `gorm:"column:beds;default:1" json:"beds"`
	Bathrooms int `gorm:"column:bathrooms;default:1" json:"bathrooms"`

	// Amenities is a JSON array of strings, Images a JSON array of
	// {public_id, url} objects from the external blob store.
	Amenities datatypes.JSON `gorm:"column:amenities" json:"amenities,omitempty"`
	Images    datatypes.JSON `gorm:"column:images" json:"images,omitempty"`

	Owner User `gorm:"foreignKey:OwnerID;references:ID" json:"owner,omitempty"`
}

// ListingImage mirrors one element of Listing.Images.
type ListingImage struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}
