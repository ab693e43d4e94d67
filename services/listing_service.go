// services/listing_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rental-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListingService struct {
	DB *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{DB: db}
}

type ListingInput struct {
	Title        string
	Description  string
	Price        float64
	Size         float64
	Floor        int
	Location     string
	PropertyType string
	Latitude     float64
	Longitude    float64
	Rooms        int
	Beds         int
	Bathrooms    int
	// Accepts either a comma-separated string or an array upstream;
	// controllers normalize to a slice.
	Amenities []string
	Images    []models.ListingImage
}

func (s *ListingService) Create(ownerID uint, in ListingInput) (*models.Listing, error) {
	if in.Title == "" || in.Description == "" || in.Price <= 0 || in.Location == "" || in.PropertyType == "" {
		return nil, fmt.Errorf("%w: title, description, price, location and property_type are required", ErrInvalidInput)
	}
	if in.PropertyType != "hotel" && in.PropertyType != "apartment" {
		return nil, fmt.Errorf("%w: property_type must be hotel or apartment", ErrInvalidInput)
	}
	if len(in.Images) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", ErrInvalidInput)
	}
	if in.Latitude == 0 && in.Longitude == 0 {
		return nil, fmt.Errorf("%w: latitude and longitude are required", ErrInvalidInput)
	}

	amenitiesJSON, _ := json.Marshal(in.Amenities)
	imagesJSON, _ := json.Marshal(in.Images)

	listing := models.Listing{
		OwnerID:      ownerID,
		Title:        in.Title,
		Description:  in.Description,
		Status:       models.ListingAvailable,
		Price:        in.Price,
		Size:         in.Size,
		Floor:        in.Floor,
		Location:     in.Location,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		PropertyType: in.PropertyType,
		Rooms:        defaultInt(in.Rooms, 1),
		Beds:         defaultInt(in.Beds, 1),
		Bathrooms:    defaultInt(in.Bathrooms, 1),
		Amenities:    datatypes.JSON(amenitiesJSON),
		Images:       datatypes.JSON(imagesJSON),
	}
	if err := s.DB.Create(&listing).Error; err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return &listing, nil
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func (s *ListingService) GetByID(id uint) (*models.Listing, []models.Review, error) {
	var listing models.Listing
	if err := s.DB.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrListingNotFound
		}
		return nil, nil, fmt.Errorf("failed to retrieve listing: %w", err)
	}

	var reviews []models.Review
	if err := s.DB.Preload("User").Where("listing_id = ?", id).Find(&reviews).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve listing reviews: %w", err)
	}
	return &listing, reviews, nil
}

func (s *ListingService) GetAll() ([]models.Listing, error) {
	var listings []models.Listing
	if err := s.DB.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve listings: %w", err)
	}
	return listings, nil
}

// ListForOwner pages through a user's own listings, 10 per page.
func (s *ListingService) ListForOwner(ownerID uint, page int) ([]models.Listing, error) {
	if page < 1 {
		page = 1
	}
	const limit = 10

	var listings []models.Listing
	if err := s.DB.
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve user listings: %w", err)
	}
	return listings, nil
}

type SearchFilter struct {
	Query        string
	PriceMin     *float64
	PriceMax     *float64
	Location     string
	PropertyType string
	Amenities    []string
}

func (s *ListingService) Search(f SearchFilter) ([]models.Listing, error) {
	q := s.DB.Model(&models.Listing{}).Preload("Owner")

	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.PriceMin != nil {
		q = q.Where("price >= ?", *f.PriceMin)
	}
	if f.PriceMax != nil {
		q = q.Where("price <= ?", *f.PriceMax)
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(f.Location)+"%")
	}
	if f.PropertyType != "" {
		q = q.Where("property_type = ?", f.PropertyType)
	}
	// JSON containment per amenity.
	for _, a := range f.Amenities {
		q = q.Where("amenities LIKE ?", "%\""+strings.TrimSpace(a)+"\"%")
	}

	var listings []models.Listing
	if err := q.Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	return listings, nil
}

// Nearby returns listings within maxDistance meters of (lat, lng),
// nearest first, via MySQL's spherical distance function.
func (s *ListingService) Nearby(lat, lng, maxDistance float64) ([]models.Listing, error) {
	if maxDistance <= 0 {
		maxDistance = 10000 // 10 km
	}

	var listings []models.Listing
	err := s.DB.
		Preload("Owner").
		Where("ST_Distance_Sphere(POINT(longitude, latitude), POINT(?, ?)) <= ?", lng, lat, maxDistance).
		Clauses(clause.OrderBy{
			Expression: gorm.Expr("ST_Distance_Sphere(POINT(longitude, latitude), POINT(?, ?))", lng, lat),
		}).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search nearby listings: %w", err)
	}
	return listings, nil
}

type UpdateListingInput struct {
	Title        *string
	Description  *string
	Price        *float64
	Size         *float64
	Floor        *int
	Location     *string
	PropertyType *string
	Latitude     *float64
	Longitude    *float64
	Rooms        *int
	Beds         *int
	Bathrooms    *int
	Amenities    []string
	Images       []models.ListingImage
}

func (s *ListingService) Update(id, actorID uint, in UpdateListingInput) (*models.Listing, error) {
	var listing models.Listing
	if err := s.DB.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if listing.OwnerID != actorID {
		return nil, ErrNotListingOwner
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Size != nil {
		updates["size"] = *in.Size
	}
	if in.Floor != nil {
		updates["floor"] = *in.Floor
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.PropertyType != nil {
		updates["property_type"] = *in.PropertyType
	}
	if in.Latitude != nil {
		updates["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		updates["longitude"] = *in.Longitude
	}
	if in.Rooms != nil {
		updates["rooms"] = *in.Rooms
	}
	if in.Beds != nil {
		updates["beds"] = *in.Beds
	}
	if in.Bathrooms != nil {
		updates["bathrooms"] = *in.Bathrooms
	}
	if in.Amenities != nil {
		raw, _ := json.Marshal(in.Amenities)
		updates["amenities"] = datatypes.JSON(raw)
	}
	if in.Images != nil {
		raw, _ := json.Marshal(in.Images)
		updates["images"] = datatypes.JSON(raw)
	}

	if len(updates) > 0 {
		if err := s.DB.Model(&listing).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update listing: %w", err)
		}
	}
	return &listing, nil
}

func (s *ListingService) Delete(id, actorID uint) error {
	var listing models.Listing
	if err := s.DB.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListingNotFound
		}
		return err
	}
	if listing.OwnerID != actorID {
		return ErrNotListingOwner
	}
	if err := s.DB.Delete(&listing).Error; err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

// AdminSetStatus applies a moderation state from the console transition
// table. Availability states stay owned by the booking engine: moderation
// writes are refused while any booking still occupies the listing.
func (s *ListingService) AdminSetStatus(id uint, status string) (*models.Listing, error) {
	switch status {
	case models.ListingAvailable, models.ListingPending, models.ListingApproved, models.ListingRejected:
	default:
		return nil, fmt.Errorf("%w: status %q is not admin-settable", ErrInvalidInput, status)
	}

	var listing models.Listing
	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&listing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return err
		}

		var occupying int64
		if err := tx.Model(&models.Booking{}).
			Where("listing_id = ? AND status IN ?", id, models.OccupyingBookingStatuses).
			Count(&occupying).Error; err != nil {
			return err
		}
		if occupying > 0 {
			return fmt.Errorf("%w: listing has active bookings", ErrInvalidInput)
		}

		return tx.Model(&listing).Update("status", status).Error
	})
	if txErr != nil {
		return nil, txErr
	}
	return &listing, nil
}
