// services/review_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"rental-backend/models"

	"gorm.io/gorm"
)

type ReviewService struct {
	DB *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{DB: db}
}

type CreateReviewInput struct {
	UserID    uint
	ListingID uint
	Rating    int
	Comment   string
}

func (s *ReviewService) Create(in CreateReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Comment) == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}

	var listing models.Listing
	if err := s.DB.First(&listing, in.ListingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}

	review := models.Review{
		UserID:    in.UserID,
		ListingID: in.ListingID,
		Rating:    in.Rating,
		Comment:   strings.TrimSpace(in.Comment),
	}
	if err := s.DB.Create(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	s.DB.Preload("User").First(&review, review.ID)
	return &review, nil
}

func (s *ReviewService) ListForListing(listingID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.DB.Preload("User").
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (s *ReviewService) ListForUser(userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.DB.Preload("Listing").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// Delete removes a review. Only the author or an admin may delete.
func (s *ReviewService) Delete(reviewID, actorID uint, actorRole string) error {
	var review models.Review
	if err := s.DB.First(&review, reviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	if review.UserID != actorID && actorRole != models.RoleAdmin {
		return ErrNotReviewOwner
	}
	return s.DB.Delete(&review).Error
}
