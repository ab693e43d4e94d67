// services/booking_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"rental-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService owns the booking lifecycle and keeps listing availability
// consistent with the set of active bookings. Every mutation runs inside a
// transaction holding a row lock on the listing, so concurrent writes for
// the same listing serialize.
type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

type CreateBookingInput struct {
	UserID    uint
	ListingID uint
	CheckIn   string
	CheckOut  string
}

func parseBookingDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// Create inserts a pending booking for (user, listing). The listing is not
// reserved yet; that happens when the landlord confirms.
func (s *BookingService) Create(in CreateBookingInput) (*models.Booking, error) {
	if in.ListingID == 0 || in.CheckIn == "" || in.CheckOut == "" {
		return nil, ErrInvalidInput
	}

	checkIn, err := parseBookingDate(in.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("%w: check_in: %v", ErrInvalidInput, err)
	}
	checkOut, err := parseBookingDate(in.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("%w: check_out: %v", ErrInvalidInput, err)
	}
	if !checkOut.After(checkIn) {
		return nil, ErrInvalidDates
	}

	var booking models.Booking

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&listing, in.ListingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return fmt.Errorf("db error loading listing %d: %w", in.ListingID, err)
		}

		if listing.OwnerID == in.UserID {
			return ErrOwnListing
		}

		// The lock above closes the check-then-act window: two
		// concurrent creates for the same pair queue here.
		var active int64
		if err := tx.Model(&models.Booking{}).
			Where("user_id = ? AND listing_id = ? AND status IN ?",
				in.UserID, in.ListingID, models.ActiveBookingStatuses).
			Count(&active).Error; err != nil {
			return fmt.Errorf("db error counting active bookings: %w", err)
		}
		if active > 0 {
			return ErrDuplicateBooking
		}

		booking = models.Booking{
			UserID:        in.UserID,
			ListingID:     in.ListingID,
			ReferenceCode: uuid.NewString(),
			CheckIn:       checkIn,
			CheckOut:      checkOut,
			Status:        models.BookingPending,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &booking, nil
}

type UpdateBookingInput struct {
	BookingID uint
	ActorID   uint
	Status    string
	CheckIn   string
	CheckOut  string
}

// UpdateStatus performs the one-shot landlord transition out of pending.
// A transition into confirmed reserves the listing; into cancelled it
// releases the listing if no other booking still occupies it.
func (s *BookingService) UpdateStatus(in UpdateBookingInput) (*models.Booking, error) {
	if !models.IsBookingStatus(in.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
	}

	var booking models.Booking

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, in.BookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		var listing models.Listing
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&listing, booking.ListingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return err
		}

		if listing.OwnerID != in.ActorID {
			return ErrNotListingOwner
		}
		if booking.Status != models.BookingPending {
			return ErrBookingNotPending
		}

		updates := map[string]interface{}{"status": in.Status}
		if in.CheckIn != "" {
			t, err := parseBookingDate(in.CheckIn)
			if err != nil {
				return fmt.Errorf("%w: check_in: %v", ErrInvalidInput, err)
			}
			updates["check_in"] = t
		}
		if in.CheckOut != "" {
			t, err := parseBookingDate(in.CheckOut)
			if err != nil {
				return fmt.Errorf("%w: check_out: %v", ErrInvalidInput, err)
			}
			updates["check_out"] = t
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		return s.syncListingStatus(tx, &listing, in.Status)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &booking, nil
}

// AdminSetStatus is the console override: any transition, same
// availability recompute afterwards.
func (s *BookingService) AdminSetStatus(bookingID uint, status string) (*models.Booking, error) {
	if !models.IsBookingStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	var booking models.Booking

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		var listing models.Listing
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&listing, booking.ListingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrListingNotFound
			}
			return err
		}

		if err := tx.Model(&booking).Update("status", status).Error; err != nil {
			return err
		}
		return s.syncListingStatus(tx, &listing, status)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &booking, nil
}

// syncListingStatus applies the availability side effect of a booking
// moving into newStatus. Only Reserved/Available are ever written here;
// admin moderation states are left alone.
func (s *BookingService) syncListingStatus(tx *gorm.DB, listing *models.Listing, newStatus string) error {
	switch newStatus {
	case models.BookingConfirmed:
		if listing.Status != models.ListingReserved {
			if err := tx.Model(listing).Update("status", models.ListingReserved).Error; err != nil {
				return fmt.Errorf("failed to reserve listing %d: %w", listing.ID, err)
			}
		}
	case models.BookingCancelled, models.BookingCheckedOut:
		var occupying int64
		if err := tx.Model(&models.Booking{}).
			Where("listing_id = ? AND status IN ?", listing.ID, models.OccupyingBookingStatuses).
			Count(&occupying).Error; err != nil {
			return fmt.Errorf("failed to count occupying bookings: %w", err)
		}
		if occupying == 0 && listing.Status == models.ListingReserved {
			if err := tx.Model(listing).Update("status", models.ListingAvailable).Error; err != nil {
				return fmt.Errorf("failed to release listing %d: %w", listing.ID, err)
			}
		}
	}
	return nil
}

// MarkPaid flags the pair's active booking as paid. Called from payment
// verification inside its transaction; missing bookings are not an error
// there (the reconciler sweep picks them up later).
func (s *BookingService) MarkPaid(tx *gorm.DB, userID, listingID uint, transactionID string) (bool, error) {
	res := tx.Model(&models.Booking{}).
		Where("user_id = ? AND listing_id = ? AND status IN ? AND paid = ?",
			userID, listingID, models.ActiveBookingStatuses, false).
		Updates(map[string]interface{}{"paid": true, "transaction_id": transactionID})
	if res.Error != nil {
		return false, fmt.Errorf("failed to mark booking paid: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *BookingService) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.Preload("User").Preload("Listing").First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking: %w", err)
	}
	return &booking, nil
}

func (s *BookingService) GetAll() ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.
		Preload("User").
		Preload("Listing").
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	return list, nil
}

// ListForUser returns the tenant's own bookings, newest first.
func (s *BookingService) ListForUser(userID uint) ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.
		Preload("Listing").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve user bookings: %w", err)
	}
	return list, nil
}

// ListForLandlord returns bookings on listings the landlord owns
// (booking -> listing -> owner join).
func (s *BookingService) ListForLandlord(landlordID uint) ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.
		Preload("User").
		Preload("Listing").
		Joins("JOIN listings ON listings.id = bookings.listing_id").
		Where("listings.owner_id = ?", landlordID).
		Order("bookings.created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve landlord bookings: %w", err)
	}
	return list, nil
}

// StatusForUserListing returns the caller's latest booking for a listing.
func (s *BookingService) StatusForUserListing(userID, listingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.DB.
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Order("created_at DESC").
		First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to check booking status: %w", err)
	}
	return &booking, nil
}

// Delete removes a booking and releases the listing if nothing else
// occupies it.
func (s *BookingService) Delete(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		var listing models.Listing
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&listing, booking.ListingID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Delete(&booking).Error; err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}

		if listing.ID != 0 {
			return s.syncListingStatus(tx, &listing, models.BookingCancelled)
		}
		return nil
	})
}
