package services

import (
	"testing"

	"rental-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBooking(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)

	landlord := seedUser(t, db, "owner@test.io", models.RoleLandlord)
	tenant := seedUser(t, db, "tenant@test.io", models.RoleTenant)
	listing := seedListing(t, db, landlord.ID)

	booking, err := svc.Create(CreateBookingInput{
		UserID:    tenant.ID,
		ListingID: listing.ID,
		CheckIn:   "2026-09-01",
		CheckOut:  "2026-09-05",
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingPending, booking.Status)
	assert.NotEmpty(t, booking.ReferenceCode)
	assert.False(t, booking.Paid)
	// A pending booking does not reserve the listing.
	assert.Equal(t, models.ListingAvailable, listingStatus(t, db, listing.ID))
}

func TestCreateBookingValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)

	landlord := seedUser(t, db, "owner@test.io", models.RoleLandlord)
	tenant := seedUser(t, db, "tenant@test.io", models.RoleTenant)
	listing := seedListing(t, db, landlord.ID)

	_, err := svc.Create(CreateBookingInput{UserID: tenant.ID, ListingID: listing.ID})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(CreateBookingInput{
		UserID: tenant.ID, ListingID: listing.ID,
		CheckIn: "2026-09-05", CheckOut: "2026-09-01",
	})
	assert.ErrorIs(t, err, ErrInvalidDates)

	_, err = svc.Create(CreateBookingInput{
		UserID: tenant.ID, ListingID: 9999,
		CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestCreateBookingOwnListing(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)

	landlord := seedUser(t, db, "owner@test.io", models.RoleLandlord)
	listing := seedListing(t, db, landlord.ID)

	_, err := svc.Create(CreateBookingInput{
		UserID: landlord.ID, ListingID: listing.ID,
		CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	assert.ErrorIs(t, err, ErrOwnListing)
}

func TestCreateBookingDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)

	landlord := seedUser(t, db, "owner@test.io", models.RoleLandlord)
	tenant := seedUser(t, db, "tenant@test.io", models.RoleTenant)
	listing := seedListing(t, db, landlord.ID)

	in := CreateBookingInput{
		UserID: tenant.ID, ListingID: listing.ID,
		CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	}
	_, err := svc.Create(in)
	require.NoError(t, err)

	_, err = svc.Create(in)
	assert.ErrorIs(t, err, ErrDuplicateBooking)

	// A cancelled booking no longer blocks a new one.
	var first models.Booking
	require.NoError(t, db.Where("user_id = ?", tenant.ID).First(&first).Error)
	_, err = svc.AdminSetStatus(first.ID, models.BookingCancelled)
	require.NoError(t, err)

	_, err = svc.Create(in)
	assert.NoError(t, err)
}

func TestConfirmReservesAndCancelReleases(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)

	landlord := seedUser(t, db, "owner@test.io", models.RoleLandlord)
	tenant := seedUser(t, db, "tenant@test.io", models.RoleTenant)
	listing := seedListing(t, db, landlord.ID)

	booking, err := svc.Create(CreateBookingInput{
		UserID: tenant.ID, ListingID: listing.ID,
		CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(UpdateBookingInput{
		BookingID: booking.ID, ActorID: landlord.ID, Status: models.BookingConfirmed,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ListingReserved, listingStatus(t, db, listing.ID))

	_, err = svc.AdminSetStatus(booking.ID, models.BookingCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.ListingAvailable, listingStatus(t, db, listing.ID))
}

func TestCancelKeepsReservedWhileOtherBookingOccupies(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)

	landlord := seedUser(t, db, "owner@test.io", models.RoleLandlord)
	tenantA := seedUser(t, db, "a@test.io", models.RoleTenant)
	tenantB := seedUser(t, db, "b@test.io", models.RoleTenant)
	listing := seedListing(t, db, landlord.ID)

	bookingA, err := svc.Create(CreateBookingInput{
		UserID: tenantA.ID, ListingID: listing.ID,
		CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)
	bookingB, err := svc.Create(CreateBookingInput{
		UserID: tenantB.ID, ListingID: listing.ID,
		CheckIn: "2026-09-06", CheckOut: "2026-09-10",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(UpdateBookingInput{
		BookingID: bookingA.ID, ActorID: landlord.ID, Status: models.BookingConfirmed,
	})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(UpdateBookingInput{
		BookingID: bookingB.ID, ActorID: landlord.ID, Status: models.BookingConfirmed,
	})
	require.NoError(t, err)

	// One confirmed booking remains, so the listing stays reserved.
	_, err = svc.AdminSetStatus(bookingA.ID, models.BookingCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.ListingReserved, listingStatus(t, db, listing.ID))

	_, err = svc.AdminSetStatus(bookingB.ID, models.BookingCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.ListingAvailable, listingStatus(t, db, listing.ID))
}

func TestUpdateStatusGuards(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)

	landlord := seedUser(t, db, "owner@test.io", models.RoleLandlord)
	stranger := seedUser(t, db, "stranger@test.io", models.RoleLandlord)
	tenant := seedUser(t, db, "tenant@test.io", models.RoleTenant)
	listing := seedListing(t, db, landlord.ID)

	booking, err := svc.Create(CreateBookingInput{
		UserID: tenant.ID, ListingID: listing.ID,
		CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(UpdateBookingInput{
		BookingID: booking.ID, ActorID: stranger.ID, Status: models.BookingConfirmed,
	})
	assert.ErrorIs(t, err, ErrNotListingOwner)

	_, err = svc.UpdateStatus(UpdateBookingInput{
		BookingID: booking.ID, ActorID: landlord.ID, Status: "teleported",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.UpdateStatus(UpdateBookingInput{
		BookingID: booking.ID, ActorID: landlord.ID, Status: models.BookingConfirmed,
	})
	require.NoError(t, err)

	// The transition out of pending is one-shot.
	_, err = svc.UpdateStatus(UpdateBookingInput{
		BookingID: booking.ID, ActorID: landlord.ID, Status: models.BookingCancelled,
	})
	assert.ErrorIs(t, err, ErrBookingNotPending)
}

func TestDeleteBookingReleasesListing(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)

	landlord := seedUser(t, db, "owner@test.io", models.RoleLandlord)
	tenant := seedUser(t, db, "tenant@test.io", models.RoleTenant)
	listing := seedListing(t, db, landlord.ID)

	booking, err := svc.Create(CreateBookingInput{
		UserID: tenant.ID, ListingID: listing.ID,
		CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(UpdateBookingInput{
		BookingID: booking.ID, ActorID: landlord.ID, Status: models.BookingConfirmed,
	})
	require.NoError(t, err)
	require.Equal(t, models.ListingReserved, listingStatus(t, db, listing.ID))

	require.NoError(t, svc.Delete(booking.ID))
	assert.Equal(t, models.ListingAvailable, listingStatus(t, db, listing.ID))

	assert.ErrorIs(t, svc.Delete(booking.ID), ErrBookingNotFound)
}

func TestListForLandlord(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)

	landlord := seedUser(t, db, "owner@test.io", models.RoleLandlord)
	other := seedUser(t, db, "other@test.io", models.RoleLandlord)
	tenant := seedUser(t, db, "tenant@test.io", models.RoleTenant)
	mine := seedListing(t, db, landlord.ID)
	theirs := seedListing(t, db, other.ID)

	_, err := svc.Create(CreateBookingInput{
		UserID: tenant.ID, ListingID: mine.ID,
		CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)
	_, err = svc.Create(CreateBookingInput{
		UserID: tenant.ID, ListingID: theirs.ID,
		CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)

	list, err := svc.ListForLandlord(landlord.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine.ID, list[0].ListingID)
}

func TestStatusForUserListing(t *testing.T) {
	db := newTestDB(t)
	svc := NewBookingService(db)

	landlord := seedUser(t, db, "owner@test.io", models.RoleLandlord)
	tenant := seedUser(t, db, "tenant@test.io", models.RoleTenant)
	listing := seedListing(t, db, landlord.ID)

	_, err := svc.StatusForUserListing(tenant.ID, listing.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	created, err := svc.Create(CreateBookingInput{
		UserID: tenant.ID, ListingID: listing.ID,
		CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)

	latest, err := svc.StatusForUserListing(tenant.ID, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, latest.ID)
	assert.Equal(t, models.BookingPending, latest.Status)
}
