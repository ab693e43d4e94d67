package services

import (
	"context"
	"testing"

	"rental-backend/gateways"
	"rental-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway satisfies gateways.Gateway without any network traffic.
type fakeGateway struct {
	name        string
	session     gateways.ChargeSession
	verified    bool
	chargeCalls []gateways.ChargeRequest
}

func (f *fakeGateway) Name() string { return f.name }

func (f *fakeGateway) CreateCharge(_ context.Context, req gateways.ChargeRequest) (*gateways.ChargeSession, error) {
	f.chargeCalls = append(f.chargeCalls, req)
	s := f.session
	return &s, nil
}

func (f *fakeGateway) VerifyCharge(_ context.Context, _ string, _ map[string]string) (*gateways.VerifyResult, error) {
	return &gateways.VerifyResult{Verified: f.verified}, nil
}

func newPaymentFixture(t *testing.T) (*PaymentService, *BookingService, *fakeGateway, models.User, models.Listing) {
	t.Helper()
	db := newTestDB(t)

	landlord := seedUser(t, db, "owner@test.io", models.RoleLandlord)
	tenant := seedUser(t, db, "tenant@test.io", models.RoleTenant)
	listing := seedListing(t, db, landlord.ID)

	fake := &fakeGateway{
		name:    models.GatewayStripe,
		session: gateways.ChargeSession{TransactionID: "cs_test_123", RedirectURL: "https://pay.test/cs_test_123"},
	}
	registry := gateways.Registry{}
	registry.Register(fake)

	bookings := NewBookingService(db)
	payments := NewPaymentService(db, registry, bookings)
	return payments, bookings, fake, tenant, listing
}

func TestInitiateCharge(t *testing.T) {
	payments, _, fake, tenant, listing := newPaymentFixture(t)

	result, err := payments.InitiateCharge(context.Background(), InitiateChargeInput{
		UserID:    tenant.ID,
		UserEmail: tenant.Email,
		ListingID: listing.ID,
		Gateway:   models.GatewayStripe,
		Amount:    480,
		CheckIn:   "2026-09-01",
		CheckOut:  "2026-09-05",
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_123", result.Payment.TransactionID)
	assert.Equal(t, models.PaymentPending, result.Payment.Status)
	assert.Equal(t, listing.OwnerID, result.Payment.LandlordID)
	assert.Equal(t, "USD", result.Payment.Currency)
	assert.Equal(t, "https://pay.test/cs_test_123", result.RedirectURL)

	require.Len(t, fake.chargeCalls, 1)
	assert.Equal(t, 480.0, fake.chargeCalls[0].Amount)
	assert.Equal(t, tenant.Email, fake.chargeCalls[0].CustomerEmail)
}

func TestInitiateChargeValidation(t *testing.T) {
	payments, _, _, tenant, listing := newPaymentFixture(t)

	_, err := payments.InitiateCharge(context.Background(), InitiateChargeInput{
		UserID: tenant.ID, ListingID: listing.ID, Gateway: models.GatewayStripe,
		Amount: -5, CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = payments.InitiateCharge(context.Background(), InitiateChargeInput{
		UserID: tenant.ID, ListingID: listing.ID, Gateway: "bitcoin",
		Amount: 100, CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = payments.InitiateCharge(context.Background(), InitiateChargeInput{
		UserID: tenant.ID, ListingID: 9999, Gateway: models.GatewayStripe,
		Amount: 100, CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestVerifyStripePaidCompletesAndMarksBooking(t *testing.T) {
	payments, bookings, fake, tenant, listing := newPaymentFixture(t)

	booking, err := bookings.Create(CreateBookingInput{
		UserID: tenant.ID, ListingID: listing.ID,
		CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)

	_, err = payments.InitiateCharge(context.Background(), InitiateChargeInput{
		UserID: tenant.ID, ListingID: listing.ID, Gateway: models.GatewayStripe,
		Amount: 480, CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)

	fake.verified = true
	payment, err := payments.VerifyStripe(context.Background(), "cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)

	refreshed, err := bookings.GetByID(booking.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.Paid)
	assert.Equal(t, "cs_test_123", refreshed.TransactionID)
	// Payment never confirms the booking; that stays with the landlord.
	assert.Equal(t, models.BookingPending, refreshed.Status)

	// Verification is idempotent.
	payment, err = payments.VerifyStripe(context.Background(), "cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
}

func TestVerifyStripeUnpaidStaysPending(t *testing.T) {
	payments, _, fake, tenant, listing := newPaymentFixture(t)

	_, err := payments.InitiateCharge(context.Background(), InitiateChargeInput{
		UserID: tenant.ID, ListingID: listing.ID, Gateway: models.GatewayStripe,
		Amount: 480, CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)

	fake.verified = false
	payment, err := payments.VerifyStripe(context.Background(), "cs_test_123")
	assert.ErrorIs(t, err, ErrPaymentFailed)
	require.NotNil(t, payment)
	assert.Equal(t, models.PaymentPending, payment.Status)
}

func TestVerifyRazorpaySignature(t *testing.T) {
	db := newTestDB(t)
	bookings := NewBookingService(db)

	landlord := seedUser(t, db, "owner@test.io", models.RoleLandlord)
	tenant := seedUser(t, db, "tenant@test.io", models.RoleTenant)
	listing := seedListing(t, db, landlord.ID)

	const secret = "rzp_test_secret"
	registry := gateways.Registry{}
	registry.Register(gateways.NewRazorpayGateway("rzp_test_key", secret))
	payments := NewPaymentService(db, registry, bookings)

	// Seed the ledger entry directly; order creation is a network call.
	entry := models.Payment{
		UserID: tenant.ID, ListingID: listing.ID, LandlordID: landlord.ID,
		Gateway: models.GatewayRazorpay, Amount: 480, Currency: "INR",
		Status: models.PaymentPending, TransactionID: "order_abc",
	}
	require.NoError(t, db.Create(&entry).Error)

	good := gateways.RazorpaySignature("order_abc", "pay_xyz", secret)

	// A tampered signature never touches the ledger.
	bad := "0" + good[1:]
	if bad == good {
		bad = "1" + good[1:]
	}
	_, err := payments.VerifyRazorpay(context.Background(), "order_abc", "pay_xyz", bad)
	assert.ErrorIs(t, err, ErrVerificationFailed)

	var check models.Payment
	require.NoError(t, db.First(&check, entry.ID).Error)
	assert.Equal(t, models.PaymentPending, check.Status)

	// The valid signature verifies, deterministically.
	for i := 0; i < 3; i++ {
		payment, err := payments.VerifyRazorpay(context.Background(), "order_abc", "pay_xyz", good)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentCompleted, payment.Status)
	}
}

func TestMarkFailed(t *testing.T) {
	payments, _, _, tenant, listing := newPaymentFixture(t)

	_, err := payments.InitiateCharge(context.Background(), InitiateChargeInput{
		UserID: tenant.ID, ListingID: listing.ID, Gateway: models.GatewayStripe,
		Amount: 480, CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)

	require.NoError(t, payments.MarkFailed("cs_test_123"))
	payment, err := payments.findByTransactionID("cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, payment.Status)

	assert.ErrorIs(t, payments.MarkFailed("missing"), ErrPaymentNotFound)
}

func TestLandlordRevenue(t *testing.T) {
	payments, _, fake, tenant, listing := newPaymentFixture(t)

	_, err := payments.InitiateCharge(context.Background(), InitiateChargeInput{
		UserID: tenant.ID, ListingID: listing.ID, Gateway: models.GatewayStripe,
		Amount: 480, CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)

	// Pending payments do not count toward revenue.
	total, list, err := payments.LandlordRevenue(listing.OwnerID)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)

	fake.verified = true
	_, err = payments.VerifyStripe(context.Background(), "cs_test_123")
	require.NoError(t, err)

	total, list, err = payments.LandlordRevenue(listing.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, 480.0, total)
	assert.Len(t, list, 1)
}

func TestCreatePayout(t *testing.T) {
	payments, _, _, _, listing := newPaymentFixture(t)

	payout, err := payments.CreatePayout(listing.OwnerID, 450, models.PayoutMethodBank)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, payout.Status)

	_, err = payments.CreatePayout(listing.OwnerID, 450, "cash-in-envelope")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = payments.CreatePayout(9999, 450, models.PayoutMethodBank)
	assert.ErrorIs(t, err, ErrUserNotFound)

	payouts, err := payments.ListPayouts()
	require.NoError(t, err)
	assert.Len(t, payouts, 1)
}

func TestReconcilerSweepRepairsBooking(t *testing.T) {
	payments, bookings, fake, tenant, listing := newPaymentFixture(t)

	// Payment completes while no booking exists yet: the crash-gap shape.
	_, err := payments.InitiateCharge(context.Background(), InitiateChargeInput{
		UserID: tenant.ID, ListingID: listing.ID, Gateway: models.GatewayStripe,
		Amount: 480, CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)
	fake.verified = true
	_, err = payments.VerifyStripe(context.Background(), "cs_test_123")
	require.NoError(t, err)

	booking, err := bookings.Create(CreateBookingInput{
		UserID: tenant.ID, ListingID: listing.ID,
		CheckIn: "2026-09-01", CheckOut: "2026-09-05",
	})
	require.NoError(t, err)
	require.False(t, booking.Paid)

	reconciler := NewReconciler(payments.DB, bookings, 0)
	repaired, err := reconciler.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	refreshed, err := bookings.GetByID(booking.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.Paid)
	assert.Equal(t, "cs_test_123", refreshed.TransactionID)

	// Nothing left to repair on the next pass.
	repaired, err = reconciler.Sweep()
	require.NoError(t, err)
	assert.Zero(t, repaired)
}
