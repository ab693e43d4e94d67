// services/payment_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"rental-backend/gateways"
	"rental-backend/models"

	"gorm.io/gorm"
)

// PaymentService is the payment ledger: one row per gateway charge
// attempt, moved off pending only by verification. A verified payment
// marks the matching booking paid in the same transaction; booking status
// itself stays a landlord decision.
type PaymentService struct {
	DB       *gorm.DB
	Gateways gateways.Registry
	Bookings *BookingService
}

func NewPaymentService(db *gorm.DB, registry gateways.Registry, bookings *BookingService) *PaymentService {
	return &PaymentService{DB: db, Gateways: registry, Bookings: bookings}
}

type InitiateChargeInput struct {
	UserID    uint
	UserEmail string
	ListingID uint
	Gateway   string
	Amount    float64
	Currency  string
	CheckIn   string
	CheckOut  string
}

type ChargeResult struct {
	Payment     models.Payment
	RedirectURL string
	Raw         map[string]interface{}
}

// InitiateCharge creates the provider-side charge and a pending ledger
// entry carrying the provider's transaction id.
func (s *PaymentService) InitiateCharge(ctx context.Context, in InitiateChargeInput) (*ChargeResult, error) {
	if in.ListingID == 0 || in.Amount <= 0 {
		return nil, fmt.Errorf("%w: listing and a positive amount are required", ErrInvalidInput)
	}
	if !models.IsGateway(in.Gateway) {
		return nil, fmt.Errorf("%w: unsupported gateway %q", ErrInvalidInput, in.Gateway)
	}

	var listing models.Listing
	if err := s.DB.First(&listing, in.ListingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("db error loading listing %d: %w", in.ListingID, err)
	}

	checkIn, err := parseBookingDate(in.CheckIn)
	if err != nil {
		return nil, fmt.Errorf("%w: check_in: %v", ErrInvalidInput, err)
	}
	checkOut, err := parseBookingDate(in.CheckOut)
	if err != nil {
		return nil, fmt.Errorf("%w: check_out: %v", ErrInvalidInput, err)
	}

	gw, err := s.Gateways.Get(in.Gateway)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	session, err := gw.CreateCharge(ctx, gateways.ChargeRequest{
		Amount:        in.Amount,
		Currency:      in.Currency,
		CustomerEmail: in.UserEmail,
		Reference:     fmt.Sprintf("listing-%d", in.ListingID),
		Metadata: map[string]string{
			"buyerId":   fmt.Sprintf("%d", in.UserID),
			"listingId": fmt.Sprintf("%d", in.ListingID),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	currency := in.Currency
	if currency == "" {
		currency = "USD"
	}
	payment := models.Payment{
		UserID:        in.UserID,
		ListingID:     in.ListingID,
		LandlordID:    listing.OwnerID,
		Gateway:       in.Gateway,
		Amount:        in.Amount,
		Currency:      currency,
		Status:        models.PaymentPending,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		TransactionID: session.TransactionID,
	}
	if err := s.DB.Create(&payment).Error; err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return &ChargeResult{Payment: payment, RedirectURL: session.RedirectURL, Raw: session.Raw}, nil
}

// complete moves the payment to completed and flags the matching booking
// paid inside one transaction.
func (s *PaymentService) complete(payment *models.Payment) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(payment).Update("status", models.PaymentCompleted).Error; err != nil {
			return fmt.Errorf("failed to complete payment: %w", err)
		}
		marked, err := s.Bookings.MarkPaid(tx, payment.UserID, payment.ListingID, payment.TransactionID)
		if err != nil {
			return err
		}
		if !marked {
			// No active unpaid booking yet; the reconciler sweep will
			// match this payment once one exists.
			log.Printf("payment %s completed with no matching booking (user=%d listing=%d)",
				payment.TransactionID, payment.UserID, payment.ListingID)
		}
		return nil
	})
}

func (s *PaymentService) findByTransactionID(transactionID string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.DB.Where("transaction_id = ?", transactionID).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("db error loading payment: %w", err)
	}
	return &payment, nil
}

// VerifyStripe retrieves the checkout session; an unpaid session leaves
// the ledger entry pending.
func (s *PaymentService) VerifyStripe(ctx context.Context, sessionID string) (*models.Payment, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrInvalidInput)
	}

	gw, err := s.Gateways.Get(models.GatewayStripe)
	if err != nil {
		return nil, err
	}
	result, err := gw.VerifyCharge(ctx, sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	payment, err := s.findByTransactionID(sessionID)
	if err != nil {
		return nil, err
	}

	if !result.Verified {
		return payment, ErrPaymentFailed
	}
	if payment.Status == models.PaymentCompleted {
		return payment, nil
	}
	if err := s.complete(payment); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentCompleted
	return payment, nil
}

// VerifyRazorpay is the pure signature check: HMAC-SHA256 over
// "orderId|paymentId" with the shared secret must equal the supplied
// signature. A mismatch never mutates the ledger.
func (s *PaymentService) VerifyRazorpay(ctx context.Context, orderID, razorpayPaymentID, signature string) (*models.Payment, error) {
	if orderID == "" || razorpayPaymentID == "" || signature == "" {
		return nil, fmt.Errorf("%w: orderId, paymentId and signature are required", ErrInvalidInput)
	}

	gw, err := s.Gateways.Get(models.GatewayRazorpay)
	if err != nil {
		return nil, err
	}
	result, err := gw.VerifyCharge(ctx, orderID, map[string]string{
		"payment_id": razorpayPaymentID,
		"signature":  signature,
	})
	if err != nil {
		return nil, err
	}
	if !result.Verified {
		return nil, ErrVerificationFailed
	}

	payment, err := s.findByTransactionID(orderID)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentCompleted {
		return payment, nil
	}
	if err := s.complete(payment); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentCompleted
	return payment, nil
}

// VerifyPayPal executes the approved payment on the payer's return.
func (s *PaymentService) VerifyPayPal(ctx context.Context, paymentID, payerID string) (*models.Payment, error) {
	if paymentID == "" || payerID == "" {
		return nil, fmt.Errorf("%w: paymentId and PayerID are required", ErrInvalidInput)
	}

	gw, err := s.Gateways.Get(models.GatewayPayPal)
	if err != nil {
		return nil, err
	}
	result, err := gw.VerifyCharge(ctx, paymentID, map[string]string{"payer_id": payerID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	payment, err := s.findByTransactionID(paymentID)
	if err != nil {
		return nil, err
	}
	if !result.Verified {
		return payment, ErrPaymentFailed
	}
	if payment.Status == models.PaymentCompleted {
		return payment, nil
	}
	if err := s.complete(payment); err != nil {
		return nil, err
	}
	payment.Status = models.PaymentCompleted
	return payment, nil
}

// MarkFailed records a cancelled/denied charge.
func (s *PaymentService) MarkFailed(transactionID string) error {
	payment, err := s.findByTransactionID(transactionID)
	if err != nil {
		return err
	}
	if payment.Status != models.PaymentPending {
		return nil
	}
	return s.DB.Model(payment).Update("status", models.PaymentFailed).Error
}

// LandlordRevenue sums completed payments denormalized to the landlord.
func (s *PaymentService) LandlordRevenue(landlordID uint) (float64, []models.Payment, error) {
	var payments []models.Payment
	if err := s.DB.
		Where("landlord_id = ? AND status = ?", landlordID, models.PaymentCompleted).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return 0, nil, fmt.Errorf("failed to load landlord payments: %w", err)
	}
	var total float64
	for _, p := range payments {
		total += p.Amount
	}
	return total, payments, nil
}

func (s *PaymentService) GetAll() ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.DB.Preload("User").Preload("Listing").
		Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	return payments, nil
}

// CreatePayout records an admin-issued payout to a landlord.
func (s *PaymentService) CreatePayout(landlordID uint, amount float64, method string) (*models.Payout, error) {
	if landlordID == 0 || amount <= 0 {
		return nil, fmt.Errorf("%w: landlord and a positive amount are required", ErrInvalidInput)
	}
	if method != models.PayoutMethodBank && method != models.PayoutMethodPayPal {
		return nil, fmt.Errorf("%w: unsupported payout method %q", ErrInvalidInput, method)
	}

	var landlord models.User
	if err := s.DB.First(&landlord, landlordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	payout := models.Payout{
		LandlordID: landlordID,
		Amount:     amount,
		Method:     method,
		Status:     models.PaymentPending,
	}
	if err := s.DB.Create(&payout).Error; err != nil {
		return nil, fmt.Errorf("failed to create payout: %w", err)
	}
	return &payout, nil
}

func (s *PaymentService) ListPayouts() ([]models.Payout, error) {
	var payouts []models.Payout
	if err := s.DB.Preload("Landlord").Order("created_at DESC").Find(&payouts).Error; err != nil {
		return nil, fmt.Errorf("failed to load payouts: %w", err)
	}
	return payouts, nil
}
