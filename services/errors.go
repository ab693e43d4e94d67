package services

import (
	"errors"
	"strings"

	mysql "github.com/go-sql-driver/mysql"
)

// Sentinel errors matched with errors.Is at the controller boundary and
// mapped to HTTP statuses there.
var (
	ErrListingNotFound = errors.New("listing_not_found")
	ErrBookingNotFound = errors.New("booking_not_found")
	ErrPaymentNotFound = errors.New("payment_not_found")
	ErrUserNotFound    = errors.New("user_not_found")
	ErrKYCNotFound     = errors.New("kyc_not_found")
	ErrReviewNotFound  = errors.New("review_not_found")

	ErrInvalidInput = errors.New("invalid_input")
	ErrInvalidDates = errors.New("check_out_must_be_after_check_in")

	ErrOwnListing        = errors.New("cannot_book_own_listing")
	ErrDuplicateBooking  = errors.New("duplicate_active_booking")
	ErrNotListingOwner   = errors.New("not_listing_owner")
	ErrBookingNotPending = errors.New("booking_not_pending")

	ErrNotReviewOwner = errors.New("not_review_owner")
	ErrKYCExists      = errors.New("kyc_already_submitted")

	ErrVerificationFailed = errors.New("payment_verification_failed")
	ErrPaymentFailed      = errors.New("payment_not_completed")

	ErrEmailTaken         = errors.New("email_already_registered")
	ErrOTPInvalid         = errors.New("otp_expired_or_invalid")
	ErrOTPAlreadySent     = errors.New("otp_already_sent")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrResetTokenInvalid  = errors.New("reset_token_expired_or_invalid")
)

// IsDuplicateKey reports whether err is a unique-constraint violation.
// MySQL surfaces these as errno 1062; the string check covers sqlite.
func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique")
}
