// controllers/errors.go
package controllers

import (
	"errors"
	"net/http"

	"rental-backend/services"
)

// statusFor maps service sentinels onto HTTP status codes so every
// controller reports the same way.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrListingNotFound),
		errors.Is(err, services.ErrBookingNotFound),
		errors.Is(err, services.ErrPaymentNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrKYCNotFound),
		errors.Is(err, services.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidDates),
		errors.Is(err, services.ErrVerificationFailed),
		errors.Is(err, services.ErrPaymentFailed):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrOwnListing),
		errors.Is(err, services.ErrDuplicateBooking),
		errors.Is(err, services.ErrBookingNotPending),
		errors.Is(err, services.ErrKYCExists),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrOTPAlreadySent):
		return http.StatusConflict
	case errors.Is(err, services.ErrNotListingOwner),
		errors.Is(err, services.ErrNotReviewOwner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrOTPInvalid),
		errors.Is(err, services.ErrResetTokenInvalid):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
