// controllers/booking_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"rental-backend/middleware"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CreateBookingRequest struct {
	ListingID uint   `json:"listingId" binding:"required"`
	CheckIn   string `json:"checkIn" binding:"required"`
	CheckOut  string `json:"checkOut" binding:"required"`
}

type UpdateBookingRequest struct {
	Status   string `json:"status" binding:"required"`
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

// ---------------------------
// Controller
// ---------------------------

type BookingController struct {
	BookingSvc *services.BookingService
}

func NewBookingController(svc *services.BookingService) *BookingController {
	return &BookingController{BookingSvc: svc}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// Create — POST /bookings/createBooking
func (ctl *BookingController) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := ctl.BookingSvc.Create(services.CreateBookingInput{
		UserID:    middleware.UserID(c),
		ListingID: req.ListingID,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
	})
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// Update — PUT /bookings/updateBooking/:id (landlord transition out of pending)
func (ctl *BookingController) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := ctl.BookingSvc.UpdateStatus(services.UpdateBookingInput{
		BookingID: id,
		ActorID:   middleware.UserID(c),
		Status:    req.Status,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
	})
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// GetByID — GET /bookings/get/:id
func (ctl *BookingController) GetByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	booking, err := ctl.BookingSvc.GetByID(id)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// ListForUser — GET /bookings/getBookingByUser
func (ctl *BookingController) ListForUser(c *gin.Context) {
	bookings, err := ctl.BookingSvc.ListForUser(middleware.UserID(c))
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// ListForLandlord — GET /bookings/landlord/bookings
func (ctl *BookingController) ListForLandlord(c *gin.Context) {
	bookings, err := ctl.BookingSvc.ListForLandlord(middleware.UserID(c))
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// CheckStatus — GET /bookings/checkStatus?listingId=
// Returns the caller's latest booking for the listing, if any.
func (ctl *BookingController) CheckStatus(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Query("listingId"), 10, 32)
	if err != nil || listingID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "listingId query param is required")
		return
	}

	booking, err := ctl.BookingSvc.StatusForUserListing(middleware.UserID(c), uint(listingID))
	if errors.Is(err, services.ErrBookingNotFound) {
		utils.JSONSuccess(c, http.StatusOK, gin.H{"status": nil})
		return
	}
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"status": booking.Status, "booking": booking})
}

// GetAll — GET /bookings/allBookings (admin)
func (ctl *BookingController) GetAll(c *gin.Context) {
	bookings, err := ctl.BookingSvc.GetAll()
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// Delete — DELETE /bookings/deleteBooking/:id (admin)
func (ctl *BookingController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.BookingSvc.Delete(id); err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
