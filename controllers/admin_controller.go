// controllers/admin_controller.go
package controllers

import (
	"net/http"
	"strings"

	"rental-backend/middleware"
	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type AdminCreateRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreatePayoutRequest struct {
	LandlordID uint    `json:"landlordId" binding:"required"`
	Amount     float64 `json:"amount" binding:"required"`
	Method     string  `json:"method" binding:"required"`
}

// ---------------------------
// Status transition table
// ---------------------------

// adminTransitions lists the statuses an admin may force per entity.
// The service layer still enforces guards (e.g. a listing cannot leave
// Reserved while a booking occupies it).
var adminTransitions = map[string]map[string]bool{
	"booking": {
		models.BookingPending:    true,
		models.BookingConfirmed:  true,
		models.BookingCancelled:  true,
		models.BookingCheckedIn:  true,
		models.BookingCheckedOut: true,
	},
	"listing": {
		models.ListingAvailable: true,
		models.ListingPending:   true,
		models.ListingApproved:  true,
		models.ListingRejected:  true,
	},
	"userRole": {
		models.RoleTenant:   true,
		models.RoleLandlord: true,
		models.RoleAdmin:    true,
	},
}

func allowedTransition(entity, status string) bool {
	return adminTransitions[entity][status]
}

// ---------------------------
// Controller
// ---------------------------

type AdminController struct {
	DB         *gorm.DB
	UserSvc    *services.UserService
	BookingSvc *services.BookingService
	ListingSvc *services.ListingService
	PaymentSvc *services.PaymentService
}

func NewAdminController(db *gorm.DB, users *services.UserService, bookings *services.BookingService,
	listings *services.ListingService, payments *services.PaymentService) *AdminController {
	return &AdminController{
		DB:         db,
		UserSvc:    users,
		BookingSvc: bookings,
		ListingSvc: listings,
		PaymentSvc: payments,
	}
}

// Create — POST /admin/create. An existing admin provisions another admin
// account directly; no OTP round trip.
func (ctl *AdminController) Create(c *gin.Context) {
	var req AdminCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	admin := models.User{
		Name:     req.Name,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := ctl.DB.Create(&admin).Error; err != nil {
		if services.IsDuplicateKey(err) {
			utils.JSONError(c, http.StatusConflict, services.ErrEmailTaken.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, admin)
}

// Stats — GET /admin/stats
func (ctl *AdminController) Stats(c *gin.Context) {
	var users, listings, bookings, payments int64
	var revenue float64

	ctl.DB.Model(&models.User{}).Count(&users)
	ctl.DB.Model(&models.Listing{}).Count(&listings)
	ctl.DB.Model(&models.Booking{}).Count(&bookings)
	ctl.DB.Model(&models.Payment{}).Where("status = ?", models.PaymentCompleted).Count(&payments)
	ctl.DB.Model(&models.Payment{}).
		Where("status = ?", models.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").Scan(&revenue)

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"users":             users,
		"listings":          listings,
		"bookings":          bookings,
		"completedPayments": payments,
		"revenue":           revenue,
	})
}

// ListUsers — GET /admin/users
func (ctl *AdminController) ListUsers(c *gin.Context) {
	var users []models.User
	if err := ctl.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}

// SetUserRole — PUT /admin/users/:id/role
func (ctl *AdminController) SetUserRole(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !allowedTransition("userRole", req.Role) {
		utils.JSONError(c, http.StatusBadRequest, "unknown role")
		return
	}

	user, err := ctl.UserSvc.GetByID(id)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	if err := ctl.DB.Model(user).Update("role", req.Role).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	user.Role = req.Role
	utils.JSONSuccess(c, http.StatusOK, user)
}

// DeleteUser — DELETE /admin/users/:id
func (ctl *AdminController) DeleteUser(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if id == middleware.UserID(c) {
		utils.JSONError(c, http.StatusBadRequest, "cannot delete own account")
		return
	}
	if err := ctl.UserSvc.Delete(id); err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

// ListListings — GET /admin/listings
func (ctl *AdminController) ListListings(c *gin.Context) {
	listings, err := ctl.ListingSvc.GetAll()
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, listings)
}

// SetListingStatus — PUT /admin/listings/:id/status
func (ctl *AdminController) SetListingStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !allowedTransition("listing", req.Status) {
		utils.JSONError(c, http.StatusBadRequest, "status not settable by admin")
		return
	}

	listing, err := ctl.ListingSvc.AdminSetStatus(id, req.Status)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, listing)
}

// ListBookings — GET /admin/bookings
func (ctl *AdminController) ListBookings(c *gin.Context) {
	bookings, err := ctl.BookingSvc.GetAll()
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// SetBookingStatus — PUT /admin/bookings/:id/status
func (ctl *AdminController) SetBookingStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !allowedTransition("booking", req.Status) {
		utils.JSONError(c, http.StatusBadRequest, "status not settable by admin")
		return
	}

	booking, err := ctl.BookingSvc.AdminSetStatus(id, req.Status)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// ListPayments — GET /admin/payments
func (ctl *AdminController) ListPayments(c *gin.Context) {
	payments, err := ctl.PaymentSvc.GetAll()
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payments)
}

// CreatePayout — POST /admin/payouts
func (ctl *AdminController) CreatePayout(c *gin.Context) {
	var req CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	payout, err := ctl.PaymentSvc.CreatePayout(req.LandlordID, req.Amount, req.Method)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, payout)
}

// ListPayouts — GET /admin/payouts
func (ctl *AdminController) ListPayouts(c *gin.Context) {
	payouts, err := ctl.PaymentSvc.ListPayouts()
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payouts)
}
