// controllers/payment_controller.go
package controllers

import (
	"net/http"

	"rental-backend/middleware"
	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type InitiatePaymentRequest struct {
	ListingID uint    `json:"listingId" binding:"required"`
	Amount    float64 `json:"amount" binding:"required"`
	Currency  string  `json:"currency"`
	CheckIn   string  `json:"checkIn" binding:"required"`
	CheckOut  string  `json:"checkOut" binding:"required"`
	Email     string  `json:"email"`
}

type StripeVerifyRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type RazorpayVerifyRequest struct {
	OrderID   string `json:"orderId" binding:"required"`
	PaymentID string `json:"paymentId" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// ---------------------------
// Controller
// ---------------------------

type PaymentController struct {
	PaymentSvc  *services.PaymentService
	FrontendURL string
}

func NewPaymentController(svc *services.PaymentService, frontendURL string) *PaymentController {
	return &PaymentController{PaymentSvc: svc, FrontendURL: frontendURL}
}

func (ctl *PaymentController) initiate(c *gin.Context, gateway string) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := ctl.PaymentSvc.InitiateCharge(c.Request.Context(), services.InitiateChargeInput{
		UserID:    middleware.UserID(c),
		UserEmail: req.Email,
		ListingID: req.ListingID,
		Gateway:   gateway,
		Amount:    req.Amount,
		Currency:  req.Currency,
		CheckIn:   req.CheckIn,
		CheckOut:  req.CheckOut,
	})
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"payment": result.Payment,
		"url":     result.RedirectURL,
		"raw":     result.Raw,
	})
}

// Stripe — POST /payments/stripe
func (ctl *PaymentController) Stripe(c *gin.Context) {
	ctl.initiate(c, models.GatewayStripe)
}

// StripeVerify — POST /payments/stripe/verify
func (ctl *PaymentController) StripeVerify(c *gin.Context) {
	var req StripeVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	payment, err := ctl.PaymentSvc.VerifyStripe(c.Request.Context(), req.SessionID)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payment)
}

// Razorpay — POST /payments/razorpay
func (ctl *PaymentController) Razorpay(c *gin.Context) {
	ctl.initiate(c, models.GatewayRazorpay)
}

// RazorpayVerify — POST /payments/razorpay/verify
func (ctl *PaymentController) RazorpayVerify(c *gin.Context) {
	var req RazorpayVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	payment, err := ctl.PaymentSvc.VerifyRazorpay(c.Request.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payment)
}

// PayPal — POST /payments/paypal
func (ctl *PaymentController) PayPal(c *gin.Context) {
	ctl.initiate(c, models.GatewayPayPal)
}

// PayPalSuccess — GET /payments/paypal/success?paymentId=&PayerID=
// PayPal redirects the browser here after approval; we execute the payment
// then bounce to the frontend.
func (ctl *PaymentController) PayPalSuccess(c *gin.Context) {
	paymentID := c.Query("paymentId")
	payerID := c.Query("PayerID")
	if paymentID == "" || payerID == "" {
		utils.JSONError(c, http.StatusBadRequest, "paymentId and PayerID query params are required")
		return
	}

	_, err := ctl.PaymentSvc.VerifyPayPal(c.Request.Context(), paymentID, payerID)
	if err != nil {
		c.Redirect(http.StatusFound, ctl.FrontendURL+"/payment/failed")
		return
	}
	c.Redirect(http.StatusFound, ctl.FrontendURL+"/payment/success")
}

// PayPalCancel — GET /payments/paypal/cancel?paymentId=
func (ctl *PaymentController) PayPalCancel(c *gin.Context) {
	if paymentID := c.Query("paymentId"); paymentID != "" {
		_ = ctl.PaymentSvc.MarkFailed(paymentID)
	}
	c.Redirect(http.StatusFound, ctl.FrontendURL+"/payment/cancelled")
}

// LandlordRevenue — GET /payments/landlord/revenue
func (ctl *PaymentController) LandlordRevenue(c *gin.Context) {
	total, payments, err := ctl.PaymentSvc.LandlordRevenue(middleware.UserID(c))
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"total": total, "payments": payments})
}
