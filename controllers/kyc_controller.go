// controllers/kyc_controller.go
package controllers

import (
	"net/http"

	"rental-backend/middleware"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type SubmitKYCRequest struct {
	VerificationType string `json:"verification_type" binding:"required"`
	SSN              string `json:"ssn"`
	PassportNumber   string `json:"passport_number"`
	PassportDocument string `json:"passport_document"`
	VisaDocument     string `json:"visa_document"`
}

type ReviewKYCRequest struct {
	Approve bool `json:"approve"`
}

type KYCController struct {
	KYCSvc *services.KYCService
}

func NewKYCController(svc *services.KYCService) *KYCController {
	return &KYCController{KYCSvc: svc}
}

// Submit — POST /kyc/application
func (ctl *KYCController) Submit(c *gin.Context) {
	var req SubmitKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	kyc, err := ctl.KYCSvc.Submit(services.SubmitKYCInput{
		UserID:           middleware.UserID(c),
		VerificationType: req.VerificationType,
		SSN:              req.SSN,
		PassportNumber:   req.PassportNumber,
		PassportDocument: req.PassportDocument,
		VisaDocument:     req.VisaDocument,
	})
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, kyc)
}

// Status — GET /kyc/status
func (ctl *KYCController) Status(c *gin.Context) {
	kyc, err := ctl.KYCSvc.GetForUser(middleware.UserID(c))
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"status": kyc.Status, "kyc": kyc})
}

// Review — PUT /kyc/:id/verify (admin)
func (ctl *KYCController) Review(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req ReviewKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	kyc, err := ctl.KYCSvc.Review(id, req.Approve)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, kyc)
}

// ListPending — GET /admin/kyc
func (ctl *KYCController) ListPending(c *gin.Context) {
	kycs, err := ctl.KYCSvc.ListPending()
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, kycs)
}
