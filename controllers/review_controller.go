// controllers/review_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"rental-backend/middleware"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

type CreateReviewRequest struct {
	ListingID uint   `json:"listingId" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Comment   string `json:"comment" binding:"required"`
}

type ReviewController struct {
	ReviewSvc *services.ReviewService
}

func NewReviewController(svc *services.ReviewService) *ReviewController {
	return &ReviewController{ReviewSvc: svc}
}

// Create — POST /reviews
func (ctl *ReviewController) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	review, err := ctl.ReviewSvc.Create(services.CreateReviewInput{
		UserID:    middleware.UserID(c),
		ListingID: req.ListingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, review)
}

// ListForListing — GET /reviews/:listingId
func (ctl *ReviewController) ListForListing(c *gin.Context) {
	listingID, err := strconv.ParseUint(c.Param("listingId"), 10, 32)
	if err != nil || listingID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid listing id")
		return
	}
	reviews, err := ctl.ReviewSvc.ListForListing(uint(listingID))
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reviews)
}

// ListOwn — GET /reviews
func (ctl *ReviewController) ListOwn(c *gin.Context) {
	reviews, err := ctl.ReviewSvc.ListForUser(middleware.UserID(c))
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reviews)
}

// Delete — DELETE /reviews/:reviewId
func (ctl *ReviewController) Delete(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("reviewId"), 10, 32)
	if err != nil || reviewID == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid review id")
		return
	}
	if err := ctl.ReviewSvc.Delete(uint(reviewID), middleware.UserID(c), c.GetString(middleware.CtxRole)); err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": reviewID})
}
