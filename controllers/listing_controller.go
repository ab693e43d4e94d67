// controllers/listing_controller.go
package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"rental-backend/middleware"
	"rental-backend/models"
	"rental-backend/services"
	"rental-backend/utils"

	"github.com/gin-gonic/gin"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type ListingImagePayload struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url" binding:"required"`
}

type CreateListingRequest struct {
	Title        string                `json:"title" binding:"required"`
	Description  string                `json:"description" binding:"required"`
	Price        float64               `json:"price" binding:"required"`
	Size         float64               `json:"size"`
	Floor        int                   `json:"floor"`
	Location     string                `json:"location" binding:"required"`
	PropertyType string                `json:"property_type" binding:"required"`
	Latitude     float64               `json:"latitude"`
	Longitude    float64               `json:"longitude"`
	Rooms        int                   `json:"rooms"`
	Beds         int                   `json:"beds"`
	Bathrooms    int                   `json:"bathrooms"`
	Amenities    []string              `json:"amenities"`
	Images       []ListingImagePayload `json:"images" binding:"required"`
}

type UpdateListingRequest struct {
	Title        *string               `json:"title"`
	Description  *string               `json:"description"`
	Price        *float64              `json:"price"`
	Size         *float64              `json:"size"`
	Floor        *int                  `json:"floor"`
	Location     *string               `json:"location"`
	PropertyType *string               `json:"property_type"`
	Latitude     *float64              `json:"latitude"`
	Longitude    *float64              `json:"longitude"`
	Rooms        *int                  `json:"rooms"`
	Beds         *int                  `json:"beds"`
	Bathrooms    *int                  `json:"bathrooms"`
	Amenities    []string              `json:"amenities"`
	Images       []ListingImagePayload `json:"images"`
}

func toModelImages(in []ListingImagePayload) []models.ListingImage {
	out := make([]models.ListingImage, 0, len(in))
	for _, img := range in {
		out = append(out, models.ListingImage{PublicID: img.PublicID, URL: img.URL})
	}
	return out
}

// ---------------------------
// Controller
// ---------------------------

type ListingController struct {
	ListingSvc *services.ListingService
}

func NewListingController(svc *services.ListingService) *ListingController {
	return &ListingController{ListingSvc: svc}
}

// Create — POST /listings/create
func (ctl *ListingController) Create(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	listing, err := ctl.ListingSvc.Create(middleware.UserID(c), services.ListingInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Size:         req.Size,
		Floor:        req.Floor,
		Location:     req.Location,
		PropertyType: req.PropertyType,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Rooms:        req.Rooms,
		Beds:         req.Beds,
		Bathrooms:    req.Bathrooms,
		Amenities:    req.Amenities,
		Images:       toModelImages(req.Images),
	})
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, listing)
}

// GetAll — GET /listings/all
func (ctl *ListingController) GetAll(c *gin.Context) {
	listings, err := ctl.ListingSvc.GetAll()
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, listings)
}

// GetByID — GET /listings/:id
func (ctl *ListingController) GetByID(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	listing, reviews, err := ctl.ListingSvc.GetByID(id)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"listing": listing, "reviews": reviews})
}

// ListOwn — GET /listings/get?page=
func (ctl *ListingController) ListOwn(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	listings, err := ctl.ListingSvc.ListForOwner(middleware.UserID(c), page)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, listings)
}

// Search — GET /listings/search
func (ctl *ListingController) Search(c *gin.Context) {
	filter := services.SearchFilter{
		Query:        c.Query("query"),
		Location:     c.Query("location"),
		PropertyType: c.Query("property_type"),
	}
	if v := c.Query("price_min"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.PriceMin = &f
		}
	}
	if v := c.Query("price_max"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.PriceMax = &f
		}
	}
	if v := c.Query("amenities"); v != "" {
		for _, a := range strings.Split(v, ",") {
			if a = strings.TrimSpace(a); a != "" {
				filter.Amenities = append(filter.Amenities, a)
			}
		}
	}

	listings, err := ctl.ListingSvc.Search(filter)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, listings)
}

// Nearby — GET /listings/nearby?lat=&lng=&maxDistance=
func (ctl *ListingController) Nearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		utils.JSONError(c, http.StatusBadRequest, "lat and lng query params are required")
		return
	}
	maxDistance, _ := strconv.ParseFloat(c.DefaultQuery("maxDistance", "0"), 64)

	listings, err := ctl.ListingSvc.Nearby(lat, lng, maxDistance)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, listings)
}

// Update — PUT /listings/update/:id
func (ctl *ListingController) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	in := services.UpdateListingInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Size:         req.Size,
		Floor:        req.Floor,
		Location:     req.Location,
		PropertyType: req.PropertyType,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Rooms:        req.Rooms,
		Beds:         req.Beds,
		Bathrooms:    req.Bathrooms,
		Amenities:    req.Amenities,
	}
	if req.Images != nil {
		in.Images = toModelImages(req.Images)
	}

	listing, err := ctl.ListingSvc.Update(id, middleware.UserID(c), in)
	if err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, listing)
}

// Delete — DELETE /listings/delete/:id
func (ctl *ListingController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctl.ListingSvc.Delete(id, middleware.UserID(c)); err != nil {
		utils.JSONError(c, statusFor(err), err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
