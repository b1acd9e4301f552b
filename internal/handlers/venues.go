package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/banquethub/banquethub-backend/internal/middleware"
	"github.com/banquethub/banquethub-backend/internal/models"
	"github.com/banquethub/banquethub-backend/internal/policy"
)

type venueInput struct {
	Name         string   `json:"name" binding:"required"`
	CategoryID   uint     `json:"categoryId"`
	Location     string   `json:"location"`
	Capacity     int      `json:"capacity" binding:"required,gt=0"`
	PricingType  string   `json:"pricingType" binding:"required,oneof=flat per_head"`
	FlatPrice    *float64 `json:"flatPrice"`
	PerHeadPrice *float64 `json:"perHeadPrice"`
	MinGuests    *int     `json:"minGuests"`
	Description  string   `json:"description"`
}

func validateVenuePricing(input *venueInput) (string, bool) {
	switch models.PricingType(input.PricingType) {
	case models.PricingFlat:
		if input.FlatPrice == nil || *input.FlatPrice <= 0 {
			return "flatPrice must be a positive number for flat pricing", false
		}
	case models.PricingPerHead:
		if input.PerHeadPrice == nil || *input.PerHeadPrice <= 0 {
			return "perHeadPrice must be a positive number for per-head pricing", false
		}
		if input.MinGuests != nil && *input.MinGuests < 1 {
			return "minGuests must be at least 1", false
		}
	}
	return "", true
}

// CreateVenue registers a new venue for the calling vendor. Requires
// approved KYC unless the caller is an admin.
func CreateVenue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		if !policy.CanCreateVenue(p) {
			c.JSON(403, gin.H{"error": "Only KYC-approved vendors can create venues"})
			return
		}

		var input venueInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if msg, ok := validateVenuePricing(&input); !ok {
			c.JSON(400, gin.H{"error": msg})
			return
		}

		venue := models.Venue{
			VendorID:     p.ID,
			Name:         input.Name,
			CategoryID:   input.CategoryID,
			Location:     input.Location,
			Capacity:     input.Capacity,
			PricingType:  models.PricingType(input.PricingType),
			FlatPrice:    input.FlatPrice,
			PerHeadPrice: input.PerHeadPrice,
			MinGuests:    input.MinGuests,
			Description:  input.Description,
			IsActive:     true,
		}

		if err := db.Create(&venue).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create venue"})
			return
		}

		c.JSON(201, venue)
	}
}

// GetVenues lists venues with optional category filter and pagination.
// Venues are read broadly; no ownership check on reads.
func GetVenues(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := parsePagination(c)

		query := db.Model(&models.Venue{}).Where("is_active = ?", true)
		if category := c.Query("categoryId"); category != "" {
			query = query.Where("category_id = ?", category)
		}
		if vendor := c.Query("vendorId"); vendor != "" {
			query = query.Where("vendor_id = ?", vendor)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch venues"})
			return
		}

		var venues []models.Venue
		if err := query.Offset(offset).Limit(limit).Order("id").Find(&venues).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch venues"})
			return
		}

		c.JSON(200, gin.H{
			"venues":     venues,
			"pagination": paginationEnvelope(total, page, limit),
		})
	}
}

// GetVenue returns a single venue.
func GetVenue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var venue models.Venue
		if err := db.First(&venue, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Venue not found"})
			return
		}

		c.JSON(200, venue)
	}
}

// UpdateVenue modifies a venue's details and pricing terms.
func UpdateVenue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var venue models.Venue
		if err := db.First(&venue, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Venue not found"})
			return
		}

		if !policy.CanManageVenue(p, &venue) {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		var input venueInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if msg, ok := validateVenuePricing(&input); !ok {
			c.JSON(400, gin.H{"error": msg})
			return
		}

		venue.Name = input.Name
		venue.CategoryID = input.CategoryID
		venue.Location = input.Location
		venue.Capacity = input.Capacity
		venue.PricingType = models.PricingType(input.PricingType)
		venue.FlatPrice = input.FlatPrice
		venue.PerHeadPrice = input.PerHeadPrice
		venue.MinGuests = input.MinGuests
		venue.Description = input.Description

		if err := db.Save(&venue).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update venue"})
			return
		}

		c.JSON(200, venue)
	}
}

// DeleteVenue deactivates a venue. Existing bookings are untouched.
func DeleteVenue(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var venue models.Venue
		if err := db.First(&venue, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Venue not found"})
			return
		}

		if !policy.CanManageVenue(p, &venue) {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		venue.IsActive = false
		if err := db.Save(&venue).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete venue"})
			return
		}

		c.JSON(200, gin.H{"message": "Venue deleted"})
	}
}
