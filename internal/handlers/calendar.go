package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/banquethub/banquethub-backend/internal/middleware"
	"github.com/banquethub/banquethub-backend/internal/models"
	"github.com/banquethub/banquethub-backend/internal/policy"
	"github.com/banquethub/banquethub-backend/internal/services"
)

// GetVenueCalendar lists a venue's calendar events, optionally limited
// to a date range. Availability is readable by anyone.
func GetVenueCalendar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		venueID, ok := parseID(c, "id")
		if !ok {
			return
		}

		query := db.Where("venue_id = ?", venueID)
		if from := c.Query("from"); from != "" {
			query = query.Where("date >= ?", from)
		}
		if to := c.Query("to"); to != "" {
			query = query.Where("date <= ?", to)
		}

		var events []models.CalendarEvent
		if err := query.Order("date").Find(&events).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch calendar"})
			return
		}

		c.JSON(200, gin.H{"events": events})
	}
}

// SetVenueAvailability lets the owning vendor open or close a date.
// A date consumed by a booking cannot be reopened here.
func SetVenueAvailability(db *gorm.DB, cache *services.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		venueID, ok := parseID(c, "id")
		if !ok {
			return
		}

		var input struct {
			Date        string `json:"date" binding:"required"`
			IsAvailable *bool  `json:"isAvailable" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var venue models.Venue
		if err := db.First(&venue, venueID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Venue not found"})
			return
		}

		if !policy.CanManageVenue(p, &venue) {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			c.JSON(400, gin.H{"error": "date must be a valid YYYY-MM-DD date", "details": gin.H{"field": "date"}})
			return
		}

		var event models.CalendarEvent
		err = db.Where("venue_id = ? AND date = ?", venueID, date).First(&event).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			event = models.CalendarEvent{
				VenueID:     venueID,
				Date:        date,
				IsAvailable: *input.IsAvailable,
			}
			if err := db.Create(&event).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update availability"})
				return
			}
		case err != nil:
			c.JSON(500, gin.H{"error": "Failed to update availability"})
			return
		default:
			if event.BookingID != nil && *input.IsAvailable {
				c.JSON(409, gin.H{"error": "Date is held by an active booking"})
				return
			}
			event.IsAvailable = *input.IsAvailable
			if err := db.Save(&event).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to update availability"})
				return
			}
		}

		if cache != nil {
			cache.SetVenueAvailability(c.Request.Context(), venueID, date, event.IsAvailable)
		}

		c.JSON(200, event)
	}
}
