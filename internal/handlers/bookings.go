package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/banquethub/banquethub-backend/internal/middleware"
	"github.com/banquethub/banquethub-backend/internal/models"
	"github.com/banquethub/banquethub-backend/internal/policy"
	"github.com/banquethub/banquethub-backend/internal/services"
	"github.com/banquethub/banquethub-backend/pkg/utils"
)

type additionalServiceInput struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CreateBooking validates a booking request, verifies venue ownership
// against the venue directory, computes the server-side price, claims
// the calendar slot and persists everything in one transaction.
// Notifications fire only after the commit.
func CreateBooking(db *gorm.DB, venues services.VenueDirectory, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		var input struct {
			UserID             uint                     `json:"userId"`
			VenueID            uint                     `json:"venueId" binding:"required"`
			VendorID           uint                     `json:"vendorId" binding:"required"`
			Date               string                   `json:"date" binding:"required"`
			GuestCount         int                      `json:"guestCount"`
			AdditionalServices []additionalServiceInput `json:"additionalServices"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		// Checked up front so a missing or non-positive count reports
		// the field, not a bind failure.
		if input.GuestCount <= 0 {
			respondError(c, &utils.ValidationError{Field: "guestCount", Message: "must be greater than 0"})
			return
		}

		// Admins may book on behalf of a user; everyone else books for
		// themselves.
		userID := p.ID
		if p.IsAdmin() && input.UserID != 0 {
			userID = input.UserID
		}

		// Mandatory ownership cross-check. A directory failure aborts
		// the write rather than permitting it.
		venue, err := venues.GetVenue(c.Request.Context(), input.VenueID, bearerFrom(c))
		if err != nil {
			if errors.Is(err, services.ErrRecordNotFound) {
				c.JSON(400, gin.H{"error": "Venue not found", "details": gin.H{"field": "venueId"}})
				return
			}
			respondError(c, err)
			return
		}

		if venue.VendorID != input.VendorID {
			c.JSON(400, gin.H{"error": "vendorId mismatch", "details": gin.H{"field": "vendorId"}})
			return
		}

		date, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			c.JSON(400, gin.H{"error": "date must be a valid YYYY-MM-DD date", "details": gin.H{"field": "date"}})
			return
		}
		if err := utils.ValidateEventDate(date, time.Now()); err != nil {
			respondError(c, err)
			return
		}

		extras := make([]models.AdditionalService, 0, len(input.AdditionalServices))
		for _, svc := range input.AdditionalServices {
			extras = append(extras, models.AdditionalService{Name: svc.Name, Price: svc.Price})
		}

		// Pricing terms come from the resolved venue; the client never
		// supplies a total.
		price, err := utils.ComputeBookingPrice(utils.PriceInput{
			PricingType:        venue.PricingType,
			FlatPrice:          venue.FlatPrice,
			PerHeadPrice:       venue.PerHeadPrice,
			MinGuests:          venue.MinGuests,
			GuestCount:         input.GuestCount,
			AdditionalServices: extras,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		booking := models.Booking{
			UserID:             userID,
			VenueID:            venue.ID,
			VendorID:           venue.VendorID,
			Date:               date,
			GuestCount:         input.GuestCount,
			PricingType:        venue.PricingType,
			FlatPrice:          venue.FlatPrice,
			PerHeadPrice:       venue.PerHeadPrice,
			MinGuests:          venue.MinGuests,
			AdditionalServices: extras,
			TotalPrice:         price.TotalPrice,
			Status:             models.BookingStatusPending,
		}

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := claimCalendarSlot(tx, venue.ID, date, &booking); err != nil {
			tx.Rollback()
			c.JSON(409, gin.H{"error": "Venue is not available on this date"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}

		logrus.WithFields(logrus.Fields{
			"bookingId": booking.ID,
			"venueId":   booking.VenueID,
			"userId":    booking.UserID,
			"total":     booking.TotalPrice,
		}).Info("booking created")

		// Best-effort side effects; the booking is already persisted.
		notifier.BookingCreated(c.Request.Context(), &booking, venue.Name, bearerFrom(c))
		if notifier.Cache != nil {
			notifier.Cache.SetVenueAvailability(c.Request.Context(), venue.ID, date, false)
		}

		c.JSON(201, booking)
	}
}

// claimCalendarSlot creates the booking and marks the venue date as
// taken inside the caller's transaction. The unique index on
// (venue_id, date) turns a concurrent claim into an error here.
func claimCalendarSlot(tx *gorm.DB, venueID uint, date time.Time, booking *models.Booking) error {
	if err := tx.Create(booking).Error; err != nil {
		return err
	}

	var event models.CalendarEvent
	err := tx.Where("venue_id = ? AND date = ?", venueID, date).First(&event).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		event = models.CalendarEvent{
			VenueID:     venueID,
			Date:        date,
			IsAvailable: false,
			BookingID:   &booking.ID,
		}
		return tx.Create(&event).Error
	case err != nil:
		return err
	}

	if !event.IsAvailable {
		return errors.New("date already taken")
	}

	// Compare-and-set so two requests cannot both flip the same slot.
	result := tx.Model(&models.CalendarEvent{}).
		Where("id = ? AND is_available = ?", event.ID, true).
		Updates(map[string]interface{}{"is_available": false, "booking_id": booking.ID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("date already taken")
	}
	return nil
}

// GetBooking returns a booking to its parties. An existing booking the
// caller may not see yields 403, not 404.
func GetBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var booking models.Booking
		if err := db.Preload("AdditionalServices").Preload("User").First(&booking, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !policy.CanAccessBooking(p, &booking) {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		c.JSON(200, booking)
	}
}

// GetBookings lists bookings scoped to the caller's role, with status
// and date-range filters and a pagination envelope.
func GetBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		page, limit, offset := parsePagination(c)

		query := db.Model(&models.Booking{})
		switch p.Role {
		case models.RoleAdmin:
			// Admins see everything.
		case models.RoleVendor:
			query = query.Where("vendor_id = ?", p.ID)
		default:
			query = query.Where("user_id = ?", p.ID)
		}

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}
		if from := c.Query("from"); from != "" {
			query = query.Where("date >= ?", from)
		}
		if to := c.Query("to"); to != "" {
			query = query.Where("date <= ?", to)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		var bookings []models.Booking
		if err := query.Preload("AdditionalServices").
			Offset(offset).Limit(limit).Order("date").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, gin.H{
			"bookings":   bookings,
			"pagination": paginationEnvelope(total, page, limit),
		})
	}
}

// UpdateBookingStatus applies a status transition through the booking
// state machine. A self-transition is a no-op success.
func UpdateBookingStatus(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var input struct {
			Status string `json:"status" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !policy.CanAccessBooking(p, &booking) {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		target := models.BookingStatus(input.Status)
		if err := policy.ValidateBookingTransition(p, &booking, target, time.Now()); err != nil {
			respondError(c, err)
			return
		}

		if target == booking.Status {
			c.JSON(200, booking)
			return
		}

		previous := booking.Status
		if err := applyBookingTransition(db, &booking, previous, target); err != nil {
			respondError(c, err)
			return
		}

		logrus.WithFields(logrus.Fields{
			"bookingId": booking.ID,
			"from":      previous,
			"to":        target,
			"actor":     p.ID,
		}).Info("booking status updated")

		notifier.BookingStatusChanged(c.Request.Context(), &booking, "", bearerFrom(c))

		c.JSON(200, booking)
	}
}

// applyBookingTransition writes the new status with an optimistic
// check on the old one, so two concurrent transitions cannot silently
// overwrite each other. Cancellation also frees the calendar slot.
func applyBookingTransition(db *gorm.DB, booking *models.Booking, from, to models.BookingStatus) error {
	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	result := tx.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, from).
		Update("status", to)
	if result.Error != nil {
		tx.Rollback()
		return result.Error
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return &policy.TransitionError{From: string(from), To: string(to)}
	}

	if to == models.BookingStatusCancelled {
		if err := releaseCalendarSlot(tx, booking); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	booking.Status = to
	return nil
}

func releaseCalendarSlot(tx *gorm.DB, booking *models.Booking) error {
	return tx.Model(&models.CalendarEvent{}).
		Where("venue_id = ? AND booking_id = ?", booking.VenueID, booking.ID).
		Updates(map[string]interface{}{"is_available": true, "booking_id": nil}).Error
}

// DeleteBooking soft-deletes: status is forced to cancelled and the
// deletion metadata is stamped. The record stays retrievable. Vendors
// cannot delete; they cancel via a status update instead.
func DeleteBooking(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var input struct {
			Reason string `json:"reason"`
		}
		// Body is optional on delete.
		c.ShouldBindJSON(&input)

		var booking models.Booking
		if err := db.First(&booking, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if !policy.CanDeleteBooking(p, &booking) {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		now := time.Now()
		deletedBy := p.ID

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		updates := map[string]interface{}{
			"status":          models.BookingStatusCancelled,
			"deleted_by":      deletedBy,
			"deletion_reason": input.Reason,
			"deletion_time":   now,
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to delete booking"})
			return
		}

		if err := releaseCalendarSlot(tx, &booking); err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to delete booking"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete booking"})
			return
		}

		booking.Status = models.BookingStatusCancelled
		booking.DeletedBy = &deletedBy
		booking.DeletionReason = input.Reason
		booking.DeletionTime = &now

		logrus.WithFields(logrus.Fields{
			"bookingId": booking.ID,
			"deletedBy": deletedBy,
			"reason":    input.Reason,
		}).Info("booking soft-deleted")

		notifier.BookingStatusChanged(c.Request.Context(), &booking, "", bearerFrom(c))

		c.JSON(200, booking)
	}
}
