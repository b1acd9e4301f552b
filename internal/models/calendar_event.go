package models

import (
	"time"

	"gorm.io/gorm"
)

// CalendarEvent links a venue and a date to its availability and,
// once booked, to the booking that consumed it. The unique index on
// (venue_id, date) is what prevents double-booking.
type CalendarEvent struct {
	gorm.Model
	VenueID     uint      `json:"venueId" gorm:"not null;uniqueIndex:idx_calendar_venue_date"`
	Date        time.Time `json:"date" gorm:"not null;uniqueIndex:idx_calendar_venue_date"`
	IsAvailable bool      `json:"isAvailable" gorm:"not null;default:true"`
	BookingID   *uint     `json:"bookingId,omitempty"`
}

// TableName specifies the table name
func (CalendarEvent) TableName() string {
	return "calendar_events"
}
