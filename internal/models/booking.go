package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking records a user's reservation of a venue for a date.
// TotalPrice is always computed server-side; client-supplied totals
// are ignored.
type Booking struct {
	gorm.Model
	UserID             uint                `json:"userId" gorm:"not null;index"`
	User               *User               `json:"user,omitempty" gorm:"foreignKey:UserID"`
	VenueID            uint                `json:"venueId" gorm:"not null;index"`
	VendorID           uint                `json:"vendorId" gorm:"not null;index"`
	Date               time.Time           `json:"date" gorm:"not null"`
	GuestCount         int                 `json:"guestCount" gorm:"not null"`
	PricingType        PricingType         `json:"pricingType" gorm:"not null"`
	FlatPrice          *float64            `json:"flatPrice,omitempty"`
	PerHeadPrice       *float64            `json:"perHeadPrice,omitempty"`
	MinGuests          *int                `json:"minGuests,omitempty"`
	AdditionalServices []AdditionalService `json:"additionalServices,omitempty" gorm:"foreignKey:BookingID"`
	TotalPrice         float64             `json:"totalPrice" gorm:"not null"`
	Status             BookingStatus       `json:"status" gorm:"not null;default:'pending'"`
	DeletedBy          *uint               `json:"deletedBy,omitempty"`
	DeletionReason     string              `json:"deletionReason,omitempty"`
	DeletionTime       *time.Time          `json:"deletedAt,omitempty" gorm:"column:deletion_time"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}

// AdditionalService is an extra line item attached to a booking
// (decoration, catering add-ons, and so on).
type AdditionalService struct {
	gorm.Model
	BookingID uint    `json:"bookingId" gorm:"not null;index"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

// TableName specifies the table name
func (AdditionalService) TableName() string {
	return "additional_services"
}
