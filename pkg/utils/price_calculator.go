package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/banquethub/banquethub-backend/internal/models"
)

// DefaultMinGuests applies when a per-head venue sets no minimum.
const DefaultMinGuests = 1

// ValidationError names the first input rule a booking request
// violated.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PriceInput carries the pricing terms in force for a booking. The
// terms come from the resolved venue, never from the client.
type PriceInput struct {
	PricingType        models.PricingType
	FlatPrice          *float64
	PerHeadPrice       *float64
	MinGuests          *int
	GuestCount         int
	AdditionalServices []models.AdditionalService
}

// PriceResult contains the computed total and its breakdown.
type PriceResult struct {
	TotalPrice float64        `json:"totalPrice"`
	GuestCount int            `json:"guestCount"`
	MinGuests  int            `json:"minGuests"`
	Breakdown  PriceBreakdown `json:"breakdown"`
}

// PriceBreakdown provides the detailed price breakdown.
type PriceBreakdown struct {
	VenuePrice    float64 `json:"venuePrice"`
	ServicesPrice float64 `json:"servicesPrice"`
	Total         float64 `json:"total"`
}

// ComputeBookingPrice validates the pricing inputs and computes the
// server-side total. Any client-supplied total is ignored by callers
// in favour of this result.
func ComputeBookingPrice(input PriceInput) (PriceResult, error) {
	if input.GuestCount <= 0 {
		return PriceResult{}, &ValidationError{Field: "guestCount", Message: "must be greater than 0"}
	}

	minGuests := DefaultMinGuests
	if input.MinGuests != nil {
		minGuests = *input.MinGuests
	}

	var venuePrice float64
	switch input.PricingType {
	case models.PricingFlat:
		if input.FlatPrice == nil || *input.FlatPrice <= 0 {
			return PriceResult{}, &ValidationError{Field: "flatPrice", Message: "must be a positive number for flat pricing"}
		}
		venuePrice = *input.FlatPrice

	case models.PricingPerHead:
		if input.PerHeadPrice == nil || *input.PerHeadPrice <= 0 {
			return PriceResult{}, &ValidationError{Field: "perHeadPrice", Message: "must be a positive number for per-head pricing"}
		}
		if input.GuestCount < minGuests {
			return PriceResult{}, &ValidationError{
				Field:   "guestCount",
				Message: fmt.Sprintf("guest count %d is below the venue minimum of %d", input.GuestCount, minGuests),
			}
		}
		venuePrice = float64(input.GuestCount) * *input.PerHeadPrice

	default:
		return PriceResult{}, &ValidationError{Field: "pricingType", Message: "invalid pricingType"}
	}

	// Missing service prices count as 0, not an error.
	var servicesPrice float64
	for _, svc := range input.AdditionalServices {
		servicesPrice += svc.Price
	}

	total := math.Round((venuePrice+servicesPrice)*100) / 100

	return PriceResult{
		TotalPrice: total,
		GuestCount: input.GuestCount,
		MinGuests:  minGuests,
		Breakdown: PriceBreakdown{
			VenuePrice:    math.Round(venuePrice*100) / 100,
			ServicesPrice: math.Round(servicesPrice*100) / 100,
			Total:         total,
		},
	}, nil
}

// ValidateEventDate requires a booking date strictly in the future at
// the moment of creation.
func ValidateEventDate(date time.Time, now time.Time) error {
	if date.IsZero() {
		return &ValidationError{Field: "date", Message: "must be a valid date"}
	}
	if !date.After(now) {
		return &ValidationError{Field: "date", Message: "date must be in the future"}
	}
	return nil
}
