package policy

import (
	"errors"
	"fmt"
	"time"

	"github.com/banquethub/banquethub-backend/internal/models"
)

// CancellationNotice is the minimum notice a customer must give to
// cancel a confirmed booking. Vendors and admins are exempt.
const CancellationNotice = 72 * time.Hour

// ErrCancellationWindow is returned when a customer tries to cancel a
// confirmed booking inside the notice window.
var ErrCancellationWindow = errors.New("confirmed bookings cannot be cancelled within 3 days of the event")

// TransitionError reports an illegal status transition. Handlers
// surface it as a conflict with both statuses named.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

func validBookingStatus(s models.BookingStatus) bool {
	switch s {
	case models.BookingStatusPending, models.BookingStatusConfirmed, models.BookingStatusCancelled:
		return true
	}
	return false
}

// ValidateBookingTransition checks whether the principal may move the
// booking to the target status at the given time. A self-transition
// (target equals the current status) is a no-op success. Returns
// ErrForbidden when the role/ownership does not allow the transition,
// ErrCancellationWindow for late customer cancellations, and a
// *TransitionError when the state machine itself forbids the move.
func ValidateBookingTransition(p models.Principal, booking *models.Booking, target models.BookingStatus, now time.Time) error {
	if !validBookingStatus(target) {
		return &TransitionError{From: string(booking.Status), To: string(target)}
	}
	if target == booking.Status {
		return nil
	}

	switch {
	case booking.Status == models.BookingStatusCancelled:
		// Cancelled is terminal.
		return &TransitionError{From: string(booking.Status), To: string(target)}

	case booking.Status == models.BookingStatusPending && target == models.BookingStatusConfirmed:
		if !CanConfirmBooking(p, booking) {
			return ErrForbidden
		}
		return nil

	case booking.Status == models.BookingStatusPending && target == models.BookingStatusCancelled:
		if p.IsAdmin() || isOwningVendor(p, booking) || p.ID == booking.UserID {
			return nil
		}
		return ErrForbidden

	case booking.Status == models.BookingStatusConfirmed && target == models.BookingStatusCancelled:
		if p.IsAdmin() || isOwningVendor(p, booking) {
			return nil
		}
		if p.ID == booking.UserID {
			if booking.Date.Sub(now) < CancellationNotice {
				return ErrCancellationWindow
			}
			return nil
		}
		return ErrForbidden
	}

	return &TransitionError{From: string(booking.Status), To: string(target)}
}

// CanCancelBooking reports whether the principal may cancel the
// booking right now. Convenience wrapper over the transition check.
func CanCancelBooking(p models.Principal, booking *models.Booking, now time.Time) bool {
	return ValidateBookingTransition(p, booking, models.BookingStatusCancelled, now) == nil
}

func isOwningVendor(p models.Principal, booking *models.Booking) bool {
	return p.Role == models.RoleVendor && p.ID == booking.VendorID
}
