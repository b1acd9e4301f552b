package policy

import (
	"errors"

	"github.com/banquethub/banquethub-backend/internal/models"
)

// ErrForbidden is returned when the principal's role or ownership does
// not permit the attempted action.
var ErrForbidden = errors.New("not permitted")

// CanAccessBooking reports whether the principal may read a booking:
// admins, the booking's user, or the venue's vendor.
func CanAccessBooking(p models.Principal, booking *models.Booking) bool {
	if p.IsAdmin() {
		return true
	}
	if p.ID == booking.UserID {
		return true
	}
	return p.Role == models.RoleVendor && p.ID == booking.VendorID
}

// CanConfirmBooking reports whether the principal may confirm a
// booking. Customers may never confirm their own bookings.
func CanConfirmBooking(p models.Principal, booking *models.Booking) bool {
	if p.IsAdmin() {
		return true
	}
	return p.Role == models.RoleVendor && p.ID == booking.VendorID
}

// CanDeleteBooking reports whether the principal may soft-delete a
// booking. Vendor ownership alone is not enough; vendors cancel via a
// status update instead.
func CanDeleteBooking(p models.Principal, booking *models.Booking) bool {
	return p.IsAdmin() || p.ID == booking.UserID
}

// CanManageVenue reports whether the principal may write to a venue.
func CanManageVenue(p models.Principal, venue *models.Venue) bool {
	if p.IsAdmin() {
		return true
	}
	return p.Role == models.RoleVendor && p.ID == venue.VendorID
}

// CanCreateVenue gates venue creation: admins always, vendors only
// once their KYC is approved.
func CanCreateVenue(p models.Principal) bool {
	if p.IsAdmin() {
		return true
	}
	return p.Role == models.RoleVendor && p.KycStatus == models.KycApproved
}

// CanCreateQuote gates quote creation: admins always, service
// providers only once their KYC is approved.
func CanCreateQuote(p models.Principal) bool {
	if p.IsAdmin() {
		return true
	}
	return p.Role == models.RoleServiceProvider && p.KycStatus == models.KycApproved
}

// MediaContext carries the referenced records a media ownership
// decision needs. The caller resolves them before the check so the
// decision is made against data fetched in the same request.
type MediaContext struct {
	Venue   *models.Venue
	Booking *models.Booking
}

// One checker per reference kind. Unknown kinds deny.
var mediaOwnershipChecks = map[models.ReferenceType]func(models.Principal, *models.Media, MediaContext) bool{
	models.ReferenceVenue:   venueMediaOwner,
	models.ReferenceBooking: bookingMediaOwner,
	models.ReferenceUser:    selfMediaOwner,
	models.ReferenceProfile: selfMediaOwner,
}

// CanAccessMedia reports whether the principal may read a media record.
// Public media is readable by anyone; otherwise ownership is derived
// through the reference.
func CanAccessMedia(p models.Principal, media *models.Media, ctx MediaContext) bool {
	if p.IsAdmin() || media.IsPublic || media.CreatedBy == p.ID {
		return true
	}
	check, ok := mediaOwnershipChecks[media.ReferenceType]
	if !ok {
		return false
	}
	return check(p, media, ctx)
}

func venueMediaOwner(p models.Principal, _ *models.Media, ctx MediaContext) bool {
	if ctx.Venue == nil {
		return false
	}
	return p.Role == models.RoleVendor && p.ID == ctx.Venue.VendorID
}

func bookingMediaOwner(p models.Principal, _ *models.Media, ctx MediaContext) bool {
	if ctx.Booking == nil {
		return false
	}
	return CanAccessBooking(p, ctx.Booking)
}

func selfMediaOwner(p models.Principal, media *models.Media, _ MediaContext) bool {
	return media.ReferenceID == p.ID
}

// CanSendNotification reports whether the principal may trigger a
// notification to the given recipient. Current policy is strict:
// admins, or a user notifying themselves. Vendor-to-customer and
// provider-to-user sends are not allowed.
func CanSendNotification(p models.Principal, recipientID uint) bool {
	return p.IsAdmin() || p.ID == recipientID
}
