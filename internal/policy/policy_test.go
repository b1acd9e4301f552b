package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banquethub/banquethub-backend/internal/models"
)

func TestCanAccessBooking(t *testing.T) {
	booking := &models.Booking{UserID: 10, VenueID: 3, VendorID: 20}

	tests := []struct {
		name      string
		principal models.Principal
		allowed   bool
	}{
		{"owning user", models.Principal{ID: 10, Role: models.RoleUser}, true},
		{"owning vendor", models.Principal{ID: 20, Role: models.RoleVendor}, true},
		{"admin", models.Principal{ID: 99, Role: models.RoleAdmin}, true},
		{"other user", models.Principal{ID: 11, Role: models.RoleUser}, false},
		{"other vendor", models.Principal{ID: 21, Role: models.RoleVendor}, false},
		{"user with vendor's id but user role", models.Principal{ID: 20, Role: models.RoleUser}, false},
		{"service provider", models.Principal{ID: 30, Role: models.RoleServiceProvider}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanAccessBooking(tt.principal, booking))
		})
	}
}

func TestCanConfirmBooking(t *testing.T) {
	booking := &models.Booking{UserID: 10, VendorID: 20}

	tests := []struct {
		name      string
		principal models.Principal
		allowed   bool
	}{
		{"owning vendor", models.Principal{ID: 20, Role: models.RoleVendor}, true},
		{"admin", models.Principal{ID: 99, Role: models.RoleAdmin}, true},
		{"booking's own user", models.Principal{ID: 10, Role: models.RoleUser}, false},
		{"unrelated vendor", models.Principal{ID: 21, Role: models.RoleVendor}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanConfirmBooking(tt.principal, booking))
		})
	}
}

func TestCanDeleteBooking(t *testing.T) {
	booking := &models.Booking{UserID: 10, VendorID: 20}

	assert.True(t, CanDeleteBooking(models.Principal{ID: 10, Role: models.RoleUser}, booking))
	assert.True(t, CanDeleteBooking(models.Principal{ID: 99, Role: models.RoleAdmin}, booking))
	// Vendors cancel through a status update, never delete.
	assert.False(t, CanDeleteBooking(models.Principal{ID: 20, Role: models.RoleVendor}, booking))
	assert.False(t, CanDeleteBooking(models.Principal{ID: 11, Role: models.RoleUser}, booking))
}

func TestCanManageVenue(t *testing.T) {
	venue := &models.Venue{VendorID: 20}

	assert.True(t, CanManageVenue(models.Principal{ID: 20, Role: models.RoleVendor}, venue))
	assert.True(t, CanManageVenue(models.Principal{ID: 99, Role: models.RoleAdmin}, venue))
	assert.False(t, CanManageVenue(models.Principal{ID: 21, Role: models.RoleVendor}, venue))
	assert.False(t, CanManageVenue(models.Principal{ID: 20, Role: models.RoleUser}, venue))
}

func TestCanCreateVenueRequiresApprovedKyc(t *testing.T) {
	tests := []struct {
		name      string
		principal models.Principal
		allowed   bool
	}{
		{"approved vendor", models.Principal{ID: 1, Role: models.RoleVendor, KycStatus: models.KycApproved}, true},
		{"pending vendor", models.Principal{ID: 1, Role: models.RoleVendor, KycStatus: models.KycPending}, false},
		{"submitted vendor", models.Principal{ID: 1, Role: models.RoleVendor, KycStatus: models.KycSubmitted}, false},
		{"rejected vendor", models.Principal{ID: 1, Role: models.RoleVendor, KycStatus: models.KycRejected}, false},
		{"admin without kyc", models.Principal{ID: 2, Role: models.RoleAdmin}, true},
		{"approved user", models.Principal{ID: 3, Role: models.RoleUser, KycStatus: models.KycApproved}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanCreateVenue(tt.principal))
		})
	}
}

func TestCanCreateQuoteRequiresApprovedKyc(t *testing.T) {
	tests := []struct {
		name      string
		principal models.Principal
		allowed   bool
	}{
		{"approved provider", models.Principal{ID: 1, Role: models.RoleServiceProvider, KycStatus: models.KycApproved}, true},
		{"pending provider", models.Principal{ID: 1, Role: models.RoleServiceProvider, KycStatus: models.KycPending}, false},
		{"admin", models.Principal{ID: 2, Role: models.RoleAdmin}, true},
		{"approved vendor", models.Principal{ID: 3, Role: models.RoleVendor, KycStatus: models.KycApproved}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanCreateQuote(tt.principal))
		})
	}
}

func TestCanAccessMedia(t *testing.T) {
	venue := &models.Venue{VendorID: 20}
	booking := &models.Booking{UserID: 10, VendorID: 20}

	tests := []struct {
		name      string
		principal models.Principal
		media     *models.Media
		ctx       MediaContext
		allowed   bool
	}{
		{
			name:      "public media readable by anyone",
			principal: models.Principal{ID: 5, Role: models.RoleUser},
			media:     &models.Media{ReferenceType: models.ReferenceVenue, ReferenceID: 3, IsPublic: true},
			allowed:   true,
		},
		{
			name:      "uploader reads own private media",
			principal: models.Principal{ID: 5, Role: models.RoleUser},
			media:     &models.Media{ReferenceType: models.ReferenceBooking, ReferenceID: 7, CreatedBy: 5},
			allowed:   true,
		},
		{
			name:      "admin reads anything",
			principal: models.Principal{ID: 99, Role: models.RoleAdmin},
			media:     &models.Media{ReferenceType: models.ReferenceVenue, ReferenceID: 3},
			allowed:   true,
		},
		{
			name:      "venue media readable by owning vendor",
			principal: models.Principal{ID: 20, Role: models.RoleVendor},
			media:     &models.Media{ReferenceType: models.ReferenceVenue, ReferenceID: 3, CreatedBy: 99},
			ctx:       MediaContext{Venue: venue},
			allowed:   true,
		},
		{
			name:      "venue media denied to other vendor",
			principal: models.Principal{ID: 21, Role: models.RoleVendor},
			media:     &models.Media{ReferenceType: models.ReferenceVenue, ReferenceID: 3, CreatedBy: 99},
			ctx:       MediaContext{Venue: venue},
			allowed:   false,
		},
		{
			name:      "venue media denied when venue unresolved",
			principal: models.Principal{ID: 20, Role: models.RoleVendor},
			media:     &models.Media{ReferenceType: models.ReferenceVenue, ReferenceID: 3, CreatedBy: 99},
			allowed:   false,
		},
		{
			name:      "booking media readable by booking user",
			principal: models.Principal{ID: 10, Role: models.RoleUser},
			media:     &models.Media{ReferenceType: models.ReferenceBooking, ReferenceID: 7, CreatedBy: 99},
			ctx:       MediaContext{Booking: booking},
			allowed:   true,
		},
		{
			name:      "booking media readable by booking vendor",
			principal: models.Principal{ID: 20, Role: models.RoleVendor},
			media:     &models.Media{ReferenceType: models.ReferenceBooking, ReferenceID: 7, CreatedBy: 99},
			ctx:       MediaContext{Booking: booking},
			allowed:   true,
		},
		{
			name:      "booking media denied to stranger",
			principal: models.Principal{ID: 11, Role: models.RoleUser},
			media:     &models.Media{ReferenceType: models.ReferenceBooking, ReferenceID: 7, CreatedBy: 99},
			ctx:       MediaContext{Booking: booking},
			allowed:   false,
		},
		{
			name:      "profile media readable by its subject",
			principal: models.Principal{ID: 10, Role: models.RoleUser},
			media:     &models.Media{ReferenceType: models.ReferenceProfile, ReferenceID: 10, CreatedBy: 99},
			allowed:   true,
		},
		{
			name:      "profile media denied to others",
			principal: models.Principal{ID: 11, Role: models.RoleUser},
			media:     &models.Media{ReferenceType: models.ReferenceProfile, ReferenceID: 10, CreatedBy: 99},
			allowed:   false,
		},
		{
			name:      "unknown reference kind denies",
			principal: models.Principal{ID: 10, Role: models.RoleUser},
			media:     &models.Media{ReferenceType: "gallery", ReferenceID: 10, CreatedBy: 99},
			allowed:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanAccessMedia(tt.principal, tt.media, tt.ctx))
		})
	}
}

func TestCanSendNotification(t *testing.T) {
	assert.True(t, CanSendNotification(models.Principal{ID: 99, Role: models.RoleAdmin}, 10))
	assert.True(t, CanSendNotification(models.Principal{ID: 10, Role: models.RoleUser}, 10))
	assert.False(t, CanSendNotification(models.Principal{ID: 20, Role: models.RoleVendor}, 10))
	assert.False(t, CanSendNotification(models.Principal{ID: 30, Role: models.RoleServiceProvider}, 10))
	assert.False(t, CanSendNotification(models.Principal{ID: 11, Role: models.RoleUser}, 10))
}
