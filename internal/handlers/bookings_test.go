package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/banquethub/banquethub-backend/internal/models"
	"github.com/banquethub/banquethub-backend/internal/services"
)

// recordingVenues fails the lookup and remembers whether it was asked.
type recordingVenues struct {
	called bool
}

func (r *recordingVenues) GetVenue(context.Context, uint, string) (*models.Venue, error) {
	r.called = true
	return nil, services.ErrRecordNotFound
}

func TestCreateBookingRejectsBadGuestCountBeforeLookup(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing guest count", `{"venueId":1,"vendorId":2,"date":"2027-06-01"}`},
		{"zero guest count", `{"venueId":1,"vendorId":2,"date":"2027-06-01","guestCount":0}`},
		{"negative guest count", `{"venueId":1,"vendorId":2,"date":"2027-06-01","guestCount":-5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			venues := &recordingVenues{}
			r := newTestRouter(func(g *gin.RouterGroup) {
				g.POST("/bookings", CreateBooking(nil, venues, nil))
			})

			req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			asPrincipal(req, models.Principal{ID: 10, Role: models.RoleUser})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"field":"guestCount"`)
			assert.False(t, venues.called, "guest count must be rejected before the venue lookup")
		})
	}
}

func TestCreateBookingUnknownVenue(t *testing.T) {
	venues := &recordingVenues{}
	r := newTestRouter(func(g *gin.RouterGroup) {
		g.POST("/bookings", CreateBooking(nil, venues, nil))
	})

	body := `{"venueId":99,"vendorId":2,"date":"2027-06-01","guestCount":50}`
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	asPrincipal(req, models.Principal{ID: 10, Role: models.RoleUser})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"venueId"`)
	assert.True(t, venues.called)
}
