package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banquethub/banquethub-backend/internal/models"
)

var (
	quoteUser     = models.Principal{ID: 10, Role: models.RoleUser}
	quoteProvider = models.Principal{ID: 30, Role: models.RoleServiceProvider}
	otherProvider = models.Principal{ID: 31, Role: models.RoleServiceProvider}
)

func testQuote(status models.QuoteStatus, validUntil time.Time) *models.Quote {
	return &models.Quote{
		ServiceProviderID: quoteProvider.ID,
		UserID:            quoteUser.ID,
		Status:            status,
		ValidUntil:        validUntil,
	}
}

func TestCanSendQuote(t *testing.T) {
	validUntil := time.Now().Add(7 * 24 * time.Hour)

	tests := []struct {
		name      string
		principal models.Principal
		status    models.QuoteStatus
		wantErr   bool
		forbidden bool
	}{
		{"owning provider sends draft", quoteProvider, models.QuoteStatusDraft, false, false},
		{"admin sends draft", someAdmin, models.QuoteStatusDraft, false, false},
		{"other provider denied", otherProvider, models.QuoteStatusDraft, true, true},
		{"addressed user denied", quoteUser, models.QuoteStatusDraft, true, true},
		{"already sent", quoteProvider, models.QuoteStatusSent, true, false},
		{"already accepted", quoteProvider, models.QuoteStatusAccepted, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanSendQuote(tt.principal, testQuote(tt.status, validUntil))
			switch {
			case !tt.wantErr:
				assert.NoError(t, err)
			case tt.forbidden:
				assert.ErrorIs(t, err, ErrForbidden)
			default:
				var transitionErr *TransitionError
				assert.ErrorAs(t, err, &transitionErr)
			}
		})
	}
}

func TestShouldMarkViewed(t *testing.T) {
	validUntil := time.Now().Add(24 * time.Hour)

	assert.True(t, ShouldMarkViewed(quoteUser, testQuote(models.QuoteStatusSent, validUntil)))
	// Only the addressed user's read counts.
	assert.False(t, ShouldMarkViewed(quoteProvider, testQuote(models.QuoteStatusSent, validUntil)))
	assert.False(t, ShouldMarkViewed(someAdmin, testQuote(models.QuoteStatusSent, validUntil)))
	// A second read does not re-trigger.
	assert.False(t, ShouldMarkViewed(quoteUser, testQuote(models.QuoteStatusViewed, validUntil)))
	assert.False(t, ShouldMarkViewed(quoteUser, testQuote(models.QuoteStatusDraft, validUntil)))
}

func TestCanRespondToQuote(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	valid := now.Add(48 * time.Hour)

	tests := []struct {
		name      string
		principal models.Principal
		status    models.QuoteStatus
		target    models.QuoteStatus
		wantErr   error
	}{
		{"user accepts sent quote", quoteUser, models.QuoteStatusSent, models.QuoteStatusAccepted, nil},
		{"user accepts viewed quote", quoteUser, models.QuoteStatusViewed, models.QuoteStatusAccepted, nil},
		{"user rejects viewed quote", quoteUser, models.QuoteStatusViewed, models.QuoteStatusRejected, nil},
		{"provider cannot accept own quote", quoteProvider, models.QuoteStatusSent, models.QuoteStatusAccepted, ErrForbidden},
		{"admin cannot respond for the user", someAdmin, models.QuoteStatusSent, models.QuoteStatusAccepted, ErrForbidden},
		{"stranger denied", stranger, models.QuoteStatusSent, models.QuoteStatusAccepted, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanRespondToQuote(tt.principal, testQuote(tt.status, valid), tt.target, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestCanRespondToQuoteBadStates(t *testing.T) {
	now := time.Now()
	valid := now.Add(48 * time.Hour)

	for _, status := range []models.QuoteStatus{
		models.QuoteStatusDraft,
		models.QuoteStatusAccepted,
		models.QuoteStatusRejected,
		models.QuoteStatusExpired,
		models.QuoteStatusInvoiced,
	} {
		err := CanRespondToQuote(quoteUser, testQuote(status, valid), models.QuoteStatusAccepted, now)
		var transitionErr *TransitionError
		require.ErrorAs(t, err, &transitionErr, string(status))
	}

	// Responding with a non-terminal target is a transition error too.
	err := CanRespondToQuote(quoteUser, testQuote(models.QuoteStatusSent, valid), models.QuoteStatusViewed, now)
	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
}

func TestCanRespondToQuoteExpired(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	// Window elapsed: acceptance is refused and expiry is forced.
	err := CanRespondToQuote(quoteUser, testQuote(models.QuoteStatusSent, now.Add(-time.Hour)), models.QuoteStatusAccepted, now)
	assert.ErrorIs(t, err, ErrQuoteExpired)

	err = CanRespondToQuote(quoteUser, testQuote(models.QuoteStatusViewed, now.Add(-time.Minute)), models.QuoteStatusRejected, now)
	assert.ErrorIs(t, err, ErrQuoteExpired)

	// Exactly at the deadline still counts as valid.
	err = CanRespondToQuote(quoteUser, testQuote(models.QuoteStatusSent, now), models.QuoteStatusAccepted, now)
	assert.NoError(t, err)
}

func TestCanInvoiceQuote(t *testing.T) {
	valid := time.Now().Add(24 * time.Hour)

	assert.NoError(t, CanInvoiceQuote(quoteProvider, testQuote(models.QuoteStatusAccepted, valid)))
	assert.NoError(t, CanInvoiceQuote(someAdmin, testQuote(models.QuoteStatusAccepted, valid)))
	assert.ErrorIs(t, CanInvoiceQuote(otherProvider, testQuote(models.QuoteStatusAccepted, valid)), ErrForbidden)
	assert.ErrorIs(t, CanInvoiceQuote(quoteUser, testQuote(models.QuoteStatusAccepted, valid)), ErrForbidden)

	// Invoicing is only possible from accepted.
	for _, status := range []models.QuoteStatus{
		models.QuoteStatusDraft,
		models.QuoteStatusSent,
		models.QuoteStatusViewed,
		models.QuoteStatusRejected,
		models.QuoteStatusExpired,
		models.QuoteStatusInvoiced,
	} {
		err := CanInvoiceQuote(quoteProvider, testQuote(status, valid))
		var transitionErr *TransitionError
		require.ErrorAs(t, err, &transitionErr, string(status))
	}
}

func TestCanAccessQuote(t *testing.T) {
	quote := testQuote(models.QuoteStatusSent, time.Now().Add(24*time.Hour))

	assert.True(t, CanAccessQuote(quoteUser, quote))
	assert.True(t, CanAccessQuote(quoteProvider, quote))
	assert.True(t, CanAccessQuote(someAdmin, quote))
	assert.False(t, CanAccessQuote(otherProvider, quote))
	assert.False(t, CanAccessQuote(stranger, quote))
}

func testInvoice(status models.InvoiceStatus, due time.Time) *models.Invoice {
	return &models.Invoice{
		ServiceProviderID: quoteProvider.ID,
		UserID:            quoteUser.ID,
		Status:            status,
		DueDate:           due,
	}
}

func TestCanAccessInvoice(t *testing.T) {
	invoice := testInvoice(models.InvoiceStatusPending, time.Now().Add(7*24*time.Hour))

	assert.True(t, CanAccessInvoice(quoteUser, invoice))
	assert.True(t, CanAccessInvoice(quoteProvider, invoice))
	assert.True(t, CanAccessInvoice(someAdmin, invoice))
	assert.False(t, CanAccessInvoice(otherProvider, invoice))
	assert.False(t, CanAccessInvoice(stranger, invoice))
}

func TestValidateInvoiceTransition(t *testing.T) {
	due := time.Now().Add(7 * 24 * time.Hour)

	tests := []struct {
		name      string
		principal models.Principal
		status    models.InvoiceStatus
		target    models.InvoiceStatus
		wantErr   error
	}{
		{"user pays pending", quoteUser, models.InvoiceStatusPending, models.InvoiceStatusPaid, nil},
		{"user pays overdue", quoteUser, models.InvoiceStatusOverdue, models.InvoiceStatusPaid, nil},
		{"admin pays", someAdmin, models.InvoiceStatusPending, models.InvoiceStatusPaid, nil},
		{"provider cannot pay", quoteProvider, models.InvoiceStatusPending, models.InvoiceStatusPaid, ErrForbidden},
		{"provider cancels pending", quoteProvider, models.InvoiceStatusPending, models.InvoiceStatusCancelled, nil},
		{"admin cancels", someAdmin, models.InvoiceStatusPending, models.InvoiceStatusCancelled, nil},
		{"user cannot cancel", quoteUser, models.InvoiceStatusPending, models.InvoiceStatusCancelled, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInvoiceTransition(tt.principal, testInvoice(tt.status, due), tt.target)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateInvoiceTransitionTerminalStates(t *testing.T) {
	due := time.Now().Add(7 * 24 * time.Hour)

	// Self-transition is a no-op success.
	assert.NoError(t, ValidateInvoiceTransition(someAdmin, testInvoice(models.InvoiceStatusPaid, due), models.InvoiceStatusPaid))

	for _, from := range []models.InvoiceStatus{models.InvoiceStatusPaid, models.InvoiceStatusCancelled} {
		for _, target := range []models.InvoiceStatus{models.InvoiceStatusPaid, models.InvoiceStatusCancelled} {
			if from == target {
				continue
			}
			err := ValidateInvoiceTransition(someAdmin, testInvoice(from, due), target)
			var transitionErr *TransitionError
			require.ErrorAs(t, err, &transitionErr, "%s -> %s", from, target)
		}
	}

	// Overdue is derived, never a target.
	err := ValidateInvoiceTransition(someAdmin, testInvoice(models.InvoiceStatusPending, due), models.InvoiceStatusOverdue)
	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
}

func TestDeriveInvoiceStatus(t *testing.T) {
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, models.InvoiceStatusPending, DeriveInvoiceStatus(testInvoice(models.InvoiceStatusPending, now.Add(time.Hour)), now))
	assert.Equal(t, models.InvoiceStatusOverdue, DeriveInvoiceStatus(testInvoice(models.InvoiceStatusPending, now.Add(-time.Hour)), now))
	// Due exactly now is not yet overdue.
	assert.Equal(t, models.InvoiceStatusPending, DeriveInvoiceStatus(testInvoice(models.InvoiceStatusPending, now), now))
	// Paid and cancelled never flip to overdue.
	assert.Equal(t, models.InvoiceStatusPaid, DeriveInvoiceStatus(testInvoice(models.InvoiceStatusPaid, now.Add(-time.Hour)), now))
	assert.Equal(t, models.InvoiceStatusCancelled, DeriveInvoiceStatus(testInvoice(models.InvoiceStatusCancelled, now.Add(-time.Hour)), now))
}
