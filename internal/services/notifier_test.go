package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/banquethub/banquethub-backend/internal/config"
	"github.com/banquethub/banquethub-backend/internal/models"
	"github.com/banquethub/banquethub-backend/pkg/utils"
)

type unresolvableUsers struct{}

func (unresolvableUsers) GetUser(context.Context, uint, string) (*models.User, error) {
	return nil, ErrRecordNotFound
}

func TestNotifierToleratesMissingCache(t *testing.T) {
	n := &Notifier{
		Mailer: utils.NewMailer(config.EmailConfig{}),
		Hub:    NewHub(),
		Users:  unresolvableUsers{},
	}

	booking := &models.Booking{UserID: 10, VenueID: 3, VendorID: 20, TotalPrice: 4800, Status: models.BookingStatusPending}
	quote := &models.Quote{QuoteNumber: "Q-test", ServiceProviderID: 30, UserID: 10, TotalAmount: 1200, Status: models.QuoteStatusSent}
	invoice := &models.Invoice{InvoiceNumber: "INV-test", ServiceProviderID: 30, UserID: 10, TotalAmount: 1200, DueDate: time.Now()}

	ctx := context.Background()
	assert.NotPanics(t, func() {
		n.BookingCreated(ctx, booking, "Rose Garden", "")
		n.BookingStatusChanged(ctx, booking, "Rose Garden", "")
		n.QuoteSent(ctx, quote, "")
		n.QuoteStatusChanged(ctx, quote)
		n.InvoiceIssued(ctx, invoice, "")
	})
}
