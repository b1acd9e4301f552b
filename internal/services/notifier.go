package services

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/banquethub/banquethub-backend/internal/models"
	"github.com/banquethub/banquethub-backend/pkg/utils"
)

// Notifier fans a domain event out to email, the websocket hub and
// Redis pub/sub. Every delivery is best-effort: failures are logged
// and never bubble up, because they happen after the authoritative
// write. Cache is optional; without it the pub/sub legs are skipped.
type Notifier struct {
	Mailer *utils.Mailer
	Hub    *Hub
	Cache  *Cache
	Users  UserDirectory
}

func (n *Notifier) userEmail(ctx context.Context, userID uint, credential string) (string, bool) {
	user, err := n.Users.GetUser(ctx, userID, credential)
	if err != nil {
		logrus.WithError(err).WithField("userId", userID).Warn("failed to resolve notification recipient")
		return "", false
	}
	return user.Email, true
}

func (n *Notifier) push(userID uint, msgType string, data interface{}) {
	payload, err := json.Marshal(WebSocketMessage{Type: msgType, Data: data})
	if err != nil {
		return
	}
	n.Hub.BroadcastToUser(userID, payload)
}

// BookingCreated notifies the vendor about a fresh booking.
func (n *Notifier) BookingCreated(ctx context.Context, booking *models.Booking, venueName, credential string) {
	if email, ok := n.userEmail(ctx, booking.VendorID, credential); ok {
		if err := n.Mailer.SendBookingCreatedEmail(email, venueName, booking.GuestCount, booking.TotalPrice); err != nil {
			logrus.WithError(err).Warn("booking-created email failed")
		}
	}

	n.push(booking.VendorID, "booking_created", BookingStatusUpdate{
		BookingID: booking.ID,
		VenueID:   booking.VenueID,
		Status:    string(booking.Status),
		Total:     booking.TotalPrice,
	})

	n.publishBooking(ctx, booking)
}

func (n *Notifier) publishBooking(ctx context.Context, booking *models.Booking) {
	if n.Cache == nil {
		return
	}
	if err := n.Cache.PublishBookingUpdate(ctx, booking.ID, string(booking.Status), nil); err != nil {
		logrus.WithError(err).Warn("booking publish failed")
	}
}

func (n *Notifier) publishQuote(ctx context.Context, quote *models.Quote) {
	if n.Cache == nil {
		return
	}
	if err := n.Cache.PublishQuoteUpdate(ctx, quote.ID, string(quote.Status)); err != nil {
		logrus.WithError(err).Warn("quote publish failed")
	}
}

// BookingStatusChanged notifies both parties about a transition.
func (n *Notifier) BookingStatusChanged(ctx context.Context, booking *models.Booking, venueName, credential string) {
	if email, ok := n.userEmail(ctx, booking.UserID, credential); ok {
		if err := n.Mailer.SendBookingStatusEmail(email, venueName, string(booking.Status)); err != nil {
			logrus.WithError(err).Warn("booking-status email failed")
		}
	}

	update := BookingStatusUpdate{
		BookingID: booking.ID,
		VenueID:   booking.VenueID,
		Status:    string(booking.Status),
		Total:     booking.TotalPrice,
	}
	n.push(booking.UserID, "booking_status", update)
	n.push(booking.VendorID, "booking_status", update)

	n.publishBooking(ctx, booking)
}

// QuoteSent notifies the addressed user that a quote awaits them.
func (n *Notifier) QuoteSent(ctx context.Context, quote *models.Quote, credential string) {
	if email, ok := n.userEmail(ctx, quote.UserID, credential); ok {
		if err := n.Mailer.SendQuoteSentEmail(email, quote.QuoteNumber, quote.TotalAmount); err != nil {
			logrus.WithError(err).Warn("quote-sent email failed")
		}
	}

	n.push(quote.UserID, "quote_status", QuoteStatusUpdate{QuoteID: quote.ID, Status: string(quote.Status)})

	n.publishQuote(ctx, quote)
}

// QuoteStatusChanged notifies the provider about accept/reject/expiry.
func (n *Notifier) QuoteStatusChanged(ctx context.Context, quote *models.Quote) {
	n.push(quote.ServiceProviderID, "quote_status", QuoteStatusUpdate{QuoteID: quote.ID, Status: string(quote.Status)})

	n.publishQuote(ctx, quote)
}

// InvoiceIssued notifies the addressed user about a new invoice.
func (n *Notifier) InvoiceIssued(ctx context.Context, invoice *models.Invoice, credential string) {
	if email, ok := n.userEmail(ctx, invoice.UserID, credential); ok {
		if err := n.Mailer.SendInvoiceIssuedEmail(email, invoice.InvoiceNumber, invoice.TotalAmount, invoice.DueDate.Format("2006-01-02")); err != nil {
			logrus.WithError(err).Warn("invoice-issued email failed")
		}
	}
}
