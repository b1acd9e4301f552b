package policy

import (
	"errors"
	"time"

	"github.com/banquethub/banquethub-backend/internal/models"
)

// InvoiceDueTerm is how long after issuance an invoice falls due.
const InvoiceDueTerm = 7 * 24 * time.Hour

// ErrQuoteExpired is returned when an accept/reject lands on a quote
// whose validity window has passed. The caller must persist the forced
// expired status before reporting it.
var ErrQuoteExpired = errors.New("quote has expired")

func isOwningProvider(p models.Principal, quote *models.Quote) bool {
	return p.Role == models.RoleServiceProvider && p.ID == quote.ServiceProviderID
}

// CanSendQuote checks provider ownership and that the quote is still a
// draft.
func CanSendQuote(p models.Principal, quote *models.Quote) error {
	if !p.IsAdmin() && !isOwningProvider(p, quote) {
		return ErrForbidden
	}
	if quote.Status != models.QuoteStatusDraft {
		return &TransitionError{From: string(quote.Status), To: string(models.QuoteStatusSent)}
	}
	return nil
}

// ShouldMarkViewed reports whether a read by this principal implies the
// sent→viewed transition. Only the addressed user's first look counts.
func ShouldMarkViewed(p models.Principal, quote *models.Quote) bool {
	return p.ID == quote.UserID && quote.Status == models.QuoteStatusSent
}

// CanRespondToQuote checks whether the principal may accept or reject
// the quote now. Only the addressed user may respond, only from
// sent/viewed, and an elapsed validity window forces expiry instead.
func CanRespondToQuote(p models.Principal, quote *models.Quote, target models.QuoteStatus, now time.Time) error {
	if target != models.QuoteStatusAccepted && target != models.QuoteStatusRejected {
		return &TransitionError{From: string(quote.Status), To: string(target)}
	}
	if p.ID != quote.UserID {
		return ErrForbidden
	}
	if quote.Status != models.QuoteStatusSent && quote.Status != models.QuoteStatusViewed {
		return &TransitionError{From: string(quote.Status), To: string(target)}
	}
	if now.After(quote.ValidUntil) {
		return ErrQuoteExpired
	}
	return nil
}

// CanInvoiceQuote checks whether the principal may turn the quote into
// an invoice: provider ownership and an accepted quote.
func CanInvoiceQuote(p models.Principal, quote *models.Quote) error {
	if !p.IsAdmin() && !isOwningProvider(p, quote) {
		return ErrForbidden
	}
	if quote.Status != models.QuoteStatusAccepted {
		return &TransitionError{From: string(quote.Status), To: string(models.QuoteStatusInvoiced)}
	}
	return nil
}

// CanAccessQuote reports whether the principal may read a quote.
func CanAccessQuote(p models.Principal, quote *models.Quote) bool {
	if p.IsAdmin() {
		return true
	}
	return p.ID == quote.UserID || isOwningProvider(p, quote)
}

// CanAccessInvoice reports whether the principal may read an invoice.
func CanAccessInvoice(p models.Principal, invoice *models.Invoice) bool {
	if p.IsAdmin() {
		return true
	}
	if p.ID == invoice.UserID {
		return true
	}
	return p.Role == models.RoleServiceProvider && p.ID == invoice.ServiceProviderID
}

// ValidateInvoiceTransition checks a pending→{paid,cancelled} move.
// Overdue is never a transition target; it is derived from the due
// date (see DeriveInvoiceStatus). Payment is recorded by the addressed
// user or an admin; cancellation by the owning provider or an admin.
func ValidateInvoiceTransition(p models.Principal, invoice *models.Invoice, target models.InvoiceStatus) error {
	if target == invoice.Status {
		return nil
	}
	if invoice.Status != models.InvoiceStatusPending && invoice.Status != models.InvoiceStatusOverdue {
		return &TransitionError{From: string(invoice.Status), To: string(target)}
	}

	switch target {
	case models.InvoiceStatusPaid:
		if p.IsAdmin() || p.ID == invoice.UserID {
			return nil
		}
		return ErrForbidden
	case models.InvoiceStatusCancelled:
		if p.IsAdmin() || (p.Role == models.RoleServiceProvider && p.ID == invoice.ServiceProviderID) {
			return nil
		}
		return ErrForbidden
	}
	return &TransitionError{From: string(invoice.Status), To: string(target)}
}

// DeriveInvoiceStatus folds the due date into the stored status: a
// pending invoice past its due date reads as overdue.
func DeriveInvoiceStatus(invoice *models.Invoice, now time.Time) models.InvoiceStatus {
	if invoice.Status == models.InvoiceStatusPending && now.After(invoice.DueDate) {
		return models.InvoiceStatusOverdue
	}
	return invoice.Status
}
