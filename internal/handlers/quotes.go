package handlers

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/banquethub/banquethub-backend/internal/middleware"
	"github.com/banquethub/banquethub-backend/internal/models"
	"github.com/banquethub/banquethub-backend/internal/policy"
	"github.com/banquethub/banquethub-backend/internal/services"
)

func newQuoteNumber() string {
	return fmt.Sprintf("Q-%s", uuid.NewString()[:8])
}

func newInvoiceNumber() string {
	return fmt.Sprintf("INV-%s", uuid.NewString()[:8])
}

// CreateQuote drafts a quote for a user. Only KYC-approved service
// providers (or admins) may create quotes; the total is computed from
// the items, never taken from the client.
func CreateQuote(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		if !policy.CanCreateQuote(p) {
			c.JSON(403, gin.H{"error": "Only KYC-approved service providers can create quotes"})
			return
		}

		var input struct {
			UserID         uint   `json:"userId" binding:"required"`
			QuoteRequestID *uint  `json:"quoteRequestId"`
			ValidUntil     string `json:"validUntil" binding:"required"`
			Items          []struct {
				ItemName  string  `json:"itemName" binding:"required"`
				Quantity  int     `json:"quantity" binding:"required,gt=0"`
				UnitPrice float64 `json:"unitPrice" binding:"required,gt=0"`
			} `json:"items" binding:"required,min=1,dive"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		validUntil, err := time.Parse("2006-01-02", input.ValidUntil)
		if err != nil {
			c.JSON(400, gin.H{"error": "validUntil must be a valid YYYY-MM-DD date", "details": gin.H{"field": "validUntil"}})
			return
		}
		if !validUntil.After(time.Now()) {
			c.JSON(400, gin.H{"error": "validUntil must be in the future", "details": gin.H{"field": "validUntil"}})
			return
		}

		var total float64
		items := make([]models.QuoteItem, 0, len(input.Items))
		for _, item := range input.Items {
			total += float64(item.Quantity) * item.UnitPrice
			items = append(items, models.QuoteItem{
				ItemName:  item.ItemName,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		quote := models.Quote{
			QuoteNumber:       newQuoteNumber(),
			QuoteRequestID:    input.QuoteRequestID,
			ServiceProviderID: p.ID,
			UserID:            input.UserID,
			TotalAmount:       math.Round(total*100) / 100,
			Status:            models.QuoteStatusDraft,
			ValidUntil:        validUntil,
			Items:             items,
		}

		if err := db.Create(&quote).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create quote"})
			return
		}

		c.JSON(201, quote)
	}
}

// SendQuote moves a draft to sent and notifies the addressed user.
func SendQuote(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var quote models.Quote
		if err := db.First(&quote, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Quote not found"})
			return
		}

		if err := policy.CanSendQuote(p, &quote); err != nil {
			respondError(c, err)
			return
		}

		result := db.Model(&models.Quote{}).
			Where("id = ? AND status = ?", quote.ID, models.QuoteStatusDraft).
			Update("status", models.QuoteStatusSent)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to send quote"})
			return
		}
		if result.RowsAffected == 0 {
			respondError(c, &policy.TransitionError{From: string(quote.Status), To: string(models.QuoteStatusSent)})
			return
		}

		quote.Status = models.QuoteStatusSent
		notifier.QuoteSent(c.Request.Context(), &quote, bearerFrom(c))

		c.JSON(200, quote)
	}
}

// GetQuote returns a quote to its parties. A first read by the
// addressed user moves sent to viewed as a side effect, so providers
// can tell the quote has been seen.
func GetQuote(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var quote models.Quote
		if err := db.Preload("Items").First(&quote, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Quote not found"})
			return
		}

		if !policy.CanAccessQuote(p, &quote) {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		if policy.ShouldMarkViewed(p, &quote) {
			result := db.Model(&models.Quote{}).
				Where("id = ? AND status = ?", quote.ID, models.QuoteStatusSent).
				Update("status", models.QuoteStatusViewed)
			if result.Error == nil && result.RowsAffected > 0 {
				quote.Status = models.QuoteStatusViewed
			}
		}

		c.JSON(200, quote)
	}
}

// GetQuotes lists quotes scoped to the caller.
func GetQuotes(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		page, limit, offset := parsePagination(c)

		query := db.Model(&models.Quote{})
		switch p.Role {
		case models.RoleAdmin:
		case models.RoleServiceProvider:
			query = query.Where("service_provider_id = ?", p.ID)
		default:
			query = query.Where("user_id = ?", p.ID)
		}

		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch quotes"})
			return
		}

		var quotes []models.Quote
		if err := query.Preload("Items").Offset(offset).Limit(limit).Order("id desc").Find(&quotes).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch quotes"})
			return
		}

		c.JSON(200, gin.H{
			"quotes":     quotes,
			"pagination": paginationEnvelope(total, page, limit),
		})
	}
}

// AcceptQuote records the addressed user's acceptance.
func AcceptQuote(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return respondToQuote(db, notifier, models.QuoteStatusAccepted)
}

// RejectQuote records the addressed user's rejection.
func RejectQuote(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return respondToQuote(db, notifier, models.QuoteStatusRejected)
}

// respondToQuote applies accept/reject. An elapsed validity window is
// persisted as expired and reported instead of the response.
func respondToQuote(db *gorm.DB, notifier *services.Notifier, target models.QuoteStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var quote models.Quote
		if err := db.First(&quote, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Quote not found"})
			return
		}

		err := policy.CanRespondToQuote(p, &quote, target, time.Now())
		if errors.Is(err, policy.ErrQuoteExpired) {
			db.Model(&models.Quote{}).
				Where("id = ? AND status IN ?", quote.ID, []models.QuoteStatus{models.QuoteStatusSent, models.QuoteStatusViewed}).
				Update("status", models.QuoteStatusExpired)
			quote.Status = models.QuoteStatusExpired
			notifier.QuoteStatusChanged(c.Request.Context(), &quote)
			respondError(c, err)
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}

		result := db.Model(&models.Quote{}).
			Where("id = ? AND status IN ?", quote.ID, []models.QuoteStatus{models.QuoteStatusSent, models.QuoteStatusViewed}).
			Update("status", target)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update quote"})
			return
		}
		if result.RowsAffected == 0 {
			respondError(c, &policy.TransitionError{From: string(quote.Status), To: string(target)})
			return
		}

		quote.Status = target

		logrus.WithFields(logrus.Fields{
			"quoteId": quote.ID,
			"status":  target,
			"actor":   p.ID,
		}).Info("quote responded")

		notifier.QuoteStatusChanged(c.Request.Context(), &quote)

		c.JSON(200, quote)
	}
}

// CreateInvoiceFromQuote turns an accepted quote into a pending
// invoice. Items and totals are copied verbatim; the quote becomes
// invoiced in the same transaction, so both writes stand or fall
// together.
func CreateInvoiceFromQuote(db *gorm.DB, notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var quote models.Quote
		if err := db.Preload("Items").First(&quote, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Quote not found"})
			return
		}

		if err := policy.CanInvoiceQuote(p, &quote); err != nil {
			respondError(c, err)
			return
		}

		quoteID := quote.ID
		items := make([]models.InvoiceItem, 0, len(quote.Items))
		for _, item := range quote.Items {
			items = append(items, models.InvoiceItem{
				ItemName:  item.ItemName,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		invoice := models.Invoice{
			InvoiceNumber:     newInvoiceNumber(),
			QuoteID:           &quoteID,
			ServiceProviderID: quote.ServiceProviderID,
			UserID:            quote.UserID,
			TotalAmount:       quote.TotalAmount,
			Status:            models.InvoiceStatusPending,
			DueDate:           time.Now().Add(policy.InvoiceDueTerm),
			Items:             items,
		}

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		if err := tx.Create(&invoice).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to create invoice"})
			return
		}

		result := tx.Model(&models.Quote{}).
			Where("id = ? AND status = ?", quote.ID, models.QuoteStatusAccepted).
			Update("status", models.QuoteStatusInvoiced)
		if result.Error != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to update quote"})
			return
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			respondError(c, &policy.TransitionError{From: string(quote.Status), To: string(models.QuoteStatusInvoiced)})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create invoice"})
			return
		}

		logrus.WithFields(logrus.Fields{
			"quoteId":   quote.ID,
			"invoiceId": invoice.ID,
			"total":     invoice.TotalAmount,
		}).Info("invoice created from quote")

		notifier.InvoiceIssued(c.Request.Context(), &invoice, bearerFrom(c))

		c.JSON(201, invoice)
	}
}
