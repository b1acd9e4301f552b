package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/banquethub/banquethub-backend/internal/middleware"
	"github.com/banquethub/banquethub-backend/internal/models"
	"github.com/banquethub/banquethub-backend/internal/policy"
)

// GetInvoices lists invoices scoped to the caller. Statuses are
// reported with the due date folded in, so a pending invoice past due
// reads as overdue.
func GetInvoices(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		page, limit, offset := parsePagination(c)
		now := time.Now()

		query := db.Model(&models.Invoice{})
		switch p.Role {
		case models.RoleAdmin:
		case models.RoleServiceProvider:
			query = query.Where("service_provider_id = ?", p.ID)
		default:
			query = query.Where("user_id = ?", p.ID)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch invoices"})
			return
		}

		var invoices []models.Invoice
		if err := query.Preload("Items").Offset(offset).Limit(limit).Order("id desc").Find(&invoices).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch invoices"})
			return
		}

		for i := range invoices {
			invoices[i].Status = policy.DeriveInvoiceStatus(&invoices[i], now)
		}

		c.JSON(200, gin.H{
			"invoices":   invoices,
			"pagination": paginationEnvelope(total, page, limit),
		})
	}
}

// GetInvoice returns a single invoice with its derived status.
func GetInvoice(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var invoice models.Invoice
		if err := db.Preload("Items").First(&invoice, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Invoice not found"})
			return
		}

		if !policy.CanAccessInvoice(p, &invoice) {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		invoice.Status = policy.DeriveInvoiceStatus(&invoice, time.Now())

		c.JSON(200, invoice)
	}
}

// PayInvoice records payment and spawns the service order, both in one
// transaction. Payment confirmation itself comes from the billing
// collaborator; this endpoint is the trigger it calls.
func PayInvoice(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var invoice models.Invoice
		if err := db.First(&invoice, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Invoice not found"})
			return
		}

		if !policy.CanAccessInvoice(p, &invoice) {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		if err := policy.ValidateInvoiceTransition(p, &invoice, models.InvoiceStatusPaid); err != nil {
			respondError(c, err)
			return
		}

		if invoice.Status == models.InvoiceStatusPaid {
			c.JSON(200, invoice)
			return
		}

		tx := db.Begin()
		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
			}
		}()

		result := tx.Model(&models.Invoice{}).
			Where("id = ? AND status IN ?", invoice.ID, []models.InvoiceStatus{models.InvoiceStatusPending, models.InvoiceStatusOverdue}).
			Update("status", models.InvoiceStatusPaid)
		if result.Error != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to update invoice"})
			return
		}
		if result.RowsAffected == 0 {
			tx.Rollback()
			respondError(c, &policy.TransitionError{From: string(invoice.Status), To: string(models.InvoiceStatusPaid)})
			return
		}

		order := models.ServiceOrder{
			InvoiceID: invoice.ID,
			Status:    models.ServiceOrderConfirmed,
		}
		if err := tx.Create(&order).Error; err != nil {
			tx.Rollback()
			c.JSON(500, gin.H{"error": "Failed to create service order"})
			return
		}

		if err := tx.Commit().Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update invoice"})
			return
		}

		invoice.Status = models.InvoiceStatusPaid

		logrus.WithFields(logrus.Fields{
			"invoiceId": invoice.ID,
			"orderId":   order.ID,
			"actor":     p.ID,
		}).Info("invoice paid")

		c.JSON(200, gin.H{"invoice": invoice, "serviceOrder": order})
	}
}

// CancelInvoice voids a pending invoice.
func CancelInvoice(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var invoice models.Invoice
		if err := db.First(&invoice, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Invoice not found"})
			return
		}

		if !policy.CanAccessInvoice(p, &invoice) {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		if err := policy.ValidateInvoiceTransition(p, &invoice, models.InvoiceStatusCancelled); err != nil {
			respondError(c, err)
			return
		}

		if invoice.Status == models.InvoiceStatusCancelled {
			c.JSON(200, invoice)
			return
		}

		result := db.Model(&models.Invoice{}).
			Where("id = ? AND status IN ?", invoice.ID, []models.InvoiceStatus{models.InvoiceStatusPending, models.InvoiceStatusOverdue}).
			Update("status", models.InvoiceStatusCancelled)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to update invoice"})
			return
		}
		if result.RowsAffected == 0 {
			respondError(c, &policy.TransitionError{From: string(invoice.Status), To: string(models.InvoiceStatusCancelled)})
			return
		}

		invoice.Status = models.InvoiceStatusCancelled

		c.JSON(200, invoice)
	}
}

// SweepOverdueInvoices persists the derived overdue status for pending
// invoices past due. Admin-only; meant for a periodic caller.
func SweepOverdueInvoices(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Model(&models.Invoice{}).
			Where("status = ? AND due_date < ?", models.InvoiceStatusPending, time.Now()).
			Update("status", models.InvoiceStatusOverdue)
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to sweep invoices"})
			return
		}

		c.JSON(200, gin.H{"updated": result.RowsAffected})
	}
}
