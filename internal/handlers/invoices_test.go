package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/banquethub/banquethub-backend/internal/models"
)

func invoiceRouter(db *gorm.DB) *gin.Engine {
	return newTestRouter(func(r *gin.RouterGroup) {
		r.GET("/invoices/:id", GetInvoice(db))
		r.POST("/invoices/:id/pay", PayInvoice(db))
		r.POST("/invoices/:id/cancel", CancelInvoice(db))
	})
}

func seedInvoice(t *testing.T, db *gorm.DB, status models.InvoiceStatus) *models.Invoice {
	t.Helper()
	invoice := &models.Invoice{
		InvoiceNumber:     fmt.Sprintf("INV-%s-%s", t.Name(), status),
		ServiceProviderID: 30,
		UserID:            10,
		TotalAmount:       1200,
		Status:            status,
		DueDate:           time.Now().Add(7 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(invoice).Error)
	return invoice
}

func TestPayInvoiceCreatesServiceOrder(t *testing.T) {
	db := openTestDB(t, &models.Invoice{}, &models.InvoiceItem{}, &models.ServiceOrder{})
	r := invoiceRouter(db)
	invoice := seedInvoice(t, db, models.InvoiceStatusPending)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/invoices/%d/pay", invoice.ID), nil)
	asPrincipal(req, models.Principal{ID: 10, Role: models.RoleUser})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Invoice
	require.NoError(t, db.First(&stored, invoice.ID).Error)
	assert.Equal(t, models.InvoiceStatusPaid, stored.Status)

	var order models.ServiceOrder
	require.NoError(t, db.Where("invoice_id = ?", invoice.ID).First(&order).Error)
	assert.Equal(t, models.ServiceOrderConfirmed, order.Status)
}

func TestPayInvoiceDeniedToNonParties(t *testing.T) {
	db := openTestDB(t, &models.Invoice{}, &models.InvoiceItem{}, &models.ServiceOrder{})
	r := invoiceRouter(db)

	tests := []struct {
		name      string
		status    models.InvoiceStatus
		principal models.Principal
	}{
		{"stranger on pending", models.InvoiceStatusPending, models.Principal{ID: 11, Role: models.RoleUser}},
		// The no-op path must not leak the invoice body either.
		{"stranger on already paid", models.InvoiceStatusPaid, models.Principal{ID: 11, Role: models.RoleUser}},
		{"other provider on pending", models.InvoiceStatusPending, models.Principal{ID: 31, Role: models.RoleServiceProvider}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoice := seedInvoice(t, db, tt.status)

			req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/invoices/%d/pay", invoice.ID), nil)
			asPrincipal(req, tt.principal)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.NotContains(t, w.Body.String(), "1200")
		})
	}
}

func TestPayInvoiceAlreadyPaidIsNoOpForParties(t *testing.T) {
	db := openTestDB(t, &models.Invoice{}, &models.InvoiceItem{}, &models.ServiceOrder{})
	r := invoiceRouter(db)
	invoice := seedInvoice(t, db, models.InvoiceStatusPaid)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/invoices/%d/pay", invoice.ID), nil)
	asPrincipal(req, models.Principal{ID: 10, Role: models.RoleUser})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// No second service order from the no-op.
	var count int64
	require.NoError(t, db.Model(&models.ServiceOrder{}).Where("invoice_id = ?", invoice.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCancelInvoiceDeniedToStrangers(t *testing.T) {
	db := openTestDB(t, &models.Invoice{}, &models.InvoiceItem{}, &models.ServiceOrder{})
	r := invoiceRouter(db)

	for _, status := range []models.InvoiceStatus{models.InvoiceStatusPending, models.InvoiceStatusCancelled} {
		invoice := seedInvoice(t, db, status)

		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/invoices/%d/cancel", invoice.ID), nil)
		asPrincipal(req, models.Principal{ID: 99, Role: models.RoleVendor})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code, string(status))
	}
}

func TestCancelInvoiceByProvider(t *testing.T) {
	db := openTestDB(t, &models.Invoice{}, &models.InvoiceItem{}, &models.ServiceOrder{})
	r := invoiceRouter(db)
	invoice := seedInvoice(t, db, models.InvoiceStatusPending)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/invoices/%d/cancel", invoice.ID), nil)
	asPrincipal(req, models.Principal{ID: 30, Role: models.RoleServiceProvider})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Invoice
	require.NoError(t, db.First(&stored, invoice.ID).Error)
	assert.Equal(t, models.InvoiceStatusCancelled, stored.Status)
}
