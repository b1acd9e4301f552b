package models

import (
	"time"

	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "pending"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Invoice is created from an accepted quote. Items and totals are
// copied verbatim from the quote at creation time.
type Invoice struct {
	gorm.Model
	InvoiceNumber     string        `json:"invoiceNumber" gorm:"uniqueIndex;not null"`
	QuoteID           *uint         `json:"quoteId,omitempty" gorm:"index"`
	ServiceProviderID uint          `json:"serviceProviderId" gorm:"not null;index"`
	UserID            uint          `json:"userId" gorm:"not null;index"`
	TotalAmount       float64       `json:"totalAmount" gorm:"not null"`
	Status            InvoiceStatus `json:"status" gorm:"not null;default:'pending'"`
	DueDate           time.Time     `json:"dueDate" gorm:"not null"`
	Items             []InvoiceItem `json:"items,omitempty" gorm:"foreignKey:InvoiceID"`
}

// TableName specifies the table name
func (Invoice) TableName() string {
	return "invoices"
}

type InvoiceItem struct {
	gorm.Model
	InvoiceID uint    `json:"invoiceId" gorm:"not null;index"`
	ItemName  string  `json:"itemName" gorm:"not null"`
	Quantity  int     `json:"quantity" gorm:"not null;default:1"`
	UnitPrice float64 `json:"unitPrice" gorm:"not null"`
}

// TableName specifies the table name
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

type ServiceOrderStatus string

const (
	ServiceOrderConfirmed  ServiceOrderStatus = "confirmed"
	ServiceOrderInProgress ServiceOrderStatus = "in_progress"
	ServiceOrderCompleted  ServiceOrderStatus = "completed"
	ServiceOrderCancelled  ServiceOrderStatus = "cancelled"
)

// ServiceOrder is spawned when its invoice is paid, 1:1 with the
// invoice.
type ServiceOrder struct {
	gorm.Model
	InvoiceID uint               `json:"invoiceId" gorm:"not null;uniqueIndex"`
	Status    ServiceOrderStatus `json:"status" gorm:"not null;default:'confirmed'"`
}

// TableName specifies the table name
func (ServiceOrder) TableName() string {
	return "service_orders"
}
