package models

import (
	"time"

	"gorm.io/gorm"
)

type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusViewed   QuoteStatus = "viewed"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
	QuoteStatusInvoiced QuoteStatus = "invoiced"
)

// Quote is a service provider's priced offer to a user.
type Quote struct {
	gorm.Model
	QuoteNumber       string      `json:"quoteNumber" gorm:"uniqueIndex;not null"`
	QuoteRequestID    *uint       `json:"quoteRequestId,omitempty"`
	ServiceProviderID uint        `json:"serviceProviderId" gorm:"not null;index"`
	ServiceProvider   *User       `json:"serviceProvider,omitempty" gorm:"foreignKey:ServiceProviderID"`
	UserID            uint        `json:"userId" gorm:"not null;index"`
	User              *User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	TotalAmount       float64     `json:"totalAmount" gorm:"not null"`
	Status            QuoteStatus `json:"status" gorm:"not null;default:'draft'"`
	ValidUntil        time.Time   `json:"validUntil" gorm:"not null"`
	Items             []QuoteItem `json:"items,omitempty" gorm:"foreignKey:QuoteID"`
}

// TableName specifies the table name
func (Quote) TableName() string {
	return "quotes"
}

type QuoteItem struct {
	gorm.Model
	QuoteID   uint    `json:"quoteId" gorm:"not null;index"`
	ItemName  string  `json:"itemName" gorm:"not null"`
	Quantity  int     `json:"quantity" gorm:"not null;default:1"`
	UnitPrice float64 `json:"unitPrice" gorm:"not null"`
}

// TableName specifies the table name
func (QuoteItem) TableName() string {
	return "quote_items"
}
