package models

import (
	"gorm.io/gorm"
)

type PricingType string

const (
	PricingFlat    PricingType = "flat"
	PricingPerHead PricingType = "per_head"
)

// Venue represents a bookable banquet venue owned by a vendor.
type Venue struct {
	gorm.Model
	VendorID     uint        `json:"vendorId" gorm:"not null;index"`
	Vendor       *User       `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Name         string      `json:"name" gorm:"not null"`
	CategoryID   uint        `json:"categoryId"`
	Location     string      `json:"location"`
	Capacity     int         `json:"capacity" gorm:"not null"`
	PricingType  PricingType `json:"pricingType" gorm:"not null;default:'flat'"`
	FlatPrice    *float64    `json:"flatPrice,omitempty"`
	PerHeadPrice *float64    `json:"perHeadPrice,omitempty"`
	MinGuests    *int        `json:"minGuests,omitempty"`
	Description  string      `json:"description"`
	IsActive     bool        `json:"isActive" gorm:"not null;default:true"`
}

// TableName specifies the table name
func (Venue) TableName() string {
	return "venues"
}
