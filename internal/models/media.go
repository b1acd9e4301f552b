package models

import (
	"gorm.io/gorm"
)

type ReferenceType string

const (
	ReferenceVenue   ReferenceType = "venue"
	ReferenceBooking ReferenceType = "booking"
	ReferenceUser    ReferenceType = "user"
	ReferenceProfile ReferenceType = "profile"
)

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaOther MediaType = "other"
)

// Media is an uploaded file attached to a venue, booking or profile.
// Ownership is derived transitively through the reference: venue media
// belongs to the venue's vendor, booking media to the booking parties.
type Media struct {
	gorm.Model
	ReferenceID   uint          `json:"referenceId" gorm:"not null;index"`
	ReferenceType ReferenceType `json:"referenceType" gorm:"not null"`
	MediaType     MediaType     `json:"mediaType" gorm:"not null;default:'image'"`
	URL           string        `json:"url" gorm:"not null"`
	Filename      string        `json:"filename"`
	Mimetype      string        `json:"mimetype"`
	CreatedBy     uint          `json:"createdBy" gorm:"not null;index"`
	IsPublic      bool          `json:"isPublic" gorm:"not null;default:false"`
}

// TableName specifies the table name
func (Media) TableName() string {
	return "media"
}
