package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/banquethub/banquethub-backend/internal/middleware"
	"github.com/banquethub/banquethub-backend/internal/models"
	"github.com/banquethub/banquethub-backend/internal/policy"
	"github.com/banquethub/banquethub-backend/internal/services"
)

func validReferenceType(t models.ReferenceType) bool {
	switch t {
	case models.ReferenceVenue, models.ReferenceBooking, models.ReferenceUser, models.ReferenceProfile:
		return true
	}
	return false
}

// mediaContext resolves the referenced record a media ownership
// decision needs, in the same request as the decision itself.
func mediaContext(db *gorm.DB, media *models.Media) (policy.MediaContext, error) {
	var ctx policy.MediaContext
	switch media.ReferenceType {
	case models.ReferenceVenue:
		var venue models.Venue
		if err := db.First(&venue, media.ReferenceID).Error; err == nil {
			ctx.Venue = &venue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx, err
		}
	case models.ReferenceBooking:
		var booking models.Booking
		if err := db.First(&booking, media.ReferenceID).Error; err == nil {
			ctx.Booking = &booking
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx, err
		}
	}
	return ctx, nil
}

// UploadMedia stores a file and records it against its reference. The
// uploader must own the referenced resource.
func UploadMedia(db *gorm.DB, storage *services.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(400, gin.H{"error": "file is required"})
			return
		}

		referenceID, err := strconv.ParseUint(c.PostForm("referenceId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "referenceId must be a number", "details": gin.H{"field": "referenceId"}})
			return
		}

		referenceType := models.ReferenceType(c.PostForm("referenceType"))
		if !validReferenceType(referenceType) {
			c.JSON(400, gin.H{"error": "invalid referenceType", "details": gin.H{"field": "referenceType"}})
			return
		}

		mediaType := models.MediaType(c.DefaultPostForm("mediaType", string(models.MediaImage)))
		isPublic := c.PostForm("isPublic") == "true"

		media := models.Media{
			ReferenceID:   uint(referenceID),
			ReferenceType: referenceType,
			MediaType:     mediaType,
			Filename:      file.Filename,
			CreatedBy:     p.ID,
			IsPublic:      isPublic,
		}

		// Uploading requires the same ownership as a private read.
		refCtx, err := mediaContext(db, &media)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to verify ownership"})
			return
		}
		var owned bool
		switch referenceType {
		case models.ReferenceVenue:
			owned = refCtx.Venue != nil && policy.CanManageVenue(p, refCtx.Venue)
		case models.ReferenceBooking:
			owned = refCtx.Booking != nil && policy.CanAccessBooking(p, refCtx.Booking)
		default:
			owned = p.IsAdmin() || uint(referenceID) == p.ID
		}
		if !owned {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		url, mimetype, err := storage.UploadMedia(file, string(referenceType))
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to store file"})
			return
		}

		media.URL = url
		media.Mimetype = mimetype

		if err := db.Create(&media).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to save media record"})
			return
		}

		c.JSON(201, media)
	}
}

// GetMedia returns a media record if the caller may see it. An
// existing record the caller may not see yields 403, not 404.
func GetMedia(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var media models.Media
		if err := db.First(&media, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Media not found"})
			return
		}

		refCtx, err := mediaContext(db, &media)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to verify ownership"})
			return
		}

		if !policy.CanAccessMedia(p, &media, refCtx) {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		c.JSON(200, media)
	}
}

// ListMediaByReference lists media attached to a resource.
func ListMediaByReference(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		referenceType := models.ReferenceType(c.Query("referenceType"))
		if !validReferenceType(referenceType) {
			c.JSON(400, gin.H{"error": "invalid referenceType", "details": gin.H{"field": "referenceType"}})
			return
		}
		referenceID, err := strconv.ParseUint(c.Query("referenceId"), 10, 32)
		if err != nil {
			c.JSON(400, gin.H{"error": "referenceId must be a number", "details": gin.H{"field": "referenceId"}})
			return
		}

		var items []models.Media
		if err := db.Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
			Find(&items).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch media"})
			return
		}

		// Filter to what the caller may see, one ownership resolution
		// for the whole reference.
		visible := make([]models.Media, 0, len(items))
		var refCtx policy.MediaContext
		if len(items) > 0 {
			refCtx, err = mediaContext(db, &items[0])
			if err != nil {
				c.JSON(500, gin.H{"error": "Failed to verify ownership"})
				return
			}
		}
		for _, m := range items {
			if policy.CanAccessMedia(p, &m, refCtx) {
				visible = append(visible, m)
			}
		}

		c.JSON(200, gin.H{"media": visible})
	}
}

// DeleteMedia removes a media record. Only the uploader or an admin.
func DeleteMedia(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var media models.Media
		if err := db.First(&media, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Media not found"})
			return
		}

		if !p.IsAdmin() && media.CreatedBy != p.ID {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		if err := db.Delete(&media).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete media"})
			return
		}

		c.JSON(200, gin.H{"message": "Media deleted"})
	}
}
