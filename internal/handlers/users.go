package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/banquethub/banquethub-backend/internal/middleware"
	"github.com/banquethub/banquethub-backend/internal/models"
)

// GetProfile returns the authenticated user's profile.
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		var user models.User
		if err := db.First(&user, p.ID).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"phoneNumber": user.PhoneNumber,
			"role":        user.Role,
			"kycStatus":   user.KycStatus,
		})
	}
}

// GetUser returns a user by id. Exposed for sibling services that
// resolve notification recipients; restricted to the user themselves
// and admins.
func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		if !p.IsAdmin() && p.ID != id {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, user)
	}
}

// UpdateProfile updates the mutable profile fields.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		var input struct {
			Username    string `json:"username"`
			PhoneNumber string `json:"phoneNumber"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, p.ID).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if input.Username != "" {
			user.Username = input.Username
		}
		if input.PhoneNumber != "" {
			user.PhoneNumber = input.PhoneNumber
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		c.JSON(200, gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"phoneNumber": user.PhoneNumber,
			"role":        user.Role,
			"kycStatus":   user.KycStatus,
		})
	}
}

// UpdateKycStatus lets an admin move a vendor or provider through KYC.
func UpdateKycStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var input struct {
			KycStatus string `json:"kycStatus" binding:"required,oneof=pending submitted approved rejected"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		user.KycStatus = models.KycStatus(input.KycStatus)
		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update KYC status"})
			return
		}

		c.JSON(200, gin.H{"id": user.ID, "kycStatus": user.KycStatus})
	}
}
