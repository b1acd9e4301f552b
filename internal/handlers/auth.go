package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/banquethub/banquethub-backend/internal/config"
	"github.com/banquethub/banquethub-backend/internal/models"
	"github.com/banquethub/banquethub-backend/pkg/utils"
)

// Register creates a new account. Admin accounts cannot be
// self-registered.
func Register(db *gorm.DB, cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Username    string `json:"username" binding:"required"`
			Email       string `json:"email" binding:"required,email"`
			Password    string `json:"password" binding:"required,min=8"`
			PhoneNumber string `json:"phoneNumber"`
			Role        string `json:"role" binding:"omitempty,oneof=user vendor service_provider"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		role := models.RoleUser
		if input.Role != "" {
			role = models.Role(input.Role)
		}

		user := models.User{
			Username:    input.Username,
			Email:       input.Email,
			Password:    input.Password,
			PhoneNumber: input.PhoneNumber,
			Role:        role,
			KycStatus:   models.KycPending,
		}

		if err := user.HashPassword(); err != nil {
			c.JSON(500, gin.H{"error": "Failed to process password"})
			return
		}

		if err := db.Create(&user).Error; err != nil {
			c.JSON(409, gin.H{"error": "Username or email already in use"})
			return
		}

		token, err := utils.GenerateToken(&user, cfg.Secret, cfg.Expiration)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		logrus.WithFields(logrus.Fields{"userId": user.ID, "role": user.Role}).Info("user registered")

		c.JSON(201, gin.H{
			"token": token,
			"user": gin.H{
				"id":        user.ID,
				"username":  user.Username,
				"email":     user.Email,
				"role":      user.Role,
				"kycStatus": user.KycStatus,
			},
		})
	}
}

// Login authenticates with email and password and issues a JWT.
func Login(db *gorm.DB, cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.Where("email = ?", input.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(401, gin.H{"error": "Invalid credentials"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to look up user"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateToken(&user, cfg.Secret, cfg.Expiration)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"user": gin.H{
				"id":        user.ID,
				"username":  user.Username,
				"email":     user.Email,
				"role":      user.Role,
				"kycStatus": user.KycStatus,
			},
		})
	}
}
