package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/banquethub/banquethub-backend/internal/middleware"
	"github.com/banquethub/banquethub-backend/internal/models"
	"github.com/banquethub/banquethub-backend/internal/policy"
	"github.com/banquethub/banquethub-backend/pkg/utils"
)

// SendNotification emails a user. Policy is deliberately strict:
// admins, or a user notifying themselves. Delivery is best-effort;
// a failed send still returns success once the request is accepted.
func SendNotification(db *gorm.DB, mailer *utils.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)

		var input struct {
			UserID  uint   `json:"userId"`
			Email   string `json:"email"`
			Subject string `json:"subject" binding:"required"`
			Message string `json:"message" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.UserID == 0 && input.Email == "" {
			c.JSON(400, gin.H{"error": "userId or email is required"})
			return
		}

		// Resolve the recipient so the policy check runs against a
		// concrete identity, whichever way it was addressed.
		var recipient models.User
		var err error
		if input.UserID != 0 {
			err = db.First(&recipient, input.UserID).Error
		} else {
			err = db.Where("email = ?", input.Email).First(&recipient).Error
		}
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(404, gin.H{"error": "Recipient not found"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to resolve recipient"})
			return
		}

		if !policy.CanSendNotification(p, recipient.ID) {
			c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
			return
		}

		if err := mailer.SendGenericNotificationEmail(recipient.Email, input.Subject, input.Message); err != nil {
			logrus.WithError(err).WithField("recipient", recipient.ID).Warn("notification email failed")
		}

		logrus.WithFields(logrus.Fields{
			"actor":     p.ID,
			"recipient": recipient.ID,
		}).Info("notification requested")

		c.JSON(200, gin.H{"message": "Notification queued"})
	}
}
