package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/banquethub/banquethub-backend/internal/policy"
	"github.com/banquethub/banquethub-backend/internal/services"
	"github.com/banquethub/banquethub-backend/pkg/utils"
)

// parsePagination reads page/limit query parameters with sane bounds.
func parsePagination(c *gin.Context) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

// paginationEnvelope builds the standard list metadata.
func paginationEnvelope(total int64, page, limit int) gin.H {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return gin.H{
		"total": total,
		"page":  page,
		"limit": limit,
		"pages": pages,
	}
}

// respondError maps the typed errors from policy, pricing and
// collaborator lookups onto the wire taxonomy. Anything unrecognized
// becomes a 500 without internal detail.
func respondError(c *gin.Context, err error) {
	var validationErr *utils.ValidationError
	var transitionErr *policy.TransitionError

	switch {
	case errors.Is(err, policy.ErrForbidden):
		c.JSON(403, gin.H{"error": "You are not allowed to perform this action"})
	case errors.Is(err, policy.ErrCancellationWindow):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, policy.ErrQuoteExpired):
		c.JSON(409, gin.H{"error": "Quote has expired"})
	case errors.As(err, &transitionErr):
		c.JSON(409, gin.H{
			"error":   transitionErr.Error(),
			"details": gin.H{"from": transitionErr.From, "to": transitionErr.To},
		})
	case errors.As(err, &validationErr):
		c.JSON(400, gin.H{"error": validationErr.Message, "details": gin.H{"field": validationErr.Field}})
	case errors.Is(err, services.ErrRecordNotFound):
		c.JSON(404, gin.H{"error": "Resource not found"})
	case errors.Is(err, services.ErrServiceUnavailable), errors.Is(err, services.ErrServiceTimeout):
		c.JSON(503, gin.H{"error": "A required service is unavailable, please retry"})
	default:
		c.JSON(500, gin.H{"error": "Internal server error"})
	}
}

// bearerFrom extracts the raw credential so outbound sibling-service
// calls can forward it.
func bearerFrom(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}
	return c.Query("token")
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
