package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/banquethub/banquethub-backend/internal/middleware"
	"github.com/banquethub/banquethub-backend/internal/services"
)

// WebSocketHandler handles WebSocket connections
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.GetPrincipal(c)
		services.HandleWebSocket(hub, c.Writer, c.Request, p.ID, string(p.Role))
	}
}
