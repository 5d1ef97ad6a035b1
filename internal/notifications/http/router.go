package http

import (
	"github.com/gin-gonic/gin"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/api/http/middleware"
)

// Register registers the notification routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.Use(middleware.RequireSession())
	rg.GET("", h.List)
	rg.GET("/badge", h.Badge)
	rg.PUT("/:id/read", h.MarkRead)
	rg.DELETE("/:id", h.Delete)
}
