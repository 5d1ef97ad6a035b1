package http

import (
	"github.com/gin-gonic/gin"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/api/http/middleware"
	userdomain "github.com/NextStop-25-26J/nextstop-gateway/internal/users/domain"
)

// Register registers the place catalog routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/categories", h.Categories)
	rg.GET("/:id", h.Get)

	moderators := middleware.RequireRole(userdomain.RoleModerator, userdomain.RoleAdmin)
	rg.PUT("/:id", moderators, h.Update)
	rg.DELETE("/:id", moderators, h.Delete)
	rg.POST("/:id/accept", moderators, h.Accept)
	rg.POST("/:id/reject", moderators, h.Reject)
}
