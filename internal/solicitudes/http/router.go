package http

import (
	"github.com/gin-gonic/gin"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/api/http/middleware"
	userdomain "github.com/NextStop-25-26J/nextstop-gateway/internal/users/domain"
)

// Register registers the place proposal routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", middleware.RequireSession(), h.Create)
	rg.GET("", h.List)
	rg.GET("/my", middleware.RequireSession(), h.ListMine)

	admins := middleware.RequireRole(userdomain.RoleAdmin)
	rg.PUT("/:id/approve", admins, h.Approve)
	rg.PUT("/:id/reject", admins, h.Reject)
}
