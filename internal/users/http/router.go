package http

import (
	"github.com/gin-gonic/gin"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/api/http/middleware"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/users/domain"
)

// RegisterRoutes registers the auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/register", h.Register)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", h.Me)
}

// Register registers the user admin routes
func (h *UserHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", middleware.RequireRole(domain.RoleAdmin), h.List)
	rg.GET("/:id", middleware.RequireSession(), h.Get)
	rg.PUT("/:id", middleware.RequireSession(), h.Update)
}
