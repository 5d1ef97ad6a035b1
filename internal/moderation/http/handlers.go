package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/api/http/middleware"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/moderation"
	userdomain "github.com/NextStop-25-26J/nextstop-gateway/internal/users/domain"
)

// Kicker requests an immediate synchronizer pass after a mutation.
type Kicker interface {
	Kick()
}

// Handler serves the moderation queue and dashboard.
type Handler struct {
	client *moderation.Client
	sync   Kicker
}

func NewHandler(client *moderation.Client, sync Kicker) *Handler {
	return &Handler{client: client, sync: sync}
}

// Pending returns the places awaiting review.
func (h *Handler) Pending(c *gin.Context) {
	pending, err := h.client.Pending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch pending places"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": pending})
}

// Act approves or rejects a place through the moderation service.
func (h *Handler) Act(c *gin.Context) {
	var body moderation.ActionRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if body.PlaceID == "" || (body.Action != "approve" && body.Action != "reject") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "placeId and action (approve|reject) are required"})
		return
	}

	result, err := h.client.Act(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to apply moderation action"})
		return
	}

	h.sync.Kick()
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Stats returns the aggregate dashboard counters.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.client.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch moderation stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// Register registers the moderation routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.Use(middleware.RequireRole(userdomain.RoleModerator, userdomain.RoleAdmin))
	rg.GET("/pending", h.Pending)
	rg.POST("/action", h.Act)
	rg.GET("/stats", h.Stats)
}
