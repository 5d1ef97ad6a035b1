package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/agent"
)

// Handler proxies the AI assistant. Responses are always 200: the bridge
// contract carries its own error variant, so a broken bridge is a payload,
// not an HTTP failure.
type Handler struct {
	client *agent.Client
}

func NewHandler(client *agent.Client) *Handler {
	return &Handler{client: client}
}

// Chat forwards a user message to the bridge.
func (h *Handler) Chat(c *gin.Context) {
	var body struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, h.client.Chat(c.Request.Context(), body.Message))
}

// Status reports the bridge's health and knowledge counters.
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.client.GetStatus(c.Request.Context()))
}

// Register registers the assistant routes
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/chat", h.Chat)
	rg.GET("/status", h.Status)
}
