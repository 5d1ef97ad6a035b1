package http

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/api/http/middleware"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/notifications"
)

// BadgeSource is the synchronizer's in-memory copy of the session user's
// notifications, refreshed on its own poll interval.
type BadgeSource interface {
	Badge() ([]notifications.Notification, int)
}

// Handler serves per-user notifications. Every route needs a session: the
// service is addressed by email, and without one there is nobody to ask
// about. Mutations re-fetch the list before responding so the UI always
// renders the post-mutation state in one round trip.
type Handler struct {
	client *notifications.Client
	badge  BadgeSource
}

func NewHandler(client *notifications.Client, badge BadgeSource) *Handler {
	return &Handler{client: client, badge: badge}
}

// Badge answers the navbar counter from the synchronizer's copy, without a
// round trip to the notifications service.
func (h *Handler) Badge(c *gin.Context) {
	_, unread := h.badge.Badge()
	c.JSON(http.StatusOK, gin.H{"unread": unread})
}

// List returns the session user's notifications plus the unread count. A
// down notifications service degrades to an empty list.
func (h *Handler) List(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, h.listPayload(c.Request.Context(), user.Email))
}

// MarkRead marks one notification read and returns the refreshed list.
func (h *Handler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.client.MarkRead(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to mark notification as read"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, h.listPayload(c.Request.Context(), user.Email))
}

// Delete removes one notification and returns the refreshed list.
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.client.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to delete notification"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, h.listPayload(c.Request.Context(), user.Email))
}

func (h *Handler) listPayload(ctx context.Context, email string) gin.H {
	notifs, err := h.client.ListByUser(ctx, email)
	if err != nil {
		log.Printf("Warning: failed to fetch notifications for %s: %v", email, err)
		notifs = []notifications.Notification{}
	}

	unread := 0
	for _, n := range notifs {
		if n.Unread() {
			unread++
		}
	}
	return gin.H{"notifications": notifs, "unread": unread}
}
