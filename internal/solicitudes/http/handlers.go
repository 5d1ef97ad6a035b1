package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/api/http/middleware"
	placedomain "github.com/NextStop-25-26J/nextstop-gateway/internal/places/domain"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/snapshot"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/solicitudes"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/solicitudes/domain"
)

// Kicker requests an immediate synchronizer pass after a mutation.
type Kicker interface {
	Kick()
}

// Handler serves place proposals. The snapshot answers the list reads;
// creation and decisions go straight to the solicitudes service and kick
// the synchronizer so the snapshot catches up.
type Handler struct {
	client *solicitudes.Client
	store  snapshot.Store
	sync   Kicker
}

func NewHandler(client *solicitudes.Client, store snapshot.Store, sync Kicker) *Handler {
	return &Handler{client: client, store: store, sync: sync}
}

// Create submits a proposal on behalf of the session user. The user_email
// always comes from the session, never from the request body.
func (h *Handler) Create(c *gin.Context) {
	var body domain.CreateSolicitud
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if body.Nombre == "" || body.Categoria == "" || body.Ubicacion == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nombre, categoria and ubicacion are required"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	body.UserEmail = user.Email

	ack, err := h.client.Create(c.Request.Context(), body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to submit request"})
		return
	}

	h.sync.Kick()
	c.JSON(http.StatusCreated, ack)
}

// List returns the cached solicitudes projected into the place shape the
// UI renders, optionally filtered by canonical status.
func (h *Handler) List(c *gin.Context) {
	cached, err := h.store.GetSolicitudes(c.Request.Context())
	if err != nil {
		if !errors.Is(err, snapshot.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read requests"})
			return
		}
		h.sync.Kick()
		c.JSON(http.StatusOK, gin.H{"requests": []placedomain.Place{}})
		return
	}

	status := c.Query("status")
	projected := make([]placedomain.Place, 0, len(cached))
	for _, sol := range cached {
		place := sol.AsPlace()
		if status != "" && place.Status != status {
			continue
		}
		projected = append(projected, place)
	}

	c.JSON(http.StatusOK, gin.H{"requests": projected})
}

// ListMine returns the session user's own proposals, straight from the
// solicitudes service so the submitter sees their change immediately.
func (h *Handler) ListMine(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	items, err := h.client.ListByUser(c.Request.Context(), user.Email, c.Query("estado"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch your requests"})
		return
	}

	projected := make([]placedomain.Place, 0, len(items))
	for _, sol := range items {
		projected = append(projected, sol.AsPlace())
	}
	c.JSON(http.StatusOK, gin.H{"requests": projected})
}

// Approve accepts a proposal.
func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.client.Approve, "request approved")
}

// Reject declines a proposal.
func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.client.Reject, "request rejected")
}

func (h *Handler) decide(c *gin.Context, action func(ctx context.Context, id int64) error, message string) {
	// Older clients send the prefixed id the profile page renders.
	raw := strings.TrimPrefix(c.Param("id"), "sol-")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	if err := action(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrSolicitudNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "request not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to decide request"})
		return
	}

	h.sync.Kick()
	c.JSON(http.StatusOK, gin.H{"message": message})
}
