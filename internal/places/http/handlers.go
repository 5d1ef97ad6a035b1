package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/normalize"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/places"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/places/domain"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/snapshot"
)

// Kicker requests an immediate synchronizer pass after a mutation, so the
// snapshot catches up before the next poll tick.
type Kicker interface {
	Kick()
}

// Handler serves the place catalog. Reads come from the snapshot; every
// mutation proxies to the places service and then kicks the synchronizer.
type Handler struct {
	client *places.Client
	store  snapshot.Store
	sync   Kicker
}

func NewHandler(client *places.Client, store snapshot.Store, sync Kicker) *Handler {
	return &Handler{client: client, store: store, sync: sync}
}

// List returns the cached places, optionally filtered by canonical
// category and status. A cold snapshot answers empty and kicks a sync
// rather than blocking on the backend.
func (h *Handler) List(c *gin.Context) {
	cached, err := h.store.GetPlaces(c.Request.Context())
	if err != nil {
		if !errors.Is(err, snapshot.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read places"})
			return
		}
		h.sync.Kick()
		c.JSON(http.StatusOK, gin.H{"places": []domain.Place{}})
		return
	}

	category := normalize.Category(c.Query("category"))
	status := normalize.Status(c.Query("status"))
	if c.Query("status") == "" {
		status = ""
	}

	filtered := make([]domain.Place, 0, len(cached))
	for _, p := range cached {
		if category != "" && p.Category != category {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		filtered = append(filtered, p)
	}

	c.JSON(http.StatusOK, gin.H{"places": filtered})
}

// Categories returns the canonical categories plus any extra value observed
// in the snapshot, so a backend that invents a category still gets a filter
// chip.
func (h *Handler) Categories(c *gin.Context) {
	categories := append([]string(nil), normalize.DefaultCategories...)
	seen := make(map[string]bool, len(categories))
	for _, cat := range categories {
		seen[cat] = true
	}

	cached, err := h.store.GetPlaces(c.Request.Context())
	if err == nil {
		for _, p := range cached {
			if p.Category != "" && !seen[p.Category] {
				seen[p.Category] = true
				categories = append(categories, p.Category)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Get fetches one place, remote-first with the snapshot as fallback so a
// detail view still renders while the places service is down.
func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")

	place, err := h.client.Get(c.Request.Context(), id)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"place": place})
		return
	}
	if errors.Is(err, domain.ErrPlaceNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
		return
	}

	cached, cacheErr := h.store.GetPlaces(c.Request.Context())
	if cacheErr == nil {
		for i := range cached {
			if cached[i].ID == id {
				c.JSON(http.StatusOK, gin.H{"place": cached[i], "stale": true})
				return
			}
		}
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch place"})
}

// Update forwards a partial edit to the places service.
func (h *Handler) Update(c *gin.Context) {
	var body domain.UpdatePlaceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	place, err := h.client.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		if errors.Is(err, domain.ErrPlaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to update place"})
		return
	}

	h.sync.Kick()
	c.JSON(http.StatusOK, gin.H{"place": place})
}

// Delete removes a place.
func (h *Handler) Delete(c *gin.Context) {
	if err := h.client.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrPlaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to delete place"})
		return
	}

	h.sync.Kick()
	c.JSON(http.StatusOK, gin.H{"message": "place deleted"})
}

// Accept approves a pending place.
func (h *Handler) Accept(c *gin.Context) {
	h.moderate(c, h.client.Accept, "place accepted")
}

// Reject rejects a pending place.
func (h *Handler) Reject(c *gin.Context) {
	h.moderate(c, h.client.Reject, "place rejected")
}

func (h *Handler) moderate(c *gin.Context, action func(ctx context.Context, id string) error, message string) {
	if err := action(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrPlaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "place not found"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to moderate place"})
		return
	}

	h.sync.Kick()
	c.JSON(http.StatusOK, gin.H{"message": message})
}
