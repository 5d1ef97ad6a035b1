package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/api/http/middleware"
	placedomain "github.com/NextStop-25-26J/nextstop-gateway/internal/places/domain"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/snapshot"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/solicitudes"
	soldomain "github.com/NextStop-25-26J/nextstop-gateway/internal/solicitudes/domain"
	userdomain "github.com/NextStop-25-26J/nextstop-gateway/internal/users/domain"
)

type kickCounter struct{ kicks int }

func (k *kickCounter) Kick() { k.kicks++ }

func setupRouter(t *testing.T, upstream string) (*gin.Engine, snapshot.Store, *kickCounter) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	store := snapshot.NewRedisStore(client)

	kicker := &kickCounter{}
	handler := NewHandler(solicitudes.NewClient(upstream), store, kicker)

	r := gin.New()
	r.Use(middleware.WithSession(store))
	handler.Register(r.Group("/api/v1/requests"))
	return r, store, kicker
}

func login(t *testing.T, store snapshot.Store, role string) {
	t.Helper()
	require.NoError(t, store.SetSession(context.Background(), userdomain.Session{
		Token: "t",
		User:  userdomain.User{ID: "u1", Email: "ana@x.com", Role: role},
	}))
}

func TestListProjectsSolicitudesAsPlaces(t *testing.T) {
	r, store, _ := setupRouter(t, "http://127.0.0.1:1")
	require.NoError(t, store.SetSolicitudes(context.Background(), []soldomain.Solicitud{
		{ID: 7, Nombre: "Café Centro", Categoria: "Restaurante", Ubicacion: "Centro", Estado: "pendiente"},
		{ID: 8, Nombre: "Mirador Sur", Categoria: "Mirador", Ubicacion: "Sur", Estado: "aceptada"},
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/requests", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Requests []placedomain.Place `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Requests, 2)

	assert.Equal(t, "7", body.Requests[0].ID)
	assert.Equal(t, "Categoría: Restaurante - Ubicación: Centro", body.Requests[0].Description)
	assert.Equal(t, "restaurant", body.Requests[0].Category)
	assert.Equal(t, "pending", body.Requests[0].Status)
	assert.Equal(t, "approved", body.Requests[1].Status)
}

func TestListFiltersByStatus(t *testing.T) {
	r, store, _ := setupRouter(t, "http://127.0.0.1:1")
	require.NoError(t, store.SetSolicitudes(context.Background(), []soldomain.Solicitud{
		{ID: 1, Estado: "pendiente"},
		{ID: 2, Estado: "rechazada"},
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/requests?status=rejected", nil))

	var body struct {
		Requests []placedomain.Place `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Requests, 1)
	assert.Equal(t, "2", body.Requests[0].ID)
}

func TestCreateUsesSessionEmail(t *testing.T) {
	var gotBody map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/solicitudes/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":42,"mensaje":"creada"}`))
	}))
	defer upstream.Close()

	r, store, kicker := setupRouter(t, upstream.URL)
	login(t, store, userdomain.RoleUser)

	payload := `{"nombre":"Café Centro","categoria":"Restaurante","ubicacion":"Centro","user_email":"spoofed@x.com"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "ana@x.com", gotBody["user_email"], "session email must override the body")
	assert.Equal(t, 1, kicker.kicks)
}

func TestCreateRequiresSession(t *testing.T) {
	r, _, _ := setupRouter(t, "http://127.0.0.1:1")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(`{"nombre":"x","categoria":"y","ubicacion":"z"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApproveRequiresAdmin(t *testing.T) {
	r, store, _ := setupRouter(t, "http://127.0.0.1:1")
	login(t, store, userdomain.RoleModerator)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/requests/7/approve", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApproveProxiesAndKicks(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/solicitudes/7/aprobar", r.URL.Path)
		require.Equal(t, http.MethodPut, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	r, store, kicker := setupRouter(t, upstream.URL)
	login(t, store, userdomain.RoleAdmin)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/requests/7/approve", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, kicker.kicks)
}

// The admin dashboard feeds the id from the list straight back into the
// decision endpoints, so the round trip has to work, and the prefixed form
// the profile page renders has to keep working too.
func TestApproveAcceptsListedAndPrefixedIDs(t *testing.T) {
	var approved []string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		approved = append(approved, r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	r, store, _ := setupRouter(t, upstream.URL)
	login(t, store, userdomain.RoleAdmin)
	require.NoError(t, store.SetSolicitudes(context.Background(), []soldomain.Solicitud{
		{ID: 7, Nombre: "Café Centro", Categoria: "Restaurante", Ubicacion: "Centro", Estado: "pendiente"},
	}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/requests", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Requests []placedomain.Place `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Requests, 1)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/requests/"+body.Requests[0].ID+"/approve", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/api/v1/requests/sol-7/approve", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []string{"/solicitudes/7/aprobar", "/solicitudes/7/aprobar"}, approved)
}
