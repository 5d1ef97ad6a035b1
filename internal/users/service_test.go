package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/snapshot"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/users/domain"
)

func testStore(t *testing.T) snapshot.Store {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return snapshot.NewRedisStore(client)
}

func rosterServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func downServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLoginMatchesEmailCaseInsensitive(t *testing.T) {
	store := testStore(t)
	server := rosterServer(t, `[{"id":"u1","email":"Demo@NextStop.com","name":"Demo","role":"admin"}]`)

	svc := NewService(NewClient(server.URL), NewRegistryClient(server.URL), store)
	session, err := svc.Login(context.Background(), "demo@nextstop.com")
	require.NoError(t, err)

	assert.Equal(t, "u1", session.User.ID)
	assert.Equal(t, domain.RoleAdmin, session.User.Role)
	assert.NotEmpty(t, session.Token)

	// the session is persisted for the middleware to pick up
	persisted, err := store.GetSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", persisted.User.ID)
}

func TestLoginUnknownEmail(t *testing.T) {
	store := testStore(t)
	server := rosterServer(t, `[]`)

	svc := NewService(NewClient(server.URL), NewRegistryClient(server.URL), store)
	_, err := svc.Login(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestLoginFallsBackToCachedRoster(t *testing.T) {
	store := testStore(t)
	require.NoError(t, store.SetRoster(context.Background(), []domain.User{
		{ID: "u9", Email: "cached@x.com", Role: domain.RoleUser},
	}))

	server := downServer(t)
	svc := NewService(NewClient(server.URL), NewRegistryClient(server.URL), store)

	session, err := svc.Login(context.Background(), "cached@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u9", session.User.ID)
}

func TestRegisterFallsBackToLocalAccount(t *testing.T) {
	store := testStore(t)
	registry := downServer(t)
	users := downServer(t)

	svc := NewService(NewClient(users.URL), NewRegistryClient(registry.URL), store)

	user, err := svc.Register(context.Background(), "Ana", "ana@x.com")
	require.NoError(t, err)

	assert.True(t, user.Local)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)

	// the fabricated account lands in the roster, so login works next
	session, err := svc.Login(context.Background(), "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)
}

func TestRegisterPrefersRemote(t *testing.T) {
	store := testStore(t)
	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"remote-1","email":"ana@x.com","name":"Ana"}`))
	}))
	defer registry.Close()

	svc := NewService(NewClient(registry.URL), NewRegistryClient(registry.URL), store)
	user, err := svc.Register(context.Background(), "Ana", "ana@x.com")
	require.NoError(t, err)

	assert.Equal(t, "remote-1", user.ID)
	assert.False(t, user.Local)
}

func TestSeedDemoOnlyOnEmptyRoster(t *testing.T) {
	store := testStore(t)
	server := downServer(t)
	svc := NewService(NewClient(server.URL), NewRegistryClient(server.URL), store)

	require.NoError(t, svc.SeedDemo(context.Background()))
	roster, err := store.GetRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, roster, 3)

	// an existing roster is never overwritten
	require.NoError(t, store.SetRoster(context.Background(), roster[:1]))
	require.NoError(t, svc.SeedDemo(context.Background()))
	roster, err = store.GetRoster(context.Background())
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}

func TestLogoutIsIdempotent(t *testing.T) {
	store := testStore(t)
	server := downServer(t)
	svc := NewService(NewClient(server.URL), NewRegistryClient(server.URL), store)

	require.NoError(t, svc.Logout(context.Background()))
	require.NoError(t, svc.Logout(context.Background()))
}
