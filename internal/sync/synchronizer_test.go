package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/notifications"
	placedomain "github.com/NextStop-25-26J/nextstop-gateway/internal/places/domain"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/snapshot"
	soldomain "github.com/NextStop-25-26J/nextstop-gateway/internal/solicitudes/domain"
	userdomain "github.com/NextStop-25-26J/nextstop-gateway/internal/users/domain"
)

type stubPlaces struct {
	fn func(ctx context.Context, status string) ([]placedomain.Place, error)
}

func (s *stubPlaces) List(ctx context.Context, status string) ([]placedomain.Place, error) {
	return s.fn(ctx, status)
}

type stubSolicitudes struct {
	fn func(ctx context.Context, estado string) ([]soldomain.Solicitud, error)
}

func (s *stubSolicitudes) ListByEstado(ctx context.Context, estado string) ([]soldomain.Solicitud, error) {
	return s.fn(ctx, estado)
}

type stubRoster struct {
	fn func(ctx context.Context) ([]userdomain.User, error)
}

func (s *stubRoster) List(ctx context.Context) ([]userdomain.User, error) {
	return s.fn(ctx)
}

type stubNotifs struct {
	fn func(ctx context.Context, email string) ([]notifications.Notification, error)
}

func (s *stubNotifs) ListByUser(ctx context.Context, email string) ([]notifications.Notification, error) {
	return s.fn(ctx, email)
}

func emptyNotifs() *stubNotifs {
	return &stubNotifs{fn: func(context.Context, string) ([]notifications.Notification, error) {
		return nil, nil
	}}
}

func testStore(t *testing.T) snapshot.Store {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return snapshot.NewRedisStore(client)
}

func emptySolicitudes() *stubSolicitudes {
	return &stubSolicitudes{fn: func(context.Context, string) ([]soldomain.Solicitud, error) {
		return nil, nil
	}}
}

func emptyRoster() *stubRoster {
	return &stubRoster{fn: func(context.Context) ([]userdomain.User, error) {
		return nil, nil
	}}
}

func TestSyncPlacesPartialFailure(t *testing.T) {
	store := testStore(t)
	places := &stubPlaces{fn: func(_ context.Context, status string) ([]placedomain.Place, error) {
		if status == "pending" {
			return nil, errors.New("service down")
		}
		return []placedomain.Place{{ID: "a1", Status: "approved"}}, nil
	}}

	s := New(places, emptySolicitudes(), emptyRoster(), emptyNotifs(), store, Options{})
	require.NoError(t, s.SyncPlaces(context.Background()))

	got, err := store.GetPlaces(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
}

func TestSyncPlacesMergesBothLists(t *testing.T) {
	store := testStore(t)
	places := &stubPlaces{fn: func(_ context.Context, status string) ([]placedomain.Place, error) {
		if status == "pending" {
			return []placedomain.Place{{ID: "p1", Status: "pending"}}, nil
		}
		return []placedomain.Place{{ID: "a1", Status: "approved"}}, nil
	}}

	s := New(places, emptySolicitudes(), emptyRoster(), emptyNotifs(), store, Options{})
	require.NoError(t, s.SyncPlaces(context.Background()))

	got, err := store.GetPlaces(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSyncPlacesDiscardsLateResultAfterCancel(t *testing.T) {
	store := testStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	// the fetch "lands" only after the context is already cancelled,
	// as happens when Stop races an in-flight request
	places := &stubPlaces{fn: func(_ context.Context, status string) ([]placedomain.Place, error) {
		cancel()
		return []placedomain.Place{{ID: "late", Status: "approved"}}, nil
	}}

	s := New(places, emptySolicitudes(), emptyRoster(), emptyNotifs(), store, Options{})
	err := s.SyncPlaces(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = store.GetPlaces(context.Background())
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
}

func TestSyncRosterKeepsLastGoodSnapshot(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	healthy := true
	roster := &stubRoster{fn: func(context.Context) ([]userdomain.User, error) {
		if !healthy {
			return nil, errors.New("service down")
		}
		return []userdomain.User{{ID: "u1", Email: "a@x.com"}}, nil
	}}

	s := New(&stubPlaces{fn: func(context.Context, string) ([]placedomain.Place, error) { return nil, nil }},
		emptySolicitudes(), roster, emptyNotifs(), store, Options{})

	require.NoError(t, s.SyncRoster(ctx))

	healthy = false
	require.Error(t, s.SyncRoster(ctx))

	got, err := store.GetRoster(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].ID)
}

func TestSyncSolicitudesMergesEstados(t *testing.T) {
	store := testStore(t)
	sols := &stubSolicitudes{fn: func(_ context.Context, estado string) ([]soldomain.Solicitud, error) {
		switch estado {
		case "pendientes":
			return []soldomain.Solicitud{{ID: 1, Estado: "pendiente"}}, nil
		case "aceptadas":
			return []soldomain.Solicitud{{ID: 2, Estado: "aceptada"}}, nil
		default:
			return nil, errors.New("service down")
		}
	}}

	s := New(&stubPlaces{fn: func(context.Context, string) ([]placedomain.Place, error) { return nil, nil }},
		sols, emptyRoster(), emptyNotifs(), store, Options{})
	require.NoError(t, s.SyncSolicitudes(context.Background()))

	got, err := store.GetSolicitudes(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSyncNotificationsBadge(t *testing.T) {
	store := testStore(t)
	notifSource := &stubNotifs{fn: func(_ context.Context, email string) ([]notifications.Notification, error) {
		require.Equal(t, "ana@x.com", email)
		return []notifications.Notification{
			{ID: 1, Estado: "pendiente"},
			{ID: 2, Estado: "leida"},
		}, nil
	}}

	s := New(&stubPlaces{fn: func(context.Context, string) ([]placedomain.Place, error) { return nil, nil }},
		emptySolicitudes(), emptyRoster(), notifSource, store, Options{})

	t.Run("no session means empty badge", func(t *testing.T) {
		require.NoError(t, s.SyncNotifications(context.Background()))
		list, unread := s.Badge()
		assert.Empty(t, list)
		assert.Zero(t, unread)
	})

	t.Run("session user's notifications are polled", func(t *testing.T) {
		require.NoError(t, store.SetSession(context.Background(), userdomain.Session{
			Token: "t",
			User:  userdomain.User{ID: "u1", Email: "ana@x.com"},
		}))

		require.NoError(t, s.SyncNotifications(context.Background()))
		list, unread := s.Badge()
		assert.Len(t, list, 2)
		assert.Equal(t, 1, unread)
	})
}

func TestStartStopAndKick(t *testing.T) {
	store := testStore(t)
	fetched := make(chan struct{}, 16)
	places := &stubPlaces{fn: func(context.Context, string) ([]placedomain.Place, error) {
		select {
		case fetched <- struct{}{}:
		default:
		}
		return []placedomain.Place{{ID: "p1"}}, nil
	}}

	s := New(places, emptySolicitudes(), emptyRoster(), emptyNotifs(), store, Options{
		PlacesInterval:   time.Hour,
		RequestsInterval: time.Hour,
		RosterInterval:   time.Hour,
	})

	s.Start()
	defer s.Stop()

	// the startup pass
	select {
	case <-fetched:
	case <-time.After(2 * time.Second):
		t.Fatal("startup pass never ran")
	}

	// a kick forces another pass despite the hour-long interval
	s.Kick()
	select {
	case <-fetched:
	case <-time.After(2 * time.Second):
		t.Fatal("kicked pass never ran")
	}

	s.Stop()

	got, err := store.GetPlaces(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

// Kick may land before Start (a handler wired ahead of the loops); the
// channels exist from construction, so it must not panic or block.
func TestKickBeforeStartIsSafe(t *testing.T) {
	store := testStore(t)
	s := New(&stubPlaces{fn: func(context.Context, string) ([]placedomain.Place, error) { return nil, nil }},
		emptySolicitudes(), emptyRoster(), emptyNotifs(), store, Options{})

	s.Kick()
	s.Kick()

	s.Start()
	s.Stop()
}
