// Package sync keeps the snapshot store eventually consistent with the
// backend microservices. There is no push channel anywhere in the system,
// so the synchronizer polls: fetch, normalize, full-replace. Overlapping
// ticks carry no ordering guarantee; a slow response may overwrite a newer
// one and self-corrects on the next tick, which is acceptable for a
// cosmetic cache.
package sync

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/normalize"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/notifications"
	placedomain "github.com/NextStop-25-26J/nextstop-gateway/internal/places/domain"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/snapshot"
	soldomain "github.com/NextStop-25-26J/nextstop-gateway/internal/solicitudes/domain"
	userdomain "github.com/NextStop-25-26J/nextstop-gateway/internal/users/domain"
)

// PlaceSource lists places by canonical status.
type PlaceSource interface {
	List(ctx context.Context, status string) ([]placedomain.Place, error)
}

// SolicitudSource lists solicitudes by estado.
type SolicitudSource interface {
	ListByEstado(ctx context.Context, estado string) ([]soldomain.Solicitud, error)
}

// RosterSource lists the user roster.
type RosterSource interface {
	List(ctx context.Context) ([]userdomain.User, error)
}

// NotificationSource lists a user's notifications.
type NotificationSource interface {
	ListByUser(ctx context.Context, email string) ([]notifications.Notification, error)
}

// Options sets the poll intervals. Zero values fall back to the defaults
// the UI has always used (10s for admin lists, 30s for the badge).
type Options struct {
	PlacesInterval        time.Duration
	RequestsInterval      time.Duration
	RosterInterval        time.Duration
	NotificationsInterval time.Duration
}

const (
	defaultInterval      = 10 * time.Second
	defaultNotifInterval = 30 * time.Second
)

// Synchronizer owns the polling goroutines and their cancellation. Once
// Stop returns, no further snapshot writes happen, even for fetches that
// were in flight when Stop was called.
type Synchronizer struct {
	places PlaceSource
	sols   SolicitudSource
	roster RosterSource
	notifs NotificationSource
	store  snapshot.Store
	opts   Options

	kicks  []chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// the badge copy lives in memory only; notifications are never
	// persisted (always re-fetched after mutation)
	mu        sync.RWMutex
	lastBadge []notifications.Notification

	startOnce sync.Once
	stopOnce  sync.Once
}

// New creates a synchronizer over the given sources and store.
func New(places PlaceSource, sols SolicitudSource, roster RosterSource, notifs NotificationSource, store snapshot.Store, opts Options) *Synchronizer {
	if opts.PlacesInterval <= 0 {
		opts.PlacesInterval = defaultInterval
	}
	if opts.RequestsInterval <= 0 {
		opts.RequestsInterval = defaultInterval
	}
	if opts.RosterInterval <= 0 {
		opts.RosterInterval = defaultInterval
	}
	if opts.NotificationsInterval <= 0 {
		opts.NotificationsInterval = defaultNotifInterval
	}
	// One buffered kick channel per loop, built here so Kick is safe to
	// call before Start; a queued kick is picked up by the first pass.
	kicks := make([]chan struct{}, 4)
	for i := range kicks {
		kicks[i] = make(chan struct{}, 1)
	}
	return &Synchronizer{
		places: places,
		sols:   sols,
		roster: roster,
		notifs: notifs,
		store:  store,
		opts:   opts,
		kicks:  kicks,
	}
}

// Start launches one polling loop per collection. Each loop runs an
// immediate pass, then ticks on its interval until Stop.
func (s *Synchronizer) Start() {
	s.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel

		s.launch(ctx, "places", s.opts.PlacesInterval, s.kicks[0], s.SyncPlaces)
		s.launch(ctx, "solicitudes", s.opts.RequestsInterval, s.kicks[1], s.SyncSolicitudes)
		s.launch(ctx, "roster", s.opts.RosterInterval, s.kicks[2], s.SyncRoster)
		s.launch(ctx, "notifications", s.opts.NotificationsInterval, s.kicks[3], s.SyncNotifications)

		log.Printf("[sync] started (places=%s solicitudes=%s roster=%s notifications=%s)",
			s.opts.PlacesInterval, s.opts.RequestsInterval, s.opts.RosterInterval, s.opts.NotificationsInterval)
	})
}

// Stop cancels the loops and waits for them to exit.
func (s *Synchronizer) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.wg.Wait()
		log.Println("[sync] stopped")
	})
}

// Kick forces an immediate pass on every loop. Handlers call it after
// mutations so the snapshot catches up before the next tick.
func (s *Synchronizer) Kick() {
	for _, kick := range s.kicks {
		select {
		case kick <- struct{}{}:
		default: // a pass is already queued
		}
	}
}

func (s *Synchronizer) launch(ctx context.Context, name string, interval time.Duration, kick chan struct{}, pass func(context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		run := func() {
			if err := pass(ctx); err != nil && ctx.Err() == nil {
				log.Printf("[sync] %s pass failed: %v", name, err)
			}
		}

		run()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			case <-kick:
				run()
			}
		}
	}()
}

// SyncPlaces fetches the pending and approved lists concurrently and
// replaces the place snapshot with their concatenation. A failed leg
// substitutes an empty list so the other still lands (the rejected list is
// not fetched; the places service never implemented it).
func (s *Synchronizer) SyncPlaces(ctx context.Context) error {
	statuses := []string{normalize.StatusPending, normalize.StatusApproved}
	results := make([][]placedomain.Place, len(statuses))

	var wg sync.WaitGroup
	for i, status := range statuses {
		wg.Add(1)
		go func(i int, status string) {
			defer wg.Done()
			list, err := s.places.List(ctx, status)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("[sync] places %s fetch failed, substituting empty list: %v", status, err)
				}
				return
			}
			results[i] = list
		}(i, status)
	}
	wg.Wait()

	// A response that lands after Stop must not touch the store.
	if err := ctx.Err(); err != nil {
		return err
	}

	merged := make([]placedomain.Place, 0, len(results[0])+len(results[1]))
	for _, list := range results {
		merged = append(merged, list...)
	}
	return s.store.SetPlaces(ctx, merged)
}

// SyncSolicitudes fetches the three estado lists concurrently and replaces
// the solicitud snapshot, with the same partial-failure rule as places.
func (s *Synchronizer) SyncSolicitudes(ctx context.Context) error {
	estados := []string{"pendientes", "aceptadas", "rechazadas"}
	results := make([][]soldomain.Solicitud, len(estados))

	var wg sync.WaitGroup
	for i, estado := range estados {
		wg.Add(1)
		go func(i int, estado string) {
			defer wg.Done()
			list, err := s.sols.ListByEstado(ctx, estado)
			if err != nil {
				if ctx.Err() == nil {
					log.Printf("[sync] solicitudes %s fetch failed, substituting empty list: %v", estado, err)
				}
				return
			}
			results[i] = list
		}(i, estado)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	var merged []soldomain.Solicitud
	for _, list := range results {
		merged = append(merged, list...)
	}
	return s.store.SetSolicitudes(ctx, merged)
}

// SyncRoster replaces the cached user roster. Unlike the list syncs, a
// failed fetch keeps the last good snapshot: an empty roster would lock
// everyone out of the stubbed login.
func (s *Synchronizer) SyncRoster(ctx context.Context) error {
	roster, err := s.roster.List(ctx)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.SetRoster(ctx, roster)
}

// SyncNotifications refreshes the in-memory badge copy for the session
// user. No session means no badge. Unlike the list syncs nothing is
// persisted; the authoritative list is always re-fetched on demand.
func (s *Synchronizer) SyncNotifications(ctx context.Context) error {
	session, err := s.store.GetSession(ctx)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			s.setBadge(nil)
			return nil
		}
		return err
	}

	list, err := s.notifs.ListByUser(ctx, session.User.Email)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.setBadge(list)
	return nil
}

// Badge returns the last polled notifications and the unread count.
func (s *Synchronizer) Badge() ([]notifications.Notification, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unread := 0
	for _, n := range s.lastBadge {
		if n.Unread() {
			unread++
		}
	}
	return s.lastBadge, unread
}

func (s *Synchronizer) setBadge(list []notifications.Notification) {
	s.mu.Lock()
	s.lastBadge = list
	s.mu.Unlock()
}

// SyncAll runs every pass once, for one-shot callers like the worker.
func (s *Synchronizer) SyncAll(ctx context.Context) {
	if err := s.SyncPlaces(ctx); err != nil {
		log.Printf("[sync] places pass failed: %v", err)
	}
	if err := s.SyncSolicitudes(ctx); err != nil {
		log.Printf("[sync] solicitudes pass failed: %v", err)
	}
	if err := s.SyncRoster(ctx); err != nil {
		log.Printf("[sync] roster pass failed: %v", err)
	}
}
