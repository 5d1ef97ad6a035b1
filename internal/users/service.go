package users

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/NextStop-25-26J/nextstop-gateway/internal/snapshot"
	"github.com/NextStop-25-26J/nextstop-gateway/internal/users/domain"
)

// Service implements the stubbed identity flows. There is no credential
// check anywhere in the platform: login is a roster lookup by email and the
// token is an opaque marker, not a verified credential.
type Service struct {
	users    *Client
	registry *RegistryClient
	store    snapshot.Store
}

// NewService creates the identity service.
func NewService(users *Client, registry *RegistryClient, store snapshot.Store) *Service {
	return &Service{
		users:    users,
		registry: registry,
		store:    store,
	}
}

// Roster returns the known users, remote-first with the snapshot as
// fallback so login keeps working while the users service is down.
func (s *Service) Roster(ctx context.Context) ([]domain.User, error) {
	roster, err := s.users.List(ctx)
	if err == nil {
		if err := s.store.SetRoster(ctx, roster); err != nil {
			log.Printf("Warning: failed to cache roster: %v", err)
		}
		return roster, nil
	}
	log.Printf("Warning: users service unavailable, serving cached roster: %v", err)

	cached, cacheErr := s.store.GetRoster(ctx)
	if cacheErr != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}
	return cached, nil
}

// Login matches the email against the roster, ignoring case, and opens a
// session. The password is accepted but never checked.
func (s *Service) Login(ctx context.Context, email string) (*domain.Session, error) {
	roster, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}

	var user *domain.User
	for i := range roster {
		if strings.EqualFold(roster[i].Email, email) {
			user = &roster[i]
			break
		}
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	session := domain.Session{
		Token: makeToken(user.ID),
		User:  *user,
	}
	if err := s.store.SetSession(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return &session, nil
}

// Register creates an account through the registry service. When the
// registry rejects or is unreachable the account is fabricated locally and
// added to the cached roster, so the flow never dead-ends on a broken
// upstream. Local accounts are flagged and exist only in this gateway.
func (s *Service) Register(ctx context.Context, name, email string) (*domain.User, error) {
	user, err := s.registry.Register(ctx, name, email)
	if err == nil {
		return user, nil
	}
	log.Printf("Warning: registry rejected %s, creating local account: %v", email, err)

	local := domain.User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
		Local:     true,
	}

	roster, err := s.store.GetRoster(ctx)
	if err != nil && !errors.Is(err, snapshot.ErrNotFound) {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	roster = append(roster, local)
	if err := s.store.SetRoster(ctx, roster); err != nil {
		return nil, fmt.Errorf("persist roster: %w", err)
	}
	return &local, nil
}

// Logout discards the current session. Logging out while logged out is
// fine.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.ClearSession(ctx); err != nil && !errors.Is(err, snapshot.ErrNotFound) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Session returns the active session, or domain.ErrNoSession.
func (s *Service) Session(ctx context.Context) (*domain.Session, error) {
	session, err := s.store.GetSession(ctx)
	if errors.Is(err, snapshot.ErrNotFound) {
		return nil, domain.ErrNoSession
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SeedDemo writes the three demo accounts into the roster snapshot when no
// roster has ever been cached. It keeps a fresh deployment usable before
// the first successful roster sync.
func (s *Service) SeedDemo(ctx context.Context) error {
	if _, err := s.store.GetRoster(ctx); !errors.Is(err, snapshot.ErrNotFound) {
		return err
	}

	now := time.Now().UTC()
	demo := []domain.User{
		{ID: "demo1", Email: "demo@nextstop.com", Name: "Usuario Demo", Role: domain.RoleUser, CreatedAt: now, Local: true},
		{ID: "mod1", Email: "mod@nextstop.com", Name: "Moderador Demo", Role: domain.RoleModerator, CreatedAt: now, Local: true},
		{ID: "admin1", Email: "admin@nextstop.com", Name: "Admin Demo", Role: domain.RoleAdmin, CreatedAt: now, Local: true},
	}
	if err := s.store.SetRoster(ctx, demo); err != nil {
		return fmt.Errorf("seed roster: %w", err)
	}
	log.Println("Seeded demo accounts into empty roster")
	return nil
}

// makeToken builds the opaque session marker. Base64 of "id:millis" is
// deliberately not a signature; nothing downstream verifies it.
func makeToken(userID string) string {
	raw := fmt.Sprintf("%s:%d", userID, time.Now().UnixMilli())
	return base64.StdEncoding.EncodeToString([]byte(raw))
}
