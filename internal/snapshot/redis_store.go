package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	placedomain "github.com/NextStop-25-26J/nextstop-gateway/internal/places/domain"
	soldomain "github.com/NextStop-25-26J/nextstop-gateway/internal/solicitudes/domain"
	userdomain "github.com/NextStop-25-26J/nextstop-gateway/internal/users/domain"
)

const (
	sessionKey     = "nextstop:session:user"
	rosterKey      = "nextstop:cache:users"
	placesKey      = "nextstop:cache:places"
	solicitudesKey = "nextstop:cache:solicitudes"
)

// RedisStore keeps each record as one JSON value under a fixed key. No TTL:
// a stale mirror is still a useful offline fallback.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed snapshot store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) GetSession(ctx context.Context) (*userdomain.Session, error) {
	var session userdomain.Session
	if err := s.get(ctx, sessionKey, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *RedisStore) SetSession(ctx context.Context, session userdomain.Session) error {
	return s.set(ctx, sessionKey, session)
}

func (s *RedisStore) ClearSession(ctx context.Context) error {
	if err := s.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *RedisStore) GetRoster(ctx context.Context) ([]userdomain.User, error) {
	var roster []userdomain.User
	if err := s.get(ctx, rosterKey, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

func (s *RedisStore) SetRoster(ctx context.Context, roster []userdomain.User) error {
	return s.set(ctx, rosterKey, roster)
}

func (s *RedisStore) GetPlaces(ctx context.Context) ([]placedomain.Place, error) {
	var places []placedomain.Place
	if err := s.get(ctx, placesKey, &places); err != nil {
		return nil, err
	}
	return places, nil
}

func (s *RedisStore) SetPlaces(ctx context.Context, places []placedomain.Place) error {
	return s.set(ctx, placesKey, places)
}

func (s *RedisStore) GetSolicitudes(ctx context.Context) ([]soldomain.Solicitud, error) {
	var items []soldomain.Solicitud
	if err := s.get(ctx, solicitudesKey, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *RedisStore) SetSolicitudes(ctx context.Context, items []soldomain.Solicitud) error {
	return s.set(ctx, solicitudesKey, items)
}

// get reads and decodes one record. A value that fails to decode is
// treated as absence, not an error: the mirror must never crash a caller
// over a corrupt cache entry.
func (s *RedisStore) get(ctx context.Context, key string, out any) error {
	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		log.Printf("Warning: discarding malformed snapshot %s: %v", key, err)
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}
