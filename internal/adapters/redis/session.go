package redisad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"placefinder/internal/adapters/observability"
	"placefinder/internal/domain"
)

// Store keeps the last result set per session. Put replaces the whole
// entry; there is no merging of result sets across searches.
type Store struct {
	c   *redis.Client
	ttl time.Duration
}

func New(addr, pass string, db int, ttl time.Duration) *Store {
	return &Store{
		c:   redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		ttl: ttl,
	}
}

func key(session string) string { return "session:last:" + session }

func (s *Store) Put(ctx context.Context, session string, places []domain.Place) error {
	b, err := json.Marshal(places)
	if err != nil {
		return err
	}
	observability.ObserveSession("redis", "put")
	return s.c.Set(ctx, key(session), b, s.ttl).Err()
}

func (s *Store) Get(ctx context.Context, session string) ([]domain.Place, bool, error) {
	v, err := s.c.Get(ctx, key(session)).Bytes()
	if err == redis.Nil {
		observability.ObserveSession("redis", "miss")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	observability.ObserveSession("redis", "hit")
	var out []domain.Place
	if err := json.Unmarshal(v, &out); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (s *Store) Del(ctx context.Context, session string) error {
	observability.ObserveSession("redis", "del")
	return s.c.Del(ctx, key(session)).Err()
}
