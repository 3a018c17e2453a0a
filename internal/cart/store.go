package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dbackf/storefront/pkg/logger"
	pkgredis "github.com/dbackf/storefront/pkg/redis"
)

// Store mirrors the ledger blob to durable session storage. Load fails soft:
// a missing or unparseable blob reads as an empty ledger.
type Store interface {
	Load(ctx context.Context, sessionID string) State
	Save(ctx context.Context, sessionID string, state State) error
	Clear(ctx context.Context, sessionID string) error
}

type sessionKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

type redisStore struct {
	kv   sessionKV
	ttl  time.Duration
	logg *logger.Logger
}

// NewRedisStore builds the session-backed ledger mirror.
func NewRedisStore(kv sessionKV, ttl time.Duration, logg *logger.Logger) Store {
	return &redisStore{kv: kv, ttl: ttl, logg: logg}
}

func (s *redisStore) Load(ctx context.Context, sessionID string) State {
	raw, err := s.kv.Get(ctx, s.kv.CartKey(sessionID))
	if err != nil {
		if !errors.Is(err, pkgredis.Nil) && s.logg != nil {
			s.logg.Warn(ctx, "cart.load failed, starting empty")
		}
		return State{}
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// Corrupt mirror; treat as empty rather than surfacing an error.
		if s.logg != nil {
			s.logg.Warn(ctx, "cart.blob corrupt, starting empty")
		}
		return State{}
	}
	return state
}

func (s *redisStore) Save(ctx context.Context, sessionID string, state State) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.CartKey(sessionID), string(encoded), s.ttl)
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	return s.kv.Del(ctx, s.kv.CartKey(sessionID))
}
