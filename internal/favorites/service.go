// Package favorites keeps the per-session set of marked product ids. The set
// is mirrored to session storage after every mutation and read back with the
// same fail-soft posture as the cart ledger.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	pkgerrors "github.com/dbackf/storefront/pkg/errors"
	"github.com/dbackf/storefront/pkg/logger"
	pkgredis "github.com/dbackf/storefront/pkg/redis"
)

type sessionKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	FavoritesKey(sessionID string) string
}

type Service interface {
	List(ctx context.Context, sessionID string) ([]int64, error)
	Lookup(ctx context.Context, sessionID string) (map[int64]struct{}, error)
	Add(ctx context.Context, sessionID string, productID int64) ([]int64, error)
	Remove(ctx context.Context, sessionID string, productID int64) ([]int64, error)
}

type ServiceParams struct {
	KV     sessionKV
	TTL    time.Duration
	Logger *logger.Logger
}

type service struct {
	kv   sessionKV
	ttl  time.Duration
	logg *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.KV == nil {
		return nil, errors.New("favorites: session store is required")
	}
	return &service{kv: params.KV, ttl: params.TTL, logg: params.Logger}, nil
}

func (s *service) List(ctx context.Context, sessionID string) ([]int64, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return s.load(ctx, sessionID), nil
}

// Lookup returns the set keyed for membership checks.
func (s *service) Lookup(ctx context.Context, sessionID string) (map[int64]struct{}, error) {
	ids, err := s.List(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *service) Add(ctx context.Context, sessionID string, productID int64) ([]int64, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if productID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id must be positive")
	}

	ids := s.load(ctx, sessionID)
	for _, id := range ids {
		if id == productID {
			return ids, nil
		}
	}
	ids = append(ids, productID)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, s.save(ctx, sessionID, ids)
}

func (s *service) Remove(ctx context.Context, sessionID string, productID int64) ([]int64, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	ids := s.load(ctx, sessionID)
	kept := ids[:0]
	for _, id := range ids {
		if id != productID {
			kept = append(kept, id)
		}
	}
	if len(kept) == len(ids) {
		return ids, nil
	}
	if len(kept) == 0 {
		return []int64{}, s.kv.Del(ctx, s.kv.FavoritesKey(sessionID))
	}
	return kept, s.save(ctx, sessionID, kept)
}

func (s *service) load(ctx context.Context, sessionID string) []int64 {
	raw, err := s.kv.Get(ctx, s.kv.FavoritesKey(sessionID))
	if err != nil {
		if !errors.Is(err, pkgredis.Nil) && s.logg != nil {
			s.logg.Warn(ctx, "favorites.load failed, starting empty")
		}
		return []int64{}
	}

	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "favorites.blob corrupt, starting empty")
		}
		return []int64{}
	}
	return ids
}

func (s *service) save(ctx context.Context, sessionID string, ids []int64) error {
	encoded, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.kv.FavoritesKey(sessionID), string(encoded), s.ttl)
}
