package repository

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/totegamma/funnelbuilder/internal/domain"
	"github.com/totegamma/funnelbuilder/internal/usecase"
)

const funnelListTTL = 300

// Memcache is the subset of *memcache.Client used for funnel lists.
type Memcache interface {
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
	Delete(key string) error
}

// CachedFunnelRepository keeps each user's funnel list in memcached.
// Writes drop the list so the next read goes to the store.
type CachedFunnelRepository struct {
	usecase.FunnelRepository
	mc Memcache
}

func NewCachedFunnelRepository(inner usecase.FunnelRepository, mc Memcache) *CachedFunnelRepository {
	return &CachedFunnelRepository{FunnelRepository: inner, mc: mc}
}

func funnelListKey(userID string) string {
	return "funnels:" + userID
}

func (r *CachedFunnelRepository) ListByUser(ctx context.Context, userID string) ([]domain.Funnel, error) {
	key := funnelListKey(userID)

	item, err := r.mc.Get(key)
	if err == nil {
		var funnels []domain.Funnel
		if err := json.Unmarshal(item.Value, &funnels); err == nil {
			return funnels, nil
		}
	} else if err != memcache.ErrCacheMiss {
		slog.WarnContext(
			ctx, "memcached get failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
			slog.String("module", "repository"),
		)
	}

	funnels, err := r.FunnelRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	value, err := json.Marshal(funnels)
	if err == nil {
		if err := r.mc.Set(&memcache.Item{Key: key, Value: value, Expiration: funnelListTTL}); err != nil {
			slog.WarnContext(
				ctx, "memcached set failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
				slog.String("module", "repository"),
			)
		}
	}

	return funnels, nil
}

func (r *CachedFunnelRepository) Create(ctx context.Context, funnel domain.Funnel) (domain.Funnel, error) {
	created, err := r.FunnelRepository.Create(ctx, funnel)
	if err != nil {
		return created, err
	}
	r.invalidate(ctx, created.UserID)
	return created, nil
}

func (r *CachedFunnelRepository) Rename(ctx context.Context, id, name string) (domain.Funnel, error) {
	renamed, err := r.FunnelRepository.Rename(ctx, id, name)
	if err != nil {
		return renamed, err
	}
	r.invalidate(ctx, renamed.UserID)
	return renamed, nil
}

func (r *CachedFunnelRepository) invalidate(ctx context.Context, userID string) {
	err := r.mc.Delete(funnelListKey(userID))
	if err != nil && err != memcache.ErrCacheMiss {
		slog.WarnContext(
			ctx, "memcached delete failed",
			slog.String("user", userID),
			slog.String("error", err.Error()),
			slog.String("module", "repository"),
		)
	}
}
