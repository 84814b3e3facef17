package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/totegamma/funnelbuilder"
)

const themeTTL = 24 * time.Hour

type themeStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// ThemeRepository stores the last theme each client reported.
type ThemeRepository struct {
	rdb themeStore
}

func NewThemeRepository(rdb themeStore) *ThemeRepository {
	return &ThemeRepository{rdb: rdb}
}

func themeKey(userID string) string {
	return "bridge:theme:" + userID
}

func (r *ThemeRepository) GetTheme(ctx context.Context, userID string) (funnelbuilder.ThemeParams, error) {
	raw, err := r.rdb.Get(ctx, themeKey(userID)).Bytes()
	if err != nil {
		return funnelbuilder.ThemeParams{}, err
	}
	var theme funnelbuilder.ThemeParams
	if err := json.Unmarshal(raw, &theme); err != nil {
		return funnelbuilder.ThemeParams{}, err
	}
	return theme, nil
}

func (r *ThemeRepository) SetTheme(ctx context.Context, userID string, theme funnelbuilder.ThemeParams) error {
	raw, err := json.Marshal(theme)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, themeKey(userID), raw, themeTTL).Err()
}
