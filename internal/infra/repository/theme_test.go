package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/totegamma/funnelbuilder"
)

type mockThemeStore struct {
	values map[string]string
	ttl    time.Duration
}

func (m *mockThemeStore) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockThemeStore) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.values[key] = string(value.([]byte))
	m.ttl = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestThemeRepositoryRoundTrip(t *testing.T) {
	store := &mockThemeStore{values: map[string]string{}}
	repo := NewThemeRepository(store)
	ctx := context.Background()

	if _, err := repo.GetTheme(ctx, "42"); err != redis.Nil {
		t.Fatalf("expected redis.Nil for unknown user, got %v", err)
	}

	err := repo.SetTheme(ctx, "42", funnelbuilder.ThemeParams{BgColor: "#17212b", ButtonColor: "#5288c1"})
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if _, ok := store.values["bridge:theme:42"]; !ok || store.ttl != themeTTL {
		t.Fatalf("unexpected store state %+v", store)
	}

	theme, err := repo.GetTheme(ctx, "42")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if theme.BgColor != "#17212b" || theme.ButtonColor != "#5288c1" {
		t.Fatalf("unexpected theme %+v", theme)
	}
}
