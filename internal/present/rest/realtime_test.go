package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/totegamma/funnelbuilder"
	"github.com/totegamma/funnelbuilder/internal/bridge"
	"github.com/totegamma/funnelbuilder/internal/domain"
	"github.com/totegamma/funnelbuilder/internal/present/rest/middleware"
	"github.com/totegamma/funnelbuilder/internal/service"
	"github.com/totegamma/funnelbuilder/internal/usecase"
)

type fakeSubscriber struct {
	event    funnelbuilder.Event
	channels chan string
}

func (f *fakeSubscriber) Realtime(ctx context.Context, channel string, output chan<- funnelbuilder.Event, subscribed func()) error {
	f.channels <- channel
	if subscribed != nil {
		subscribed()
	}
	select {
	case output <- f.event:
	case <-ctx.Done():
		return nil
	}
	<-ctx.Done()
	return nil
}

type storedTheme struct {
	userID string
	theme  funnelbuilder.ThemeParams
}

type fakeThemeStore struct {
	stored chan storedTheme
}

func (f *fakeThemeStore) SetTheme(ctx context.Context, userID string, theme funnelbuilder.ThemeParams) error {
	f.stored <- storedTheme{userID: userID, theme: theme}
	return nil
}

type greetingBridge struct {
	bridge.Noop
	mu    sync.Mutex
	calls []string
}

func (g *greetingBridge) Ready(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "ready")
	return nil
}

func (g *greetingBridge) Expand(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "expand")
	return nil
}

func (g *greetingBridge) For(userID string) bridge.Bridge {
	return g
}

func newRealtimeServer(sub Subscriber, themes ThemeStore, bridges bridge.Provider) *httptest.Server {
	auth := service.NewAuthService(
		&domain.Config{BotToken: testToken, MaxAge: time.Hour},
		nil,
		func() time.Time { return issued.Add(time.Minute) },
	)
	authMiddleware := middleware.NewAuthMiddleware(auth)
	store := newMemoryStore()
	funnel := usecase.NewFunnelUsecase(store, memoryPages{store: store}, nil)

	e := echo.New()
	e.Use(authMiddleware.IdentifyIdentity)
	NewHandler(funnel, bridges, sub, themes, authMiddleware, nil).RegisterRoutes(e)
	return httptest.NewServer(e)
}

func TestRealtimeRelaysEventsAndStoresTheme(t *testing.T) {
	sub := &fakeSubscriber{
		event:    funnelbuilder.Event{Type: funnelbuilder.EventSetupBackButton, Data: map[string]any{"is_visible": true}},
		channels: make(chan string, 1),
	}
	themes := &fakeThemeStore{stored: make(chan storedTheme, 1)}
	greeter := &greetingBridge{}
	server := newRealtimeServer(sub, themes, greeter)
	defer server.Close()

	endpoint := "ws" + strings.TrimPrefix(server.URL, "http") + "/realtime?initData=" + url.QueryEscape(payloadFor("42"))
	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var event funnelbuilder.Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if event.Type != funnelbuilder.EventSetupBackButton {
		t.Fatalf("unexpected event %+v", event)
	}
	if channel := <-sub.channels; channel != "bridge:42" {
		t.Fatalf("subscribed to wrong channel %s", channel)
	}

	greeter.mu.Lock()
	calls := strings.Join(greeter.calls, ",")
	greeter.mu.Unlock()
	if calls != "ready,expand" {
		t.Fatalf("expected ready and expand on connect, got %s", calls)
	}

	err = conn.WriteJSON(funnelbuilder.SocketMessage{Type: funnelbuilder.EventHeartbeat})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	err = conn.WriteJSON(funnelbuilder.SocketMessage{
		Type:        funnelbuilder.EventThemeChanged,
		ThemeParams: &funnelbuilder.ThemeParams{BgColor: "#17212b"},
	})
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case stored := <-themes.stored:
		if stored.userID != "42" || stored.theme.BgColor != "#17212b" {
			t.Fatalf("unexpected stored theme %+v", stored)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("theme was not stored")
	}
}

func TestRealtimeRequiresIdentity(t *testing.T) {
	server := newRealtimeServer(&fakeSubscriber{channels: make(chan string, 1)}, nil, nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/realtime")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRealtimeWithoutSubscriber(t *testing.T) {
	server := newRealtimeServer(nil, nil, nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/realtime?initData=" + url.QueryEscape(payloadFor("42")))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}
