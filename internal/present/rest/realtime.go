package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/totegamma/funnelbuilder"
	"github.com/totegamma/funnelbuilder/internal/bridge"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var errRealtimeDisabled = echo.NewHTTPError(http.StatusServiceUnavailable, "realtime is not configured")

// handleRealtime relays the requester's bridge events to the web view and
// stores the theme the web view reports back.
func (h *Handler) handleRealtime(c echo.Context) error {
	if h.signal == nil {
		return errRealtimeDisabled
	}
	userID := requester(c)

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	output := make(chan funnelbuilder.Event, 16)
	go func() {
		greet := func() { h.greet(ctx, userID) }
		if err := h.signal.Realtime(ctx, bridge.Channel(userID), output, greet); err != nil {
			slog.ErrorContext(
				ctx, "Realtime subscription failed",
				slog.String("error", err.Error()),
				slog.String("module", "socket"),
			)
			cancel()
		}
	}()

	quit := make(chan struct{}, 1)

	go func() {
		for {
			var msg funnelbuilder.SocketMessage
			err := ws.ReadJSON(&msg)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				quit <- struct{}{}
				return
			}

			switch msg.Type {
			case funnelbuilder.EventThemeChanged:
				if msg.ThemeParams == nil || h.themes == nil {
					continue
				}
				if err := h.themes.SetTheme(ctx, userID, *msg.ThemeParams); err != nil {
					slog.ErrorContext(
						ctx, "Failed to store theme",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
			case funnelbuilder.EventHeartbeat:
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown message type",
					slog.String("type", msg.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case <-ctx.Done():
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}

// greet tells the host the web view is ready and should take the full height.
func (h *Handler) greet(ctx context.Context, userID string) {
	b := h.bridges.For(userID)
	for _, call := range []func(context.Context) error{b.Ready, b.Expand} {
		if err := call(ctx); err != nil {
			slog.WarnContext(
				ctx, "host bridge call failed",
				slog.String("error", err.Error()),
				slog.String("module", "socket"),
			)
		}
	}
}
