package bridge

import (
	"context"
	"log/slog"

	"github.com/totegamma/funnelbuilder"
)

// Publisher delivers events to subscribers of a channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, event funnelbuilder.Event) error
}

// ThemeSource returns the palette a user's web view last reported.
type ThemeSource interface {
	GetTheme(ctx context.Context, userID string) (funnelbuilder.ThemeParams, error)
}

// Host drives a user's web view by publishing postEvent frames on the
// user's channel; the realtime socket relays them to the client.
type Host struct {
	publisher Publisher
	themes    ThemeSource
	userID    string
}

func NewHost(publisher Publisher, themes ThemeSource, userID string) *Host {
	return &Host{
		publisher: publisher,
		themes:    themes,
		userID:    userID,
	}
}

func (h *Host) post(ctx context.Context, eventType string, data any) error {
	return h.publisher.Publish(ctx, Channel(h.userID), funnelbuilder.Event{
		Type: eventType,
		Data: data,
	})
}

func (h *Host) Ready(ctx context.Context) error {
	return h.post(ctx, funnelbuilder.EventReady, nil)
}

func (h *Host) Expand(ctx context.Context) error {
	return h.post(ctx, funnelbuilder.EventExpand, nil)
}

func (h *Host) SetMainButton(ctx context.Context, button MainButton) error {
	data := map[string]any{
		"is_visible": button.Visible,
		"is_active":  button.Active,
		"text":       button.Text,
	}
	if button.Color != "" {
		data["color"] = button.Color
	}
	if button.TextColor != "" {
		data["text_color"] = button.TextColor
	}
	return h.post(ctx, funnelbuilder.EventSetupMainButton, data)
}

func (h *Host) SetBackButton(ctx context.Context, visible bool) error {
	return h.post(ctx, funnelbuilder.EventSetupBackButton, map[string]any{"is_visible": visible})
}

func (h *Host) ImpactOccurred(ctx context.Context, style ImpactStyle) error {
	return h.post(ctx, funnelbuilder.EventHapticFeedback, map[string]any{
		"type":         "impact",
		"impact_style": string(style),
	})
}

func (h *Host) SelectionChanged(ctx context.Context) error {
	return h.post(ctx, funnelbuilder.EventHapticFeedback, map[string]any{"type": "selection_change"})
}

func (h *Host) Theme(ctx context.Context) funnelbuilder.ThemeParams {
	if h.themes == nil {
		return DefaultTheme
	}
	theme, err := h.themes.GetTheme(ctx, h.userID)
	if err != nil {
		slog.DebugContext(
			ctx, "theme unavailable, using defaults",
			slog.String("error", err.Error()),
			slog.String("module", "bridge"),
		)
		return DefaultTheme
	}
	return WithDefaults(theme)
}

// HostProvider builds a Host per user over shared transports.
type HostProvider struct {
	publisher Publisher
	themes    ThemeSource
}

func NewHostProvider(publisher Publisher, themes ThemeSource) *HostProvider {
	return &HostProvider{publisher: publisher, themes: themes}
}

func (p *HostProvider) For(userID string) Bridge {
	return NewHost(p.publisher, p.themes, userID)
}

var _ Bridge = (*Host)(nil)
var _ Provider = (*HostProvider)(nil)
