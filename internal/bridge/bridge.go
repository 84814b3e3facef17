// Package bridge abstracts the host runtime of the mini-app: its buttons,
// haptic feedback and theme. Host talks to the real web view through a
// publisher; Noop stands in when no host is attached.
package bridge

import (
	"context"

	"github.com/totegamma/funnelbuilder"
)

type ImpactStyle string

const (
	ImpactLight  ImpactStyle = "light"
	ImpactMedium ImpactStyle = "medium"
	ImpactHeavy  ImpactStyle = "heavy"
	ImpactRigid  ImpactStyle = "rigid"
	ImpactSoft   ImpactStyle = "soft"
)

type MainButton struct {
	Text      string
	Visible   bool
	Active    bool
	Color     string
	TextColor string
}

// Bridge is the set of host capabilities the application uses.
type Bridge interface {
	Ready(ctx context.Context) error
	Expand(ctx context.Context) error
	SetMainButton(ctx context.Context, button MainButton) error
	SetBackButton(ctx context.Context, visible bool) error
	ImpactOccurred(ctx context.Context, style ImpactStyle) error
	SelectionChanged(ctx context.Context) error
	Theme(ctx context.Context) funnelbuilder.ThemeParams
}

// Provider hands out the bridge attached to a user's web view.
type Provider interface {
	For(userID string) Bridge
}

// DefaultTheme is used whenever the host has not reported a palette.
var DefaultTheme = funnelbuilder.ThemeParams{
	BgColor:                "#ffffff",
	TextColor:              "#000000",
	HintColor:              "#999999",
	LinkColor:              "#2481cc",
	ButtonColor:            "#2481cc",
	ButtonTextColor:        "#ffffff",
	SecondaryBgColor:       "#f4f4f5",
	SectionBgColor:         "#ffffff",
	SectionHeaderTextColor: "#6d6d72",
	SubtitleTextColor:      "#999999",
	DestructiveTextColor:   "#ff3b30",
}

// WithDefaults fills every empty color of theme from DefaultTheme.
func WithDefaults(theme funnelbuilder.ThemeParams) funnelbuilder.ThemeParams {
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&theme.BgColor, DefaultTheme.BgColor)
	fill(&theme.TextColor, DefaultTheme.TextColor)
	fill(&theme.HintColor, DefaultTheme.HintColor)
	fill(&theme.LinkColor, DefaultTheme.LinkColor)
	fill(&theme.ButtonColor, DefaultTheme.ButtonColor)
	fill(&theme.ButtonTextColor, DefaultTheme.ButtonTextColor)
	fill(&theme.SecondaryBgColor, DefaultTheme.SecondaryBgColor)
	fill(&theme.SectionBgColor, DefaultTheme.SectionBgColor)
	fill(&theme.SectionHeaderTextColor, DefaultTheme.SectionHeaderTextColor)
	fill(&theme.SubtitleTextColor, DefaultTheme.SubtitleTextColor)
	fill(&theme.DestructiveTextColor, DefaultTheme.DestructiveTextColor)
	return theme
}

// Channel is the pub/sub channel carrying events for a user's web view.
func Channel(userID string) string {
	return "bridge:" + userID
}
