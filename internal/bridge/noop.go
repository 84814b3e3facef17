package bridge

import (
	"context"

	"github.com/totegamma/funnelbuilder"
)

// Noop is used when no host runtime is attached, e.g. in a plain browser.
type Noop struct{}

func (Noop) Ready(context.Context) error                       { return nil }
func (Noop) Expand(context.Context) error                      { return nil }
func (Noop) SetMainButton(context.Context, MainButton) error   { return nil }
func (Noop) SetBackButton(context.Context, bool) error         { return nil }
func (Noop) ImpactOccurred(context.Context, ImpactStyle) error { return nil }
func (Noop) SelectionChanged(context.Context) error            { return nil }

func (Noop) Theme(context.Context) funnelbuilder.ThemeParams {
	return DefaultTheme
}

type NoopProvider struct{}

func (NoopProvider) For(string) Bridge {
	return Noop{}
}

var _ Bridge = Noop{}
var _ Provider = NoopProvider{}
