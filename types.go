package funnelbuilder

// Event is a host-bridge frame in the shape of the host's postEvent protocol.
type Event struct {
	Type string `json:"eventType"`
	Data any    `json:"eventData,omitempty"`
}

const (
	EventReady           = "web_app_ready"
	EventExpand          = "web_app_expand"
	EventSetupMainButton = "web_app_setup_main_button"
	EventSetupBackButton = "web_app_setup_back_button"
	EventHapticFeedback  = "web_app_trigger_haptic_feedback"
	EventThemeChanged    = "theme_changed"
	EventHeartbeat       = "h"
)

type CreateFunnelRequest struct {
	Name string `json:"name"`
}

type RenameFunnelRequest struct {
	Name string `json:"name"`
}

type AppendPageRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SocketMessage is what the web view sends over the realtime socket.
type SocketMessage struct {
	Type        string       `json:"type"`
	ThemeParams *ThemeParams `json:"theme_params,omitempty"`
}

// ThemeParams is the host palette reported to the web view.
type ThemeParams struct {
	BgColor                string `json:"bg_color,omitempty"`
	TextColor              string `json:"text_color,omitempty"`
	HintColor              string `json:"hint_color,omitempty"`
	LinkColor              string `json:"link_color,omitempty"`
	ButtonColor            string `json:"button_color,omitempty"`
	ButtonTextColor        string `json:"button_text_color,omitempty"`
	SecondaryBgColor       string `json:"secondary_bg_color,omitempty"`
	SectionBgColor         string `json:"section_bg_color,omitempty"`
	SectionHeaderTextColor string `json:"section_header_text_color,omitempty"`
	SubtitleTextColor      string `json:"subtitle_text_color,omitempty"`
	DestructiveTextColor   string `json:"destructive_text_color,omitempty"`
}
