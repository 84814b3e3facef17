package domain

import "time"

// Funnel is an ordered sequence of pages owned by one user.
type Funnel struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	Name      string       `json:"name"`
	Status    FunnelStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// Page is one step of a funnel.
type Page struct {
	ID            string    `json:"id"`
	FunnelID      string    `json:"funnel_id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	OrderPosition int       `json:"order_position"`
	CreatedAt     time.Time `json:"created_at"`
}

// FunnelDetail is a funnel together with its pages.
type FunnelDetail struct {
	Funnel Funnel `json:"funnel"`
	Pages  []Page `json:"pages"`
}
