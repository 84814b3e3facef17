package usecase

import (
	"context"

	"github.com/totegamma/funnelbuilder/internal/domain"
)

// FunnelRepository defines storage operations for funnels.
type FunnelRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Funnel, error)
	Get(ctx context.Context, id string) (domain.Funnel, error)
	Create(ctx context.Context, funnel domain.Funnel) (domain.Funnel, error)
	Rename(ctx context.Context, id, name string) (domain.Funnel, error)
}

// PageRepository defines storage operations for funnel pages.
type PageRepository interface {
	ListByFunnel(ctx context.Context, funnelID string) ([]domain.Page, error)
	Create(ctx context.Context, page domain.Page) (domain.Page, error)
}
