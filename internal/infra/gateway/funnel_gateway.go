package gateway

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/totegamma/funnelbuilder/client"
	"github.com/totegamma/funnelbuilder/internal/domain"
)

const (
	funnelsTable = "funnels"
	pagesTable   = "pages"
)

// FunnelGateway stores funnels in a hosted PostgREST backend.
type FunnelGateway struct {
	client *client.Client
}

func NewFunnelGateway(cl *client.Client) *FunnelGateway {
	return &FunnelGateway{client: cl}
}

func (g *FunnelGateway) ListByUser(ctx context.Context, userID string) ([]domain.Funnel, error) {
	funnels := []domain.Funnel{}
	err := g.client.From(funnelsTable).
		Select("*").
		Eq("user_id", userID).
		Order("created_at", false).
		Execute(ctx, &funnels)
	if err != nil {
		return nil, err
	}
	return funnels, nil
}

// Get reports ids that cannot be uuids as not found; the hosted table would
// reject them with a 400.
func (g *FunnelGateway) Get(ctx context.Context, id string) (domain.Funnel, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Funnel{}, domain.NotFoundError{Resource: "funnel"}
	}

	var funnels []domain.Funnel
	err := g.client.From(funnelsTable).
		Select("*").
		Eq("id", id).
		Limit(1).
		Execute(ctx, &funnels)
	if err != nil {
		return domain.Funnel{}, err
	}
	if len(funnels) == 0 {
		return domain.Funnel{}, domain.NotFoundError{Resource: "funnel"}
	}
	return funnels[0], nil
}

func (g *FunnelGateway) Create(ctx context.Context, funnel domain.Funnel) (domain.Funnel, error) {
	funnel.ID = uuid.NewString()
	funnel.CreatedAt = time.Now().UTC()
	if funnel.Status == "" {
		funnel.Status = domain.FunnelStatusDraft
	}

	var created []domain.Funnel
	if err := g.client.From(funnelsTable).Insert(ctx, funnel, &created); err != nil {
		return domain.Funnel{}, err
	}
	if len(created) == 0 {
		return funnel, nil
	}
	return created[0], nil
}

func (g *FunnelGateway) Rename(ctx context.Context, id, name string) (domain.Funnel, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Funnel{}, domain.NotFoundError{Resource: "funnel"}
	}

	var updated []domain.Funnel
	err := g.client.From(funnelsTable).
		Eq("id", id).
		Update(ctx, map[string]string{"name": name}, &updated)
	if err != nil {
		return domain.Funnel{}, err
	}
	if len(updated) == 0 {
		return domain.Funnel{}, domain.NotFoundError{Resource: "funnel"}
	}
	return updated[0], nil
}

// PageGateway stores pages in a hosted PostgREST backend.
type PageGateway struct {
	client *client.Client
}

func NewPageGateway(cl *client.Client) *PageGateway {
	return &PageGateway{client: cl}
}

func (g *PageGateway) ListByFunnel(ctx context.Context, funnelID string) ([]domain.Page, error) {
	if _, err := uuid.Parse(funnelID); err != nil {
		return []domain.Page{}, nil
	}

	pages := []domain.Page{}
	err := g.client.From(pagesTable).
		Select("*").
		Eq("funnel_id", funnelID).
		Order("order_position", true).
		Execute(ctx, &pages)
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (g *PageGateway) Create(ctx context.Context, page domain.Page) (domain.Page, error) {
	page.ID = uuid.NewString()
	page.CreatedAt = time.Now().UTC()

	var created []domain.Page
	if err := g.client.From(pagesTable).Insert(ctx, page, &created); err != nil {
		return domain.Page{}, err
	}
	if len(created) == 0 {
		return page, nil
	}
	return created[0], nil
}
