package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/totegamma/funnelbuilder/internal/bridge"
	"github.com/totegamma/funnelbuilder/internal/domain"
)

var tracer = otel.Tracer("usecase")

var (
	homeMainButton   = bridge.MainButton{Text: "New Funnel", Visible: true, Active: true}
	funnelMainButton = bridge.MainButton{Text: "Add Page", Visible: true, Active: true}
)

type CreateFunnelInput struct {
	Name string
}

type AppendPageInput struct {
	Name string
	Type string
}

type FunnelUsecase struct {
	funnels FunnelRepository
	pages   PageRepository
	bridges bridge.Provider
}

func NewFunnelUsecase(funnels FunnelRepository, pages PageRepository, bridges bridge.Provider) *FunnelUsecase {
	if bridges == nil {
		bridges = bridge.NoopProvider{}
	}
	return &FunnelUsecase{
		funnels: funnels,
		pages:   pages,
		bridges: bridges,
	}
}

// ListFunnels returns the user's funnels, newest first. This is the home view,
// so the host back button is hidden.
func (uc *FunnelUsecase) ListFunnels(ctx context.Context, userID string) ([]domain.Funnel, error) {
	ctx, span := tracer.Start(ctx, "Funnel.Usecase.ListFunnels")
	defer span.End()

	funnels, err := uc.funnels.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, pkgerrors.Wrap(err, "list funnels")
	}

	uc.feedback(ctx, userID, func(b bridge.Bridge) error {
		if err := b.SetBackButton(ctx, false); err != nil {
			return err
		}
		return b.SetMainButton(ctx, homeMainButton)
	})

	return funnels, nil
}

func (uc *FunnelUsecase) CreateFunnel(ctx context.Context, userID string, input CreateFunnelInput) (domain.Funnel, error) {
	ctx, span := tracer.Start(ctx, "Funnel.Usecase.CreateFunnel")
	defer span.End()

	name, err := normalizeName(input.Name, domain.DefaultFunnelName)
	if err != nil {
		return domain.Funnel{}, err
	}

	created, err := uc.funnels.Create(ctx, domain.Funnel{
		UserID: userID,
		Name:   name,
		Status: domain.FunnelStatusDraft,
	})
	if err != nil {
		span.RecordError(err)
		return domain.Funnel{}, pkgerrors.Wrap(err, "create funnel")
	}
	span.SetAttributes(attribute.String("FunnelId", created.ID))

	uc.enterFunnelView(ctx, userID)

	return created, nil
}

// OpenFunnel returns the funnel with its pages.
func (uc *FunnelUsecase) OpenFunnel(ctx context.Context, userID, funnelID string) (domain.FunnelDetail, error) {
	ctx, span := tracer.Start(ctx, "Funnel.Usecase.OpenFunnel")
	defer span.End()

	funnel, err := uc.ownedFunnel(ctx, userID, funnelID)
	if err != nil {
		span.RecordError(err)
		return domain.FunnelDetail{}, err
	}

	pages, err := uc.pages.ListByFunnel(ctx, funnel.ID)
	if err != nil {
		span.RecordError(err)
		return domain.FunnelDetail{}, pkgerrors.Wrap(err, "list pages")
	}

	uc.enterFunnelView(ctx, userID)

	return domain.FunnelDetail{Funnel: funnel, Pages: pages}, nil
}

func (uc *FunnelUsecase) RenameFunnel(ctx context.Context, userID, funnelID, name string) (domain.Funnel, error) {
	ctx, span := tracer.Start(ctx, "Funnel.Usecase.RenameFunnel")
	defer span.End()

	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return domain.Funnel{}, domain.ValidationError{Field: "name", Message: "too long"}
	}

	if _, err := uc.ownedFunnel(ctx, userID, funnelID); err != nil {
		span.RecordError(err)
		return domain.Funnel{}, err
	}

	renamed, err := uc.funnels.Rename(ctx, funnelID, name)
	if err != nil {
		span.RecordError(err)
		return domain.Funnel{}, pkgerrors.Wrap(err, "rename funnel")
	}

	uc.feedback(ctx, userID, func(b bridge.Bridge) error {
		return b.SelectionChanged(ctx)
	})

	return renamed, nil
}

func (uc *FunnelUsecase) ListPages(ctx context.Context, userID, funnelID string) ([]domain.Page, error) {
	ctx, span := tracer.Start(ctx, "Funnel.Usecase.ListPages")
	defer span.End()

	if _, err := uc.ownedFunnel(ctx, userID, funnelID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	pages, err := uc.pages.ListByFunnel(ctx, funnelID)
	if err != nil {
		span.RecordError(err)
		return nil, pkgerrors.Wrap(err, "list pages")
	}
	return pages, nil
}

// AppendPage adds a page after the funnel's existing pages.
func (uc *FunnelUsecase) AppendPage(ctx context.Context, userID, funnelID string, input AppendPageInput) (domain.Page, error) {
	ctx, span := tracer.Start(ctx, "Funnel.Usecase.AppendPage")
	defer span.End()

	name, err := normalizeName(input.Name, domain.DefaultPageName)
	if err != nil {
		return domain.Page{}, err
	}
	pageType, err := normalizeName(input.Type, domain.DefaultPageType)
	if err != nil {
		return domain.Page{}, domain.ValidationError{Field: "type", Message: "too long"}
	}

	if _, err := uc.ownedFunnel(ctx, userID, funnelID); err != nil {
		span.RecordError(err)
		return domain.Page{}, err
	}

	existing, err := uc.pages.ListByFunnel(ctx, funnelID)
	if err != nil {
		span.RecordError(err)
		return domain.Page{}, pkgerrors.Wrap(err, "list pages")
	}

	page, err := uc.pages.Create(ctx, domain.Page{
		FunnelID:      funnelID,
		Name:          name,
		Type:          pageType,
		OrderPosition: len(existing) + 1,
	})
	if err != nil {
		span.RecordError(err)
		return domain.Page{}, pkgerrors.Wrap(err, "create page")
	}

	uc.feedback(ctx, userID, func(b bridge.Bridge) error {
		return b.ImpactOccurred(ctx, bridge.ImpactLight)
	})

	return page, nil
}

// ownedFunnel hides funnels of other users behind a not-found error.
func (uc *FunnelUsecase) ownedFunnel(ctx context.Context, userID, funnelID string) (domain.Funnel, error) {
	funnel, err := uc.funnels.Get(ctx, funnelID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Funnel{}, domain.NotFoundError{Resource: "funnel"}
		}
		return domain.Funnel{}, pkgerrors.Wrap(err, "get funnel")
	}
	if funnel.UserID != userID {
		return domain.Funnel{}, domain.NotFoundError{Resource: "funnel"}
	}
	return funnel, nil
}

func (uc *FunnelUsecase) enterFunnelView(ctx context.Context, userID string) {
	uc.feedback(ctx, userID, func(b bridge.Bridge) error {
		if err := b.ImpactOccurred(ctx, bridge.ImpactLight); err != nil {
			return err
		}
		if err := b.SetBackButton(ctx, true); err != nil {
			return err
		}
		return b.SetMainButton(ctx, funnelMainButton)
	})
}

// feedback drives the host UI. Failures are logged, never returned.
func (uc *FunnelUsecase) feedback(ctx context.Context, userID string, fn func(bridge.Bridge) error) {
	if err := fn(uc.bridges.For(userID)); err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
		slog.WarnContext(
			ctx, "host bridge call failed",
			slog.String("error", err.Error()),
			slog.String("module", "usecase"),
		)
	}
}

func normalizeName(name, fallback string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback, nil
	}
	if utf8.RuneCountInString(name) > domain.MaxNameLength {
		return "", domain.ValidationError{Field: "name", Message: "too long"}
	}
	return name, nil
}
