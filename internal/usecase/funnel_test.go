package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/totegamma/funnelbuilder/internal/bridge"
	"github.com/totegamma/funnelbuilder/internal/domain"
)

type mockFunnelRepo struct {
	funnels map[string]domain.Funnel
	renamed string
	nextID  int
}

func newMockFunnelRepo(funnels ...domain.Funnel) *mockFunnelRepo {
	m := &mockFunnelRepo{funnels: map[string]domain.Funnel{}}
	for _, f := range funnels {
		m.funnels[f.ID] = f
	}
	return m
}

func (m *mockFunnelRepo) ListByUser(ctx context.Context, userID string) ([]domain.Funnel, error) {
	var out []domain.Funnel
	for _, f := range m.funnels {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockFunnelRepo) Get(ctx context.Context, id string) (domain.Funnel, error) {
	f, ok := m.funnels[id]
	if !ok {
		return domain.Funnel{}, domain.NotFoundError{Resource: "funnel"}
	}
	return f, nil
}

func (m *mockFunnelRepo) Create(ctx context.Context, funnel domain.Funnel) (domain.Funnel, error) {
	m.nextID++
	funnel.ID = fmt.Sprintf("f%d", m.nextID)
	funnel.CreatedAt = time.Now()
	m.funnels[funnel.ID] = funnel
	return funnel, nil
}

func (m *mockFunnelRepo) Rename(ctx context.Context, id, name string) (domain.Funnel, error) {
	f := m.funnels[id]
	f.Name = name
	m.funnels[id] = f
	m.renamed = id
	return f, nil
}

type mockPageRepo struct {
	pages []domain.Page
}

func (m *mockPageRepo) ListByFunnel(ctx context.Context, funnelID string) ([]domain.Page, error) {
	var out []domain.Page
	for _, p := range m.pages {
		if p.FunnelID == funnelID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPageRepo) Create(ctx context.Context, page domain.Page) (domain.Page, error) {
	page.ID = fmt.Sprintf("p%d", len(m.pages)+1)
	m.pages = append(m.pages, page)
	return page, nil
}

type recordingBridge struct {
	bridge.Noop
	calls []string
	fail  bool
}

func (r *recordingBridge) SetBackButton(ctx context.Context, visible bool) error {
	r.calls = append(r.calls, fmt.Sprintf("back:%v", visible))
	if r.fail {
		return errors.New("publish failed")
	}
	return nil
}

func (r *recordingBridge) ImpactOccurred(ctx context.Context, style bridge.ImpactStyle) error {
	r.calls = append(r.calls, "impact:"+string(style))
	if r.fail {
		return errors.New("publish failed")
	}
	return nil
}

func (r *recordingBridge) SetMainButton(ctx context.Context, button bridge.MainButton) error {
	r.calls = append(r.calls, "main:"+button.Text)
	if r.fail {
		return errors.New("publish failed")
	}
	return nil
}

func (r *recordingBridge) SelectionChanged(ctx context.Context) error {
	r.calls = append(r.calls, "selection")
	if r.fail {
		return errors.New("publish failed")
	}
	return nil
}

type recordingProvider struct {
	bridge *recordingBridge
	users  []string
}

func (p *recordingProvider) For(userID string) bridge.Bridge {
	p.users = append(p.users, userID)
	return p.bridge
}

func TestFunnelUsecaseCreateDefaults(t *testing.T) {
	repo := newMockFunnelRepo()
	provider := &recordingProvider{bridge: &recordingBridge{}}
	uc := NewFunnelUsecase(repo, &mockPageRepo{}, provider)

	created, err := uc.CreateFunnel(context.Background(), "42", CreateFunnelInput{Name: "   "})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Name != domain.DefaultFunnelName || created.Status != domain.FunnelStatusDraft || created.UserID != "42" {
		t.Fatalf("unexpected funnel %+v", created)
	}

	calls := strings.Join(provider.bridge.calls, ",")
	if calls != "impact:light,back:true,main:Add Page" {
		t.Fatalf("unexpected bridge calls %s", calls)
	}
	if provider.users[0] != "42" {
		t.Fatalf("bridge requested for wrong user %v", provider.users)
	}
}

func TestFunnelUsecaseListHidesBackButton(t *testing.T) {
	repo := newMockFunnelRepo(
		domain.Funnel{ID: "a", UserID: "42"},
		domain.Funnel{ID: "b", UserID: "7"},
	)
	provider := &recordingProvider{bridge: &recordingBridge{}}
	uc := NewFunnelUsecase(repo, &mockPageRepo{}, provider)

	funnels, err := uc.ListFunnels(context.Background(), "42")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(funnels) != 1 || funnels[0].ID != "a" {
		t.Fatalf("unexpected funnels %+v", funnels)
	}
	calls := strings.Join(provider.bridge.calls, ",")
	if calls != "back:false,main:New Funnel" {
		t.Fatalf("unexpected bridge calls %s", calls)
	}
}

func TestFunnelUsecaseBridgeFailureIsIgnored(t *testing.T) {
	repo := newMockFunnelRepo()
	provider := &recordingProvider{bridge: &recordingBridge{fail: true}}
	uc := NewFunnelUsecase(repo, &mockPageRepo{}, provider)

	if _, err := uc.CreateFunnel(context.Background(), "42", CreateFunnelInput{Name: "Launch"}); err != nil {
		t.Fatalf("bridge failure must not fail the operation: %v", err)
	}
}

func TestFunnelUsecaseRename(t *testing.T) {
	repo := newMockFunnelRepo(domain.Funnel{ID: "a", UserID: "42", Name: "old"})
	provider := &recordingProvider{bridge: &recordingBridge{}}
	uc := NewFunnelUsecase(repo, &mockPageRepo{}, provider)

	renamed, err := uc.RenameFunnel(context.Background(), "42", "a", "Spring sale")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if renamed.Name != "Spring sale" || repo.renamed != "a" {
		t.Fatalf("unexpected rename result %+v", renamed)
	}
	if len(provider.bridge.calls) != 1 || provider.bridge.calls[0] != "selection" {
		t.Fatalf("unexpected bridge calls %v", provider.bridge.calls)
	}

	_, err = uc.RenameFunnel(context.Background(), "42", "a", strings.Repeat("x", domain.MaxNameLength+1))
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFunnelUsecaseForeignFunnelIsNotFound(t *testing.T) {
	repo := newMockFunnelRepo(domain.Funnel{ID: "a", UserID: "7"})
	pages := &mockPageRepo{}
	uc := NewFunnelUsecase(repo, pages, nil)
	ctx := context.Background()

	if _, err := uc.RenameFunnel(ctx, "42", "a", "mine now"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on rename, got %v", err)
	}
	if repo.renamed != "" {
		t.Fatalf("foreign funnel must not be renamed")
	}
	if _, err := uc.AppendPage(ctx, "42", "a", AppendPageInput{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on append, got %v", err)
	}
	if len(pages.pages) != 0 {
		t.Fatalf("no page may be created in a foreign funnel")
	}
	if _, err := uc.ListPages(ctx, "42", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on missing funnel, got %v", err)
	}
}

func TestFunnelUsecaseAppendPagePositions(t *testing.T) {
	repo := newMockFunnelRepo(
		domain.Funnel{ID: "a", UserID: "42"},
		domain.Funnel{ID: "b", UserID: "42"},
	)
	pages := &mockPageRepo{pages: []domain.Page{{ID: "x", FunnelID: "b", OrderPosition: 1}}}
	uc := NewFunnelUsecase(repo, pages, nil)
	ctx := context.Background()

	first, err := uc.AppendPage(ctx, "42", "a", AppendPageInput{})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if first.OrderPosition != 1 || first.Name != domain.DefaultPageName || first.Type != domain.DefaultPageType {
		t.Fatalf("unexpected first page %+v", first)
	}

	second, err := uc.AppendPage(ctx, "42", "a", AppendPageInput{Name: "Checkout", Type: "checkout"})
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if second.OrderPosition != 2 || second.Name != "Checkout" || second.Type != "checkout" {
		t.Fatalf("unexpected second page %+v", second)
	}

	detail, err := uc.OpenFunnel(ctx, "42", "a")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if len(detail.Pages) != 2 || detail.Funnel.ID != "a" {
		t.Fatalf("unexpected detail %+v", detail)
	}
}
