package rest

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/totegamma/funnelbuilder"
	"github.com/totegamma/funnelbuilder/initdata"
	"github.com/totegamma/funnelbuilder/internal/bridge"
	"github.com/totegamma/funnelbuilder/internal/domain"
	"github.com/totegamma/funnelbuilder/internal/present/rest/middleware"
	"github.com/totegamma/funnelbuilder/internal/present/rest/presenter"
	"github.com/totegamma/funnelbuilder/internal/usecase"
)

// Subscriber streams the bridge events published for one user.
type Subscriber interface {
	Realtime(ctx context.Context, channel string, output chan<- funnelbuilder.Event, subscribed func()) error
}

// ThemeStore keeps the theme a client last reported.
type ThemeStore interface {
	SetTheme(ctx context.Context, userID string, theme funnelbuilder.ThemeParams) error
}

type Handler struct {
	funnel  *usecase.FunnelUsecase
	bridges bridge.Provider
	signal  Subscriber
	themes  ThemeStore
	auth    *middleware.AuthMiddleware
	limiter *middleware.RateLimiter
}

func NewHandler(
	funnel *usecase.FunnelUsecase,
	bridges bridge.Provider,
	signal Subscriber,
	themes ThemeStore,
	auth *middleware.AuthMiddleware,
	limiter *middleware.RateLimiter,
) *Handler {
	if bridges == nil {
		bridges = bridge.NoopProvider{}
	}
	return &Handler{
		funnel:  funnel,
		bridges: bridges,
		signal:  signal,
		themes:  themes,
		auth:    auth,
		limiter: limiter,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.handleHealth)

	guards := []echo.MiddlewareFunc{h.auth.RequireIdentity}
	if h.limiter != nil {
		guards = append(guards, h.limiter.Limit)
	}

	api := e.Group("/api/v1", guards...)
	api.GET("/me", h.handleMe)
	api.GET("/theme", h.handleTheme)
	api.GET("/funnels", h.handleListFunnels)
	api.POST("/funnels", h.handleCreateFunnel)
	api.GET("/funnels/:id", h.handleOpenFunnel)
	api.PATCH("/funnels/:id", h.handleRenameFunnel)
	api.GET("/funnels/:id/pages", h.handleListPages)
	api.POST("/funnels/:id/pages", h.handleAppendPage)

	e.GET("/realtime", h.handleRealtime, guards...)
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func requester(c echo.Context) string {
	id, _ := middleware.RequesterID(c.Request().Context())
	return id
}

func (h *Handler) handleMe(c echo.Context) error {
	ctx := c.Request().Context()
	principal, _ := ctx.Value(domain.RequesterPrincipalCtxKey).(initdata.Principal)
	launch, _ := ctx.Value(domain.RequesterLaunchCtxKey).(initdata.LaunchContext)
	return presenter.OK(c, echo.Map{
		"principal": principal,
		"launch":    launch,
	})
}

func (h *Handler) handleTheme(c echo.Context) error {
	ctx := c.Request().Context()
	return presenter.OK(c, h.bridges.For(requester(c)).Theme(ctx))
}

func (h *Handler) handleListFunnels(c echo.Context) error {
	ctx := c.Request().Context()

	funnels, err := h.funnel.ListFunnels(ctx, requester(c))
	if err != nil {
		return fail(c, err)
	}
	if funnels == nil {
		funnels = []domain.Funnel{}
	}
	return presenter.Tagged(c, funnels)
}

func (h *Handler) handleCreateFunnel(c echo.Context) error {
	ctx := c.Request().Context()

	var req funnelbuilder.CreateFunnelRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return presenter.BadRequestMessage(c, "invalid request body")
		}
	}

	created, err := h.funnel.CreateFunnel(ctx, requester(c), usecase.CreateFunnelInput{Name: req.Name})
	if err != nil {
		return fail(c, err)
	}
	return presenter.Created(c, created)
}

func (h *Handler) handleOpenFunnel(c echo.Context) error {
	ctx := c.Request().Context()

	detail, err := h.funnel.OpenFunnel(ctx, requester(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if detail.Pages == nil {
		detail.Pages = []domain.Page{}
	}
	return presenter.OK(c, detail)
}

func (h *Handler) handleRenameFunnel(c echo.Context) error {
	ctx := c.Request().Context()

	var req funnelbuilder.RenameFunnelRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequestMessage(c, "invalid request body")
	}

	renamed, err := h.funnel.RenameFunnel(ctx, requester(c), c.Param("id"), req.Name)
	if err != nil {
		return fail(c, err)
	}
	return presenter.OK(c, renamed)
}

func (h *Handler) handleListPages(c echo.Context) error {
	ctx := c.Request().Context()

	pages, err := h.funnel.ListPages(ctx, requester(c), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if pages == nil {
		pages = []domain.Page{}
	}
	return presenter.Tagged(c, pages)
}

func (h *Handler) handleAppendPage(c echo.Context) error {
	ctx := c.Request().Context()

	var req funnelbuilder.AppendPageRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return presenter.BadRequestMessage(c, "invalid request body")
		}
	}

	page, err := h.funnel.AppendPage(ctx, requester(c), c.Param("id"), usecase.AppendPageInput{
		Name: req.Name,
		Type: req.Type,
	})
	if err != nil {
		return fail(c, err)
	}
	return presenter.Created(c, page)
}

func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		var nf domain.NotFoundError
		if errors.As(err, &nf) {
			return presenter.NotFound(c, nf.Error())
		}
		return presenter.NotFound(c, "not found")
	case errors.Is(err, domain.ErrValidation):
		var ve domain.ValidationError
		if errors.As(err, &ve) {
			return presenter.BadRequestMessage(c, ve.Error())
		}
		return presenter.BadRequestMessage(c, "invalid request")
	default:
		return presenter.InternalError(c, err)
	}
}
