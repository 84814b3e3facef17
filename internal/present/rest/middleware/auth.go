package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/funnelbuilder"
	"github.com/totegamma/funnelbuilder/initdata"
	"github.com/totegamma/funnelbuilder/internal/domain"
	"github.com/totegamma/funnelbuilder/internal/present/rest/presenter"
	"github.com/totegamma/funnelbuilder/internal/service"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		auth: auth,
	}
}

// IdentifyIdentity verifies the launch payload, if one is present, and puts
// the requester into the request context. Rejections are recorded, not answered.
func (s *AuthMiddleware) IdentifyIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.IdentifyIdentity")
		defer span.End()

		payload, err := launchPayload(c)
		if err != nil {
			span.RecordError(err)
			ctx = context.WithValue(ctx, domain.AuthRejectionCtxKey, string(initdata.MalformedPayload))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
		if payload == "" {
			ctx = context.WithValue(ctx, domain.AuthRejectionCtxKey, string(initdata.MissingSignature))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}

		result, err := s.auth.AuthInitData(ctx, payload)
		if err != nil {
			span.RecordError(errors.Wrap(err, "AuthMiddleware.IdentifyIdentity: s.auth.AuthInitData failed"))
			ctx = context.WithValue(ctx, domain.AuthRejectionCtxKey, string(initdata.ReasonOf(err)))
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}

		ctx = context.WithValue(ctx, domain.RequesterIdCtxKey, result.Principal.ID)
		ctx = context.WithValue(ctx, domain.RequesterPrincipalCtxKey, result.Principal)
		ctx = context.WithValue(ctx, domain.RequesterLaunchCtxKey, result.Launch)
		span.SetAttributes(attribute.String("RequesterId", result.Principal.ID))

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// RequireIdentity answers 401 unless IdentifyIdentity accepted the requester.
func (s *AuthMiddleware) RequireIdentity(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if _, ok := ctx.Value(domain.RequesterIdCtxKey).(string); ok {
			return next(c)
		}

		reason, _ := ctx.Value(domain.AuthRejectionCtxKey).(string)
		if reason == "" {
			reason = string(initdata.MissingSignature)
		}
		return presenter.Unauthorized(c, reason)
	}
}

// launchPayload takes the payload from "Authorization: tma <payload>" or,
// for websocket upgrades, the initData query parameter.
func launchPayload(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header != "" {
		scheme, credentials, err := funnelbuilder.ParseAuthorization(header)
		if err != nil {
			return "", err
		}
		if !strings.EqualFold(scheme, domain.AuthorizationScheme) {
			return "", errors.Errorf("only %s is acceptable", domain.AuthorizationScheme)
		}
		return credentials, nil
	}
	return c.QueryParam(domain.InitDataQueryParam), nil
}

// RequesterID returns the verified requester id, if any.
func RequesterID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(domain.RequesterIdCtxKey).(string)
	return id, ok
}
