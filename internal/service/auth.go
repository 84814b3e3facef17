package service

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/funnelbuilder/initdata"
	"github.com/totegamma/funnelbuilder/internal/domain"
)

var tracer = otel.Tracer("auth")

const defaultCacheTTL = 5 * time.Minute

// VerificationObserver counts gate outcomes.
type VerificationObserver interface {
	ObserveVerification(outcome string)
}

type AuthService struct {
	config   *domain.Config
	cache    *cache.Cache
	observer VerificationObserver
	now      func() time.Time
}

func NewAuthService(
	config *domain.Config,
	observer VerificationObserver,
	now func() time.Time,
) *AuthService {
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		config:   config,
		cache:    cache.New(defaultCacheTTL, 10*time.Minute),
		observer: observer,
		now:      now,
	}
}

type AuthResult struct {
	Principal initdata.Principal
	Launch    initdata.LaunchContext
}

type cachedAuth struct {
	result    AuthResult
	expiresAt time.Time
}

// AuthInitData verifies a launch payload. Rejections are returned as
// *initdata.RejectedError.
func (s *AuthService) AuthInitData(ctx context.Context, payload string) (*AuthResult, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.AuthInitData")
	defer span.End()

	now := s.now()

	if x, found := s.cache.Get(payload); found {
		entry := x.(cachedAuth)
		if now.Before(entry.expiresAt) {
			span.SetAttributes(attribute.Bool("CacheHit", true))
			s.observe("")
			result := entry.result
			return &result, nil
		}
		s.cache.Delete(payload)
	}

	res := initdata.Verify(payload, []byte(s.config.BotToken), s.config.MaxAge, func() time.Time { return now })
	s.observe(string(res.Reason()))

	principal, ok := res.Principal()
	if !ok {
		err := res.Err()
		span.RecordError(errors.Wrap(err, "initdata verification failed"))
		return nil, err
	}

	result := AuthResult{Principal: principal, Launch: res.Launch()}
	span.SetAttributes(attribute.String("RequesterId", principal.ID))

	ttl := defaultCacheTTL
	if s.config.MaxAge > 0 {
		remaining := res.Launch().AuthDate.Add(s.config.MaxAge).Sub(now)
		if remaining < ttl {
			ttl = remaining
		}
	}
	if ttl > 0 {
		s.cache.Set(payload, cachedAuth{result: result, expiresAt: now.Add(ttl)}, ttl)
	}

	return &result, nil
}

func (s *AuthService) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveVerification(outcome)
	}
}
