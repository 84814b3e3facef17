package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/totegamma/funnelbuilder/client"
	"github.com/totegamma/funnelbuilder/internal/bridge"
	"github.com/totegamma/funnelbuilder/internal/config"
	"github.com/totegamma/funnelbuilder/internal/infra/database"
	"github.com/totegamma/funnelbuilder/internal/infra/gateway"
	"github.com/totegamma/funnelbuilder/internal/infra/repository"
	"github.com/totegamma/funnelbuilder/internal/present/rest"
	restmw "github.com/totegamma/funnelbuilder/internal/present/rest/middleware"
	"github.com/totegamma/funnelbuilder/internal/service"
	"github.com/totegamma/funnelbuilder/internal/telemetry"
	"github.com/totegamma/funnelbuilder/internal/usecase"
)

func main() {
	configPath := flag.String("config", os.Getenv("FUNNELBUILDER_CONFIG"), "path to config yaml")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(conf.Server.LogLevel),
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, conf.Server.ServiceName, conf.Server.TraceEndpoint, conf.Server.EnableTrace)
	if err != nil {
		slog.Error("failed to setup tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer shutdownTracing(context.Background())

	metrics := telemetry.NewMetrics()

	var funnels usecase.FunnelRepository
	var pages usecase.PageRepository
	switch conf.Server.Store {
	case config.StoreSupabase:
		cl := client.New(conf.Server.SupabaseURL, conf.Server.SupabaseKey)
		funnels = gateway.NewFunnelGateway(cl)
		pages = gateway.NewPageGateway(cl)
	default:
		db, err := database.NewPostgres(conf.Server.PostgresDsn)
		if err != nil {
			slog.Error("failed to connect database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := database.MigratePostgres(db); err != nil {
			slog.Error("failed to migrate database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		funnels = repository.NewFunnelRepository(db)
		pages = repository.NewPageRepository(db)
	}

	if conf.Server.MemcachedAddr != "" {
		funnels = repository.NewCachedFunnelRepository(funnels, database.NewMemcached(conf.Server.MemcachedAddr))
	}

	var bridges bridge.Provider = bridge.NoopProvider{}
	var subscriber rest.Subscriber
	var themes rest.ThemeStore
	if conf.Server.RedisAddr != "" {
		rdb, err := database.NewRedis(ctx, conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)
		if err != nil {
			slog.Warn(
				"redis unavailable, host bridge disabled",
				slog.String("error", err.Error()),
				slog.String("module", "main"),
			)
		} else {
			defer rdb.Close()
			signalService := service.NewSignalService(rdb)
			themeRepo := repository.NewThemeRepository(rdb)
			bridges = bridge.NewHostProvider(signalService, themeRepo)
			subscriber = signalService
			themes = themeRepo
		}
	}

	authService := service.NewAuthService(conf.Domain(), metrics, nil)
	authMiddleware := restmw.NewAuthMiddleware(authService)
	limiter := restmw.NewRateLimiter(conf.Server.RateLimit, conf.Server.RateBurst)
	funnelUsecase := usecase.NewFunnelUsecase(funnels, pages, bridges)
	handler := rest.NewHandler(funnelUsecase, bridges, subscriber, themes, authMiddleware, limiter)

	e := echo.New()
	e.HideBanner = true
	e.Use(restmw.AccessLog(os.Stdout))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(otelecho.Middleware(conf.Server.ServiceName))
	e.Use(restmw.Observe(metrics))
	e.Use(authMiddleware.IdentifyIdentity)

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	handler.RegisterRoutes(e)

	go func() {
		if err := e.Start(conf.Server.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
