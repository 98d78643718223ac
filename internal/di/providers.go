package di

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Merctxt/contrl-financeiro/internal/app"
	"github.com/Merctxt/contrl-financeiro/internal/config"
	"github.com/Merctxt/contrl-financeiro/internal/database"
	"github.com/Merctxt/contrl-financeiro/internal/http/handler"
	"github.com/Merctxt/contrl-financeiro/internal/http/middleware"
	"github.com/Merctxt/contrl-financeiro/internal/http/router"
	"github.com/Merctxt/contrl-financeiro/internal/observability"
	"github.com/Merctxt/contrl-financeiro/internal/repository"
	"github.com/Merctxt/contrl-financeiro/internal/security"
	"github.com/Merctxt/contrl-financeiro/internal/service"
)

var ConfigSet = wire.NewSet(config.Load)

var ObservabilitySet = wire.NewSet(observability.NewLogger)

var DatabaseSet = wire.NewSet(provideDB)

var RepositorySet = wire.NewSet(
	repository.NewUserRepository,
	repository.NewSessionRepository,
)

var SecuritySet = wire.NewSet(provideTokenManager)

var ServiceSet = wire.NewSet(
	provideNotifier,
	provideAuthService,
	provideSessionService,
)

var HTTPSet = wire.NewSet(
	handler.NewAuthHandler,
	handler.NewSessionHandler,
	provideAuthenticator,
	provideLimiter,
	provideRouterDependencies,
	provideRouterHandler,
	provideHTTPServer,
)

var AppSet = wire.NewSet(app.New)

func provideDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func provideTokenManager(cfg *config.Config) *security.TokenManager {
	return security.NewTokenManager(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret)
}

func provideNotifier(logger *slog.Logger) service.PasswordResetNotifier {
	return service.NewDevPasswordResetNotifier(logger)
}

func provideAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	tokens *security.TokenManager,
	notifier service.PasswordResetNotifier,
	cfg *config.Config,
	logger *slog.Logger,
) service.AuthServiceInterface {
	return service.NewAuthService(users, sessions, tokens, notifier, cfg, logger)
}

func provideSessionService(sessions repository.SessionRepository, cfg *config.Config, logger *slog.Logger) service.SessionServiceInterface {
	return service.NewSessionService(sessions, cfg.SessionInactiveTTL, logger)
}

func provideAuthenticator(tokens *security.TokenManager, sessions repository.SessionRepository, cfg *config.Config, logger *slog.Logger) *middleware.Authenticator {
	return middleware.NewAuthenticator(tokens, sessions, cfg.TokenHashPepper, logger)
}

// provideLimiter prefers the shared Redis counter so limits hold across
// instances; without a Redis address it falls back to per-process counting.
func provideLimiter(cfg *config.Config, logger *slog.Logger) middleware.Limiter {
	if cfg.RedisAddr == "" {
		logger.Info("rate limiting with in-process counters")
		return middleware.NewLocalFixedWindowLimiter()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	logger.Info("rate limiting with redis counters", "addr", cfg.RedisAddr)
	return middleware.NewRedisFixedWindowLimiter(client, "rl")
}

func provideRouterDependencies(
	authHandler *handler.AuthHandler,
	sessionHandler *handler.SessionHandler,
	authenticator *middleware.Authenticator,
	limiter middleware.Limiter,
	tokens *security.TokenManager,
	cfg *config.Config,
	logger *slog.Logger,
) router.Dependencies {
	return router.Dependencies{
		AuthHandler:    authHandler,
		SessionHandler: sessionHandler,
		Authenticator:  authenticator,
		Limiter:        limiter,
		AuthKeyFn:      nil,
		APIKeyFn:       middleware.SubjectOrIPKeyFunc(tokens),
		AuthRPM:        cfg.AuthRateLimitPerMin,
		APIRPM:         cfg.APIRateLimitPerMin,
		Logger:         logger,
	}
}

func provideRouterHandler(dep router.Dependencies) http.Handler {
	return router.New(dep)
}

func provideHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
