package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Merctxt/contrl-financeiro/internal/http/handler"
	"github.com/Merctxt/contrl-financeiro/internal/http/middleware"
	"github.com/Merctxt/contrl-financeiro/internal/http/response"
)

// Dependencies carries everything the router needs, so DI can build it in
// one call and tests can hand in stubs.
type Dependencies struct {
	AuthHandler    *handler.AuthHandler
	SessionHandler *handler.SessionHandler
	Authenticator  *middleware.Authenticator

	Limiter   middleware.Limiter
	AuthKeyFn func(r *http.Request) string
	APIKeyFn  func(r *http.Request) string
	AuthRPM   int
	APIRPM    int
	Logger    *slog.Logger
}

func New(dep Dependencies) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		response.JSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Credential endpoints fail closed when the limiter backend is down;
	// brute force protection outranks availability there.
	authLimiter := middleware.NewRateLimiter(
		dep.Limiter, dep.AuthRPM, time.Minute, middleware.FailClosed, "auth", dep.AuthKeyFn, dep.Logger)
	apiLimiter := middleware.NewRateLimiter(
		dep.Limiter, dep.APIRPM, time.Minute, middleware.FailOpen, "api", dep.APIKeyFn, dep.Logger)

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter.Middleware())
			r.Post("/register", dep.AuthHandler.Register)
			r.Post("/login", dep.AuthHandler.Login)
			r.Post("/forgot-password", dep.AuthHandler.ForgotPassword)
			r.Get("/validate-reset-token/{token}", dep.AuthHandler.ValidateResetToken)
			r.Post("/reset-password", dep.AuthHandler.ResetPassword)
		})
		r.Group(func(r chi.Router) {
			r.Use(apiLimiter.Middleware())
			r.Use(dep.Authenticator.Middleware())
			r.Get("/profile", dep.AuthHandler.Profile)
		})
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Use(apiLimiter.Middleware())
		r.Use(dep.Authenticator.Middleware())
		r.Get("/", dep.SessionHandler.List)
		r.Delete("/others/all", dep.SessionHandler.RevokeOthers)
		r.Delete("/{id}", dep.SessionHandler.Revoke)
	})

	return r
}
