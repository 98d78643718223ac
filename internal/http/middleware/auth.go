package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Merctxt/contrl-financeiro/internal/http/response"
	"github.com/Merctxt/contrl-financeiro/internal/observability"
	"github.com/Merctxt/contrl-financeiro/internal/repository"
	"github.com/Merctxt/contrl-financeiro/internal/security"
)

// Authenticator gates every protected request: it verifies the bearer
// credential cryptographically, then checks the session registry so a
// revoked session fails even while the credential itself is still valid.
//
// Rejection bodies are deliberately generic; the precise reason (missing,
// malformed, expired, revoked) is only logged. Clients get 401 when no
// credential was presented and 403 for everything else.
type Authenticator struct {
	tokens   *security.TokenManager
	sessions repository.SessionRepository
	pepper   string
	logger   *slog.Logger
}

func NewAuthenticator(tokens *security.TokenManager, sessions repository.SessionRepository, pepper string, logger *slog.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, sessions: sessions, pepper: pepper, logger: logger}
}

func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := BearerToken(r)
			if raw == "" {
				a.logger.InfoContext(r.Context(), "auth rejected", "reason", "missing_credential")
				observability.RecordAuthEvent(r.Context(), "verify", "missing_credential")
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}

			claims, err := a.tokens.Parse(raw)
			if err != nil {
				reason := "invalid_credential"
				if errors.Is(err, security.ErrCredentialExpired) {
					reason = "expired_credential"
				}
				a.logger.InfoContext(r.Context(), "auth rejected", "reason", reason)
				observability.RecordAuthEvent(r.Context(), "verify", reason)
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "invalid or expired session")
				return
			}

			tokenHash := security.HashToken(raw, a.pepper)
			session, err := a.sessions.FindActiveByHash(tokenHash)
			if err != nil {
				if errors.Is(err, repository.ErrSessionNotFound) {
					a.logger.InfoContext(r.Context(), "auth rejected", "reason", "session_revoked")
					observability.RecordAuthEvent(r.Context(), "verify", "session_revoked")
					response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "invalid or expired session")
					return
				}
				a.logger.ErrorContext(r.Context(), "session lookup failed", "error", err)
				observability.RecordAuthEvent(r.Context(), "verify", "error")
				response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "unable to authenticate request")
				return
			}

			// Lookup-by-hash already filtered on equality; the constant-time
			// re-check guards against a future lookup path that doesn't.
			if !security.ConstantTimeEqual(tokenHash, session.TokenHash) {
				a.logger.WarnContext(r.Context(), "auth rejected", "reason", "hash_mismatch", "session_id", session.ID)
				observability.RecordAuthEvent(r.Context(), "verify", "session_revoked")
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "invalid or expired session")
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				a.logger.WarnContext(r.Context(), "auth rejected", "reason", "malformed_subject")
				observability.RecordAuthEvent(r.Context(), "verify", "invalid_credential")
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "invalid or expired session")
				return
			}

			// Liveness refresh is best effort; a failed write must never
			// fail the request it rode in on.
			go func(hash string) {
				if err := a.sessions.Touch(hash, time.Now().UTC()); err != nil {
					a.logger.Warn("session touch failed", "error", err)
				}
			}(tokenHash)

			observability.RecordAuthEvent(r.Context(), "verify", "success")
			ctx := ContextWithIdentity(r.Context(), Identity{
				UserID:    userID,
				Email:     claims.Email,
				SessionID: session.ID,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the credential from the Authorization header.
func BearerToken(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > len("bearer ") && strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}
