package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Merctxt/contrl-financeiro/internal/http/middleware"
	"github.com/Merctxt/contrl-financeiro/internal/http/response"
	"github.com/Merctxt/contrl-financeiro/internal/observability"
	"github.com/Merctxt/contrl-financeiro/internal/repository"
	"github.com/Merctxt/contrl-financeiro/internal/service"
)

// SessionHandler exposes the device session screen: list every active
// session for the caller, revoke one, or revoke all but the current one.
type SessionHandler struct {
	sessionSvc service.SessionServiceInterface
}

func NewSessionHandler(sessionSvc service.SessionServiceInterface) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		observability.RecordSessionManagementEvent(r.Context(), "list", "error")
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	views, err := h.sessionSvc.ListSessions(identity.UserID, identity.SessionID)
	if err != nil {
		observability.RecordSessionManagementEvent(r.Context(), "list", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to list sessions")
		return
	}

	observability.RecordSessionManagementEvent(r.Context(), "list", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"sessions": views})
}

func (h *SessionHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		observability.RecordSessionManagementEvent(r.Context(), "revoke_one", "error")
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	rawID := chi.URLParam(r, "id")
	id64, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		observability.RecordSessionManagementEvent(r.Context(), "revoke_one", "bad_request")
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid session id")
		return
	}
	targetID := uint(id64)

	err = h.sessionSvc.RevokeSession(identity.UserID, targetID, identity.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCannotRevokeCurrent):
			observability.RecordSessionManagementEvent(r.Context(), "revoke_one", "current_session")
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "cannot revoke the current session")
		case errors.Is(err, repository.ErrSessionNotFound):
			observability.RecordSessionManagementEvent(r.Context(), "revoke_one", "not_found")
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "session not found")
		default:
			observability.RecordSessionManagementEvent(r.Context(), "revoke_one", "error")
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to revoke session")
		}
		return
	}

	observability.RecordSessionManagementEvent(r.Context(), "revoke_one", "success")
	observability.RecordSessionRevokedCount(r.Context(), "revoke_by_user", 1)
	response.JSON(w, r, http.StatusOK, map[string]any{
		"session_id": targetID,
		"revoked":    true,
	})
}

func (h *SessionHandler) RevokeOthers(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		observability.RecordSessionManagementEvent(r.Context(), "revoke_others", "error")
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	count, err := h.sessionSvc.RevokeOtherSessions(identity.UserID, identity.SessionID)
	if err != nil {
		observability.RecordSessionManagementEvent(r.Context(), "revoke_others", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to revoke sessions")
		return
	}

	observability.RecordSessionManagementEvent(r.Context(), "revoke_others", "success")
	observability.RecordSessionRevokedCount(r.Context(), "revoke_others", count)
	response.JSON(w, r, http.StatusOK, map[string]any{
		"revoked_count": count,
	})
}
