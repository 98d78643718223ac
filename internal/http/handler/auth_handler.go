package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Merctxt/contrl-financeiro/internal/domain"
	"github.com/Merctxt/contrl-financeiro/internal/http/middleware"
	"github.com/Merctxt/contrl-financeiro/internal/http/response"
	"github.com/Merctxt/contrl-financeiro/internal/observability"
	"github.com/Merctxt/contrl-financeiro/internal/repository"
	"github.com/Merctxt/contrl-financeiro/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthServiceInterface
}

func NewAuthHandler(authSvc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type userPayload struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authPayload struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

func newAuthPayload(result *service.AuthResult) authPayload {
	return authPayload{
		Token: result.Token,
		User: userPayload{
			ID:    result.User.ID,
			Name:  result.User.Name,
			Email: result.User.Email,
		},
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordAuthEvent(r.Context(), "register", "bad_request")
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		observability.RecordAuthEvent(r.Context(), "register", "bad_request")
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "name, email and password are required")
		return
	}

	result, err := h.authSvc.Register(r.Context(), req.Name, req.Email, req.Password, DeviceLabel(r.UserAgent()), clientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			observability.RecordAuthEvent(r.Context(), "register", "weak_password")
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", service.ErrWeakPassword.Error())
		case errors.Is(err, service.ErrEmailTaken):
			observability.RecordAuthEvent(r.Context(), "register", "email_taken")
			response.Error(w, r, http.StatusConflict, "EMAIL_TAKEN", "email already registered")
		default:
			observability.RecordAuthEvent(r.Context(), "register", "error")
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to register")
		}
		return
	}

	observability.RecordAuthEvent(r.Context(), "register", "success")
	response.JSON(w, r, http.StatusCreated, newAuthPayload(result))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordAuthEvent(r.Context(), "login", "bad_request")
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		observability.RecordAuthEvent(r.Context(), "login", "bad_request")
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "email and password are required")
		return
	}

	result, err := h.authSvc.Login(r.Context(), req.Email, req.Password, DeviceLabel(r.UserAgent()), clientIP(r))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			observability.RecordAuthEvent(r.Context(), "login", "invalid_credentials")
			response.Error(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
			return
		}
		observability.RecordAuthEvent(r.Context(), "login", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to log in")
		return
	}

	observability.RecordAuthEvent(r.Context(), "login", "success")
	response.JSON(w, r, http.StatusOK, newAuthPayload(result))
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}
	user, err := h.authSvc.GetProfile(identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found")
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load profile")
		return
	}
	response.JSON(w, r, http.StatusOK, profileView(user))
}

func profileView(user *domain.User) userPayload {
	return userPayload{ID: user.ID, Name: user.Name, Email: user.Email}
}

// ForgotPassword answers the same way for known and unknown emails so the
// endpoint cannot be used to enumerate accounts.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordPasswordResetEvent(r.Context(), "request", "bad_request")
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		observability.RecordPasswordResetEvent(r.Context(), "request", "bad_request")
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "email is required")
		return
	}

	if err := h.authSvc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		observability.RecordPasswordResetEvent(r.Context(), "request", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to process request")
		return
	}

	observability.RecordPasswordResetEvent(r.Context(), "request", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{
		"message": "if the email is registered, a reset link has been sent",
	})
}

func (h *AuthHandler) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "token is required")
		return
	}
	valid, err := h.authSvc.ValidateResetToken(token)
	if err != nil {
		observability.RecordPasswordResetEvent(r.Context(), "validate", "error")
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to validate token")
		return
	}
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	observability.RecordPasswordResetEvent(r.Context(), "validate", outcome)
	response.JSON(w, r, http.StatusOK, map[string]any{"valid": valid})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordPasswordResetEvent(r.Context(), "reset", "bad_request")
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid request body")
		return
	}
	if req.Token == "" || req.Password == "" {
		observability.RecordPasswordResetEvent(r.Context(), "reset", "bad_request")
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "token and password are required")
		return
	}

	if err := h.authSvc.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrWeakPassword):
			observability.RecordPasswordResetEvent(r.Context(), "reset", "weak_password")
			response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", service.ErrWeakPassword.Error())
		case errors.Is(err, service.ErrResetTokenInvalid):
			observability.RecordPasswordResetEvent(r.Context(), "reset", "invalid_token")
			response.Error(w, r, http.StatusBadRequest, "INVALID_TOKEN", "reset token invalid or expired")
		default:
			observability.RecordPasswordResetEvent(r.Context(), "reset", "error")
			response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to reset password")
		}
		return
	}

	observability.RecordPasswordResetEvent(r.Context(), "reset", "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"message": "password updated"})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
