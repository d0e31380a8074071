package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/auth"
	"ems/internal/domain/core"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

type Handler struct {
	Core          *core.Service
	Secret        string
	SessionTTL    time.Duration
	SecureCookies bool
}

func NewHandler(coreSvc *core.Service, secret string, sessionTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{Core: coreSvc, Secret: secret, SessionTTL: sessionTTL, SecureCookies: secureCookies}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/register_admin", h.HandleRegisterAdmin)
	r.Post("/adminlogin", h.HandleAdminLogin)
	r.Get("/logout", h.HandleLogout)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Email("email", payload.Email)
	v.Required("password", payload.Password, "password is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	admin, err := h.Core.RegisterAdmin(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, core.ErrEmailTaken) {
			api.Fail(w, http.StatusConflict, "email_taken", "admin with this email already exists", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "register_failed", "failed to register admin", middleware.GetRequestID(r.Context()))
		return
	}

	api.Created(w, map[string]string{"id": admin.ID, "email": admin.Email}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var payload credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	admin, err := h.Core.VerifyAdminCredential(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "user_not_found", "user not found", middleware.GetRequestID(r.Context()))
			return
		}
		if errors.Is(err, auth.ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "incorrect email or password", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to log in", middleware.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{Role: auth.RoleAdmin, Email: admin.Email, UserID: admin.ID}, h.SessionTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}
	middleware.SetSessionCookie(w, token, h.SessionTTL, h.SecureCookies)

	api.Success(w, map[string]string{"id": admin.ID, "role": auth.RoleAdmin}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, h.SecureCookies)
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

// HandleVerify reports the authenticated session's role and identity. The
// route guard has already rejected missing or invalid sessions.
func (h *Handler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthenticated", "not authenticated", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"role": principal.Role, "id": principal.UserID}, middleware.GetRequestID(r.Context()))
}
