package employeehandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/attendance"
	"ems/internal/domain/auth"
	"ems/internal/domain/core"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
)

type Handler struct {
	Core          *core.Service
	Ledger        *attendance.Service
	Secret        string
	SessionTTL    time.Duration
	SecureCookies bool
}

func NewHandler(coreSvc *core.Service, ledger *attendance.Service, secret string, sessionTTL time.Duration, secureCookies bool) *Handler {
	return &Handler{Core: coreSvc, Ledger: ledger, Secret: secret, SessionTTL: sessionTTL, SecureCookies: secureCookies}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/employeelogin", h.HandleLogin)
	r.Get("/logout", h.HandleLogout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/detail/{id}", h.HandleDetail)
		r.Get("/employee_is_clocked_in/{id}", h.HandleIsClockedIn)
		r.Post("/employee_clockin/{id}", h.HandleClockIn)
		r.Post("/employee_clockout/{id}", h.HandleClockOut)
		r.Get("/calendar/{employeeId}", h.HandleCalendar)
		r.Get("/calendar/{employeeId}/export", h.HandleCalendarExport)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type clockInRequest struct {
	Location     string `json:"location"`
	WorkFromType string `json:"workFromType"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	emp, err := h.Core.VerifyEmployeeCredential(r.Context(), payload.Email, payload.Password)
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

	token, err := auth.GenerateToken(h.Secret, auth.Claims{Role: auth.RoleEmployee, Email: emp.Email, UserID: emp.ID}, h.SessionTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "token_error", "failed to issue token", middleware.GetRequestID(r.Context()))
		return
	}
	middleware.SetSessionCookie(w, token, h.SessionTTL, h.SecureCookies)

	api.Success(w, map[string]string{"id": emp.ID, "role": auth.RoleEmployee}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, h.SecureCookies)
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Core.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_fetch_failed", "failed to fetch employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleIsClockedIn(w http.ResponseWriter, r *http.Request) {
	clockedIn, err := h.Ledger.IsClockedIn(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "status_check_failed", "failed to check clock-in status", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]bool{"clockedIn": clockedIn}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleClockIn(w http.ResponseWriter, r *http.Request) {
	var payload clockInRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	mode, err := attendance.ParseWorkMode(payload.WorkFromType)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_work_mode", "workFromType must be office, remote or hybrid", middleware.GetRequestID(r.Context()))
		return
	}

	if _, err := h.Ledger.ClockIn(r.Context(), chi.URLParam(r, "id"), payload.Location, mode); err != nil {
		if errors.Is(err, attendance.ErrAlreadyClockedIn) {
			api.Fail(w, http.StatusConflict, "already_clocked_in", "employee is already clocked in", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "clock_in_failed", "failed to clock in", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]string{"status": "success"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleClockOut(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Ledger.ClockOut(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, attendance.ErrNoOpenSession) {
			api.Fail(w, http.StatusNotFound, "no_open_session", "clock-in record not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "clock_out_failed", "failed to clock out", middleware.GetRequestID(r.Context()))
		return
	}

	api.Success(w, rec, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Ledger.Calendar(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "calendar_failed", "failed to fetch calendar data", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"calendarData": entries}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleCalendarExport(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "employeeId")

	emp, err := h.Core.GetEmployee(r.Context(), employeeID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export timesheet", middleware.GetRequestID(r.Context()))
		return
	}

	entries, err := h.Ledger.Calendar(r.Context(), employeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to export timesheet", middleware.GetRequestID(r.Context()))
		return
	}

	pdfBytes, err := attendance.RenderTimesheetPDF(emp.Name, entries)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render timesheet", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "timesheet-"+employeeID+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}
