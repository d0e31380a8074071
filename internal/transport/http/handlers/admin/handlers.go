package adminhandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"ems/internal/domain/auth"
	"ems/internal/domain/core"
	"ems/internal/transport/http/api"
	"ems/internal/transport/http/middleware"
	"ems/internal/transport/http/shared"
)

const maxUploadBytes = 8 << 20

type Handler struct {
	Core      *core.Service
	ImagesDir string
}

func NewHandler(coreSvc *core.Service, imagesDir string) *Handler {
	return &Handler{Core: coreSvc, ImagesDir: imagesDir}
}

// RegisterRoutes mounts the admin management surface. Every route here
// requires the admin role, not just a session.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin))

		r.Post("/add_category", h.HandleAddCategory)
		r.Get("/category", h.HandleListCategories)

		r.Post("/add_employee", h.HandleAddEmployee)
		r.Get("/employee", h.HandleListEmployees)
		r.Get("/employee/{id}", h.HandleGetEmployee)
		r.Put("/edit_employee/{id}", h.HandleEditEmployee)
		r.Delete("/delete_employee/{id}", h.HandleDeleteEmployee)

		r.Get("/admin_count", h.HandleAdminCount)
		r.Get("/employee_count", h.HandleEmployeeCount)
		r.Get("/salary_count", h.HandleSalaryTotal)
		r.Get("/admin_records", h.HandleListAdmins)
		r.Put("/edit_admin/{id}", h.HandleEditAdmin)
	})
}

type categoryRequest struct {
	Name string `json:"name"`
}

type editEmployeeRequest struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Address    string   `json:"address"`
	Salary     *float64 `json:"salary"`
	CategoryID string   `json:"category_id"`
}

type editAdminRequest struct {
	Email string `json:"email"`
}

func (h *Handler) HandleAddCategory(w http.ResponseWriter, r *http.Request) {
	var payload categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	category, err := h.Core.CreateCategory(r.Context(), payload.Name)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "category_create_failed", "failed to add category", middleware.GetRequestID(r.Context()))
		return
	}
	api.Created(w, category, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Core.ListCategories(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "category_list_failed", "failed to load categories", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"categories": categories}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleAddEmployee(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid multipart payload", middleware.GetRequestID(r.Context()))
		return
	}

	payload := core.NewEmployee{
		Name:       r.FormValue("name"),
		Email:      r.FormValue("email"),
		Password:   r.FormValue("password"),
		Address:    r.FormValue("address"),
		CategoryID: r.FormValue("category_id"),
	}
	if raw := r.FormValue("salary"); raw != "" {
		salary, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_salary", "salary must be a number", middleware.GetRequestID(r.Context()))
			return
		}
		payload.Salary = &salary
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("email", payload.Email, "email is required")
	v.Email("email", payload.Email)
	v.Required("password", payload.Password, "password is required")
	v.Required("category_id", payload.CategoryID, "category is required")
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		filename, err := h.saveImage(file, header)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "image_save_failed", "failed to store image", middleware.GetRequestID(r.Context()))
			return
		}
		payload.Image = filename
	}

	emp, err := h.Core.CreateEmployee(r.Context(), payload)
	if err != nil {
		if payload.Image != "" {
			h.removeImage(payload.Image)
		}
		if errors.Is(err, core.ErrEmailTaken) {
			api.Fail(w, http.StatusConflict, "email_taken", "employee with this email already exists", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to add employee", middleware.GetRequestID(r.Context()))
		return
	}

	api.Created(w, emp, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleListEmployees(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	employees, err := h.Core.ListEmployees(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employee_list_failed", "failed to fetch employees", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"employees": employees}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleGetEmployee(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) HandleEditEmployee(w http.ResponseWriter, r *http.Request) {
	var payload editEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	err := h.Core.UpdateEmployee(r.Context(), chi.URLParam(r, "id"), core.EmployeeUpdate{
		Name:       payload.Name,
		Email:      payload.Email,
		Address:    payload.Address,
		Salary:     payload.Salary,
		CategoryID: payload.CategoryID,
	})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		if errors.Is(err, core.ErrEmailTaken) {
			api.Fail(w, http.StatusConflict, "email_taken", "employee with this email already exists", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_update_failed", "failed to update employee", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Core.DeleteEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "employee_not_found", "employee not found", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "employee_delete_failed", "failed to delete employee", middleware.GetRequestID(r.Context()))
		return
	}

	if emp.Image != "" {
		h.removeImage(emp.Image)
	}
	api.Success(w, map[string]string{"status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleAdminCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Core.AdminCount(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "count_failed", "failed to fetch admin count", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]int{"count": count}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleEmployeeCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.Core.EmployeeCount(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "count_failed", "failed to fetch employee count", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]int{"count": count}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleSalaryTotal(w http.ResponseWriter, r *http.Request) {
	total, err := h.Core.SalaryTotal(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "count_failed", "failed to fetch salary total", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]float64{"totalSalary": total}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Core.ListAdmins(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "admin_list_failed", "failed to fetch admin records", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"admins": admins}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleEditAdmin(w http.ResponseWriter, r *http.Request) {
	var payload editAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Email("email", payload.Email)
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Core.UpdateAdminEmail(r.Context(), chi.URLParam(r, "id"), payload.Email); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "admin_not_found", "admin not found", middleware.GetRequestID(r.Context()))
			return
		}
		if errors.Is(err, core.ErrEmailTaken) {
			api.Fail(w, http.StatusConflict, "email_taken", "admin with this email already exists", middleware.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "admin_update_failed", "failed to update admin", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]string{"status": "updated"}, middleware.GetRequestID(r.Context()))
}

// saveImage stores the upload under a server-chosen name; the client
// filename only contributes its extension.
func (h *Handler) saveImage(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" && ext != ".gif" && ext != ".webp" {
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}

	if err := os.MkdirAll(h.ImagesDir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("image_%d%s", time.Now().UnixNano(), ext)
	dst, err := os.Create(filepath.Join(h.ImagesDir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(file, maxUploadBytes)); err != nil {
		return "", err
	}
	return filename, nil
}

func (h *Handler) removeImage(filename string) {
	if err := os.Remove(filepath.Join(h.ImagesDir, filepath.Base(filename))); err != nil && !os.IsNotExist(err) {
		slog.Warn("image cleanup failed", "image", filename, "err", err)
	}
}
