package core

import (
	"context"
	"errors"
	"strings"

	"ems/internal/domain/auth"
)

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// RegisterAdmin stores a new administrator with a bcrypt-hashed credential.
// Duplicate emails fail with ErrEmailTaken and leave the existing record alone.
func (s *Service) RegisterAdmin(ctx context.Context, email, password string) (Admin, error) {
	email = normalizeEmail(email)
	hash, err := auth.HashPassword(password)
	if err != nil {
		return Admin{}, err
	}
	return s.Store.CreateAdmin(ctx, email, hash)
}

func (s *Service) VerifyAdminCredential(ctx context.Context, email, password string) (Admin, error) {
	admin, err := s.Store.FindAdminByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return Admin{}, err
	}
	if err := auth.CheckPassword(admin.PasswordHash, password); err != nil {
		return Admin{}, err
	}
	return admin, nil
}

// VerifyEmployeeCredential compares against the same bcrypt hash scheme as
// administrators. Employees used to carry plaintext credentials upstream;
// both roles hash uniformly here.
func (s *Service) VerifyEmployeeCredential(ctx context.Context, email, password string) (Employee, error) {
	emp, err := s.Store.FindEmployeeByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return Employee{}, err
	}
	if err := auth.CheckPassword(emp.PasswordHash, password); err != nil {
		return Employee{}, err
	}
	return emp, nil
}

func (s *Service) CreateEmployee(ctx context.Context, payload NewEmployee) (Employee, error) {
	payload.Email = normalizeEmail(payload.Email)
	if payload.Name == "" || payload.Email == "" || payload.Password == "" || payload.CategoryID == "" {
		return Employee{}, errors.New("name, email, password and category are required")
	}
	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		return Employee{}, err
	}
	return s.Store.CreateEmployee(ctx, payload, hash)
}

func (s *Service) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	return s.Store.GetEmployee(ctx, employeeID)
}

func (s *Service) ListEmployees(ctx context.Context, limit, offset int) ([]Employee, error) {
	return s.Store.ListEmployees(ctx, limit, offset)
}

func (s *Service) UpdateEmployee(ctx context.Context, employeeID string, payload EmployeeUpdate) error {
	payload.Email = normalizeEmail(payload.Email)
	return s.Store.UpdateEmployee(ctx, employeeID, payload)
}

// DeleteEmployee removes the record and returns it so the caller can clean
// up the stored image file.
func (s *Service) DeleteEmployee(ctx context.Context, employeeID string) (Employee, error) {
	return s.Store.DeleteEmployee(ctx, employeeID)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, errors.New("category name is required")
	}
	return s.Store.CreateCategory(ctx, name)
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.Store.ListCategories(ctx)
}

func (s *Service) ListAdmins(ctx context.Context) ([]Admin, error) {
	return s.Store.ListAdmins(ctx)
}

func (s *Service) UpdateAdminEmail(ctx context.Context, adminID, email string) error {
	return s.Store.UpdateAdminEmail(ctx, adminID, normalizeEmail(email))
}

func (s *Service) AdminCount(ctx context.Context) (int, error) {
	return s.Store.AdminCount(ctx)
}

func (s *Service) EmployeeCount(ctx context.Context) (int, error) {
	return s.Store.EmployeeCount(ctx)
}

func (s *Service) SalaryTotal(ctx context.Context) (float64, error) {
	return s.Store.SalaryTotal(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
