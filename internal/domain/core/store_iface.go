package core

import "context"

type StoreAPI interface {
	CreateAdmin(ctx context.Context, email, passwordHash string) (Admin, error)
	FindAdminByEmail(ctx context.Context, email string) (Admin, error)
	ListAdmins(ctx context.Context) ([]Admin, error)
	UpdateAdminEmail(ctx context.Context, adminID, email string) error
	AdminCount(ctx context.Context) (int, error)

	CreateEmployee(ctx context.Context, payload NewEmployee, passwordHash string) (Employee, error)
	FindEmployeeByEmail(ctx context.Context, email string) (Employee, error)
	GetEmployee(ctx context.Context, employeeID string) (Employee, error)
	ListEmployees(ctx context.Context, limit, offset int) ([]Employee, error)
	UpdateEmployee(ctx context.Context, employeeID string, payload EmployeeUpdate) error
	DeleteEmployee(ctx context.Context, employeeID string) (Employee, error)
	EmployeeCount(ctx context.Context) (int, error)
	SalaryTotal(ctx context.Context) (float64, error)

	CreateCategory(ctx context.Context, name string) (Category, error)
	ListCategories(ctx context.Context) ([]Category, error)
}
