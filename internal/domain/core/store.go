package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) CreateAdmin(ctx context.Context, email, passwordHash string) (Admin, error) {
	var admin Admin
	err := s.DB.QueryRow(ctx, `
    INSERT INTO admins (email, password_hash)
    VALUES ($1, $2)
    RETURNING id, email, password_hash, created_at, updated_at
  `, email, passwordHash).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		return Admin{}, mapStoreError(err)
	}
	return admin, nil
}

func (s *Store) FindAdminByEmail(ctx context.Context, email string) (Admin, error) {
	var admin Admin
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, password_hash, created_at, updated_at
    FROM admins
    WHERE email = $1
  `, email).Scan(&admin.ID, &admin.Email, &admin.PasswordHash, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		return Admin{}, mapStoreError(err)
	}
	return admin, nil
}

func (s *Store) ListAdmins(ctx context.Context) ([]Admin, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, email, created_at, updated_at
    FROM admins
    ORDER BY created_at
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []Admin
	for rows.Next() {
		var admin Admin
		if err := rows.Scan(&admin.ID, &admin.Email, &admin.CreatedAt, &admin.UpdatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}

func (s *Store) UpdateAdminEmail(ctx context.Context, adminID, email string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE admins SET email = $1, updated_at = now() WHERE id = $2", email, adminID)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AdminCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM admins").Scan(&count)
	return count, err
}

func (s *Store) CreateEmployee(ctx context.Context, payload NewEmployee, passwordHash string) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, email, password_hash, address, salary, image, category_id)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING id, name, email, password_hash, address, salary, image, category_id::text, created_at, updated_at
  `, payload.Name, payload.Email, passwordHash, payload.Address, payload.Salary, payload.Image, payload.CategoryID).
		Scan(&emp.ID, &emp.Name, &emp.Email, &emp.PasswordHash, &emp.Address, &emp.Salary, &emp.Image, &emp.CategoryID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return Employee{}, mapStoreError(err)
	}
	return emp, nil
}

func (s *Store) FindEmployeeByEmail(ctx context.Context, email string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT e.id, e.name, e.email, e.password_hash, e.address, e.salary, e.image,
           e.category_id::text, COALESCE(c.name, ''), e.created_at, e.updated_at
    FROM employees e
    LEFT JOIN categories c ON e.category_id = c.id
    WHERE e.email = $1
  `, email)
	return scanEmployee(row)
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT e.id, e.name, e.email, e.password_hash, e.address, e.salary, e.image,
           e.category_id::text, COALESCE(c.name, ''), e.created_at, e.updated_at
    FROM employees e
    LEFT JOIN categories c ON e.category_id = c.id
    WHERE e.id = $1
  `, employeeID)
	return scanEmployee(row)
}

func (s *Store) ListEmployees(ctx context.Context, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.name, e.email, e.password_hash, e.address, e.salary, e.image,
           e.category_id::text, COALESCE(c.name, ''), e.created_at, e.updated_at
    FROM employees e
    LEFT JOIN categories c ON e.category_id = c.id
    ORDER BY e.created_at
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

func (s *Store) UpdateEmployee(ctx context.Context, employeeID string, payload EmployeeUpdate) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $1, email = $2, address = $3, salary = $4, category_id = $5, updated_at = now()
    WHERE id = $6
  `, payload.Name, payload.Email, payload.Address, payload.Salary, payload.CategoryID, employeeID)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteEmployee(ctx context.Context, employeeID string) (Employee, error) {
	var emp Employee
	err := s.DB.QueryRow(ctx, `
    DELETE FROM employees
    WHERE id = $1
    RETURNING id, name, email, password_hash, address, salary, image, category_id::text, created_at, updated_at
  `, employeeID).Scan(&emp.ID, &emp.Name, &emp.Email, &emp.PasswordHash, &emp.Address, &emp.Salary, &emp.Image, &emp.CategoryID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return Employee{}, mapStoreError(err)
	}
	return emp, nil
}

func (s *Store) EmployeeCount(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employees").Scan(&count)
	return count, err
}

func (s *Store) SalaryTotal(ctx context.Context) (float64, error) {
	var total float64
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(SUM(salary), 0) FROM employees").Scan(&total)
	return total, err
}

func (s *Store) CreateCategory(ctx context.Context, name string) (Category, error) {
	var category Category
	err := s.DB.QueryRow(ctx, `
    INSERT INTO categories (name)
    VALUES ($1)
    RETURNING id, name, created_at
  `, name).Scan(&category.ID, &category.Name, &category.CreatedAt)
	if err != nil {
		return Category{}, mapStoreError(err)
	}
	return category, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name, created_at FROM categories ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var category Category
		if err := rows.Scan(&category.ID, &category.Name, &category.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(&emp.ID, &emp.Name, &emp.Email, &emp.PasswordHash, &emp.Address, &emp.Salary, &emp.Image,
		&emp.CategoryID, &emp.CategoryName, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return Employee{}, mapStoreError(err)
	}
	return emp, nil
}

func mapStoreError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEmailTaken
	}
	return err
}
