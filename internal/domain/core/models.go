package core

import "time"

type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Employee struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Address      string    `json:"address"`
	Salary       *float64  `json:"salary,omitempty"`
	Image        string    `json:"image,omitempty"`
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewEmployee carries the fields accepted when an administrator creates an
// employee record. Password is hashed before it reaches the store.
type NewEmployee struct {
	Name       string
	Email      string
	Password   string
	Address    string
	Salary     *float64
	Image      string
	CategoryID string
}

type EmployeeUpdate struct {
	Name       string
	Email      string
	Address    string
	Salary     *float64
	CategoryID string
}
