package employee

import (
	"time"

	"ymph-crud/internal/shared/filter"
	"ymph-crud/internal/shared/validation"
)

// CreateEmployeeRequest binds from either a form post or a JSON body.
// Field rules live in the service so both transports share them.
type CreateEmployeeRequest struct {
	EmployeeCode string                   `json:"employee_code" form:"employee_code"`
	FirstName    string                   `json:"first_name" form:"first_name"`
	LastName     string                   `json:"last_name" form:"last_name"`
	Email        string                   `json:"email" form:"email"`
	Phone        string                   `json:"phone" form:"phone"`
	Position     string                   `json:"position" form:"position"`
	Department   string                   `json:"department" form:"department"`
	HireDate     string                   `json:"hire_date" form:"hire_date"`
	Salary       validation.NumericString `json:"salary" form:"salary"`
	Status       string                   `json:"status" form:"status"`
}

// UpdateEmployeeRequest replaces every field. employee_code is required.
type UpdateEmployeeRequest CreateEmployeeRequest

type ListEmployeesQuery struct {
	Search     *string `form:"search"`
	Status     *string `form:"status"`
	Department *string `form:"department"`
	Position   *string `form:"position"`
}

// Normalize turns blank values into absent filters.
func (q ListEmployeesQuery) Normalize() ListEmployeesQuery {
	return ListEmployeesQuery{
		Search:     filter.OptionalPtr(q.Search),
		Status:     filter.OptionalPtr(q.Status),
		Department: filter.OptionalPtr(q.Department),
		Position:   filter.OptionalPtr(q.Position),
	}
}

type EmployeeResponse struct {
	ID           uint      `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        *string   `json:"phone"`
	Position     string    `json:"position"`
	Department   string    `json:"department"`
	HireDate     string    `json:"hire_date"`
	Salary       *string   `json:"salary"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type EmployeeFilters struct {
	Departments []string `json:"departments"`
	Positions   []string `json:"positions"`
}

type EmployeeListResponse struct {
	Items   []EmployeeResponse `json:"items"`
	Filters EmployeeFilters    `json:"filters"`
}

// EmployeeOption is one entry of the picker used by product forms.
type EmployeeOption struct {
	ID           uint   `json:"id"`
	EmployeeCode string `json:"employee_code"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	FullName     string `json:"full_name"`
}
