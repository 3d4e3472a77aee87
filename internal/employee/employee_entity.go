package employee

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	StatusActive     = "active"
	StatusInactive   = "inactive"
	StatusTerminated = "terminated"
)

var Statuses = []string{StatusActive, StatusInactive, StatusTerminated}

type Employee struct {
	ID           uint                `gorm:"primaryKey"`
	EmployeeCode string              `gorm:"size:20;not null;uniqueIndex:uq_employee_code"`
	FirstName    string              `gorm:"size:100;not null"`
	LastName     string              `gorm:"size:100;not null"`
	Email        string              `gorm:"size:150;not null;uniqueIndex:uq_employee_email"`
	Phone        *string             `gorm:"size:30"`
	Position     string              `gorm:"size:100;not null;index"`
	Department   string              `gorm:"size:100;not null;index"`
	HireDate     datatypes.Date      `gorm:"not null"`
	Salary       decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Status       string              `gorm:"size:20;not null;default:active;index"`
	CreatedAt    time.Time           `gorm:"index"`
	UpdatedAt    time.Time
}

func (Employee) TableName() string {
	return "employees"
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
