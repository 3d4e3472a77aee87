package employee

import (
	"strings"

	"ymph-crud/internal/shared/validation"
)

// validateEmployee reports the first failing rule: required fields, then
// formats, then numbers.
func validateEmployee(req CreateEmployeeRequest, requireCode bool) error {
	var required []validation.Rule
	if requireCode {
		required = append(required, validation.Required("Employee code", req.EmployeeCode))
	}
	required = append(required,
		validation.Required("First name", req.FirstName),
		validation.Required("Last name", req.LastName),
		validation.Required("Email", req.Email),
		validation.Required("Position", req.Position),
		validation.Required("Department", req.Department),
		validation.Required("Hire date", req.HireDate),
	)

	email := strings.TrimSpace(req.Email)
	hireDate := strings.TrimSpace(req.HireDate)
	status := strings.TrimSpace(req.Status)
	format := []validation.Rule{
		validation.Check("Email", func() bool { return validation.IsValidEmail(email) },
			"Invalid email format."),
		validation.Check("Hire date", func() bool { return validation.IsValidDate(hireDate) },
			"Invalid date format. Expected format: YYYY-MM-DD. Received: "+validation.SanitizeText(req.HireDate)),
		validation.When(status, validation.Check("Status", func() bool { return isValidStatus(status) }, statusMessage)),
	}

	salary := req.Salary.String()
	numeric := []validation.Rule{
		validation.When(salary, validation.Check("Salary", func() bool { return validation.IsNonNegativeMoney(salary) },
			"Salary must be a valid non-negative number.")),
	}

	return validation.FirstError(required, format, numeric)
}

var statusMessage = "Status must be one of: " + strings.Join(Statuses, ", ") + "."

func isValidStatus(s string) bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}
