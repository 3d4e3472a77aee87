package employee

import (
	employeeerrors "ymph-crud/internal/employee/errors"
	"ymph-crud/internal/shared/apperror"
	"ymph-crud/internal/shared/dberror"
)

const (
	constraintEmployeeCode  = "uq_employee_code"
	constraintEmployeeEmail = "uq_employee_email"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if dberror.IsNotFound(err) {
		return employeeerrors.ErrEmployeeNotFound
	}

	if constraint, ok := dberror.UniqueViolation(err); ok {
		switch constraint {
		case constraintEmployeeCode:
			return employeeerrors.ErrEmployeeCodeAlreadyExists
		case constraintEmployeeEmail:
			return employeeerrors.ErrEmployeeEmailAlreadyExists
		default:
			return employeeerrors.ErrEmployeeAlreadyExists
		}
	}

	return apperror.Store(err)
}
