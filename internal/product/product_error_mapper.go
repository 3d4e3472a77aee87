package product

import (
	producterrors "ymph-crud/internal/product/errors"
	"ymph-crud/internal/shared/apperror"
	"ymph-crud/internal/shared/dberror"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if dberror.IsNotFound(err) {
		return producterrors.ErrProductNotFound
	}

	// uq_product_code is the only unique key on products.
	if _, ok := dberror.UniqueViolation(err); ok {
		return producterrors.ErrProductCodeAlreadyExists
	}

	return apperror.Store(err)
}
