package producterrors

import (
	"net/http"

	"ymph-crud/internal/shared/apperror"
)

var (
	ErrProductNotFound = apperror.New(
		apperror.CodeNotFound,
		"Product not found.",
		http.StatusNotFound,
	)
	ErrProductCodeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Product code already exists.",
		http.StatusConflict,
	)
	ErrInvalidProductID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid product ID.",
		http.StatusBadRequest,
	)
)
