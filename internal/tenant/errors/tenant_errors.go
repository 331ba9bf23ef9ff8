package tenanterrors

import (
	"net/http"

	"oklok/internal/shared/apperror"
)

var (
	ErrTenantNotFound = apperror.New(
		apperror.CodeNotFound,
		"Tenant not found",
		http.StatusNotFound,
	)
	ErrInvalidTenantID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid tenant ID",
		http.StatusBadRequest,
	)
	ErrInvalidTimezone = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid timezone name",
		http.StatusBadRequest,
	)
	ErrCrossTenantAccess = apperror.New(
		apperror.CodeForbidden,
		"Cross-tenant access is not allowed",
		http.StatusForbidden,
	)
)
