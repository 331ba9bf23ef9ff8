package autherrors

import (
	"net/http"

	"oklok/internal/shared/apperror"
)

var (
	// Deliberately vague: must not reveal whether the PIN exists or
	// which field was wrong.
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid PIN",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid token",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token has expired",
		http.StatusUnauthorized,
	)
	ErrInvalidRefreshToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid refresh token",
		http.StatusUnauthorized,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to generate token",
		http.StatusInternalServerError,
	)
	ErrCurrentPINMismatch = apperror.New(
		apperror.CodeUnauthorized,
		"Current PIN is incorrect",
		http.StatusUnauthorized,
	)
)
