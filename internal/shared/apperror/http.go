package apperror

import (
	"errors"
	"os"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP translates any error into the wire representation. Unknown
// errors become a generic 500; the underlying message is only exposed
// as details outside production.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		httpErr := HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
		if appErr.Err != nil && !isProduction() {
			httpErr.Details = appErr.Err.Error()
		}
		return httpErr
	}

	httpErr := HTTPError{
		Status:  ErrInternal.HTTPStatus,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
	}
	if err != nil && !isProduction() {
		httpErr.Details = err.Error()
	}
	return httpErr
}

func isProduction() bool {
	return os.Getenv("APP_ENV") == "production"
}
