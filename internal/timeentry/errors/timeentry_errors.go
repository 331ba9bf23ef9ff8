package timeentryerrors

import (
	"net/http"

	"oklok/internal/shared/apperror"
)

var (
	ErrEntryAlreadyActive = apperror.New(
		apperror.CodeConflict,
		"An active time entry already exists for this user",
		http.StatusConflict,
	)
	ErrNoActiveEntry = apperror.New(
		apperror.CodeConflict,
		"No active time entry to clock out of",
		http.StatusConflict,
	)
	ErrEntryNotFound = apperror.New(
		apperror.CodeNotFound,
		"Time entry not found",
		http.StatusNotFound,
	)
	ErrInvalidEntryID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid time entry ID",
		http.StatusBadRequest,
	)
	ErrBreaksDisabled = apperror.New(
		apperror.CodeInvalidState,
		"Break tracking is not enabled for this organization",
		http.StatusConflict,
	)
	ErrBreakAlreadyOpen = apperror.New(
		apperror.CodeConflict,
		"A break is already in progress",
		http.StatusConflict,
	)
	ErrNoOpenBreak = apperror.New(
		apperror.CodeConflict,
		"No break is currently in progress",
		http.StatusConflict,
	)
	ErrEntryNotCompleted = apperror.New(
		apperror.CodeInvalidState,
		"Only completed entries can be approved",
		http.StatusConflict,
	)
	ErrEntryCancelled = apperror.New(
		apperror.CodeInvalidState,
		"Entry has been cancelled",
		http.StatusConflict,
	)
	ErrLocationRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Location is required by your organization",
		http.StatusBadRequest,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"Clock-out must be after clock-in",
		http.StatusBadRequest,
	)
)
