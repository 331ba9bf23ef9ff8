package timeentry

import (
	"errors"
	"strings"

	timeentryerrors "oklok/internal/timeentry/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return timeentryerrors.ErrEntryNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uq_time_entries_active":
			return timeentryerrors.ErrEntryAlreadyActive
		case "uq_time_entry_breaks_open":
			return timeentryerrors.ErrBreakAlreadyOpen
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		if strings.Contains(errMsg, "uq_time_entries_active") {
			return timeentryerrors.ErrEntryAlreadyActive
		}
		if strings.Contains(errMsg, "uq_time_entry_breaks_open") {
			return timeentryerrors.ErrBreakAlreadyOpen
		}
	}

	return err
}
