package attendance

import (
	"errors"
	"strings"

	attendanceerrors "github.com/aakifsaf/precision-attendance/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError translates storage errors into the module taxonomy.
// The partial unique index uq_attendance_open_record backs the at-most-one
// open record invariant at the database level.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return attendanceerrors.ErrRecordNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_attendance_open_record" {
			return attendanceerrors.ErrAlreadyClockedIn
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_attendance_open_record") {
		return attendanceerrors.ErrAlreadyClockedIn
	}

	return err
}
