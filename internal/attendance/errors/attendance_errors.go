package attendanceerrors

import (
	"net/http"

	"github.com/aakifsaf/precision-attendance/internal/shared/apperror"
)

var (
	ErrNoActiveSession = apperror.New(
		apperror.CodeInvalidState,
		"no active session found",
		http.StatusConflict,
	)
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"an open attendance record already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance record not found",
		http.StatusNotFound,
	)
)
