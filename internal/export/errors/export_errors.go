package exporterrors

import (
	"net/http"

	"github.com/aakifsaf/precision-attendance/internal/shared/apperror"
)

var ErrNoExportData = apperror.New(
	apperror.CodeNotFound,
	"No attendance data available to export",
	http.StatusNotFound,
)
