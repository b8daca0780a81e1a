package export

import (
	"net/http"

	"github.com/aakifsaf/precision-attendance/internal/shared/apperror"
	"github.com/aakifsaf/precision-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Download streams the report in the response body.
func (h *Handler) Download(c *gin.Context) {
	report, err := h.service.Generate(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", report.Content)
}

// Request accepts an async report build and responds 202 with its id.
func (h *Handler) Request(c *gin.Context) {
	requestedBy := c.GetString("employee_id_validated")

	reportID, err := h.service.Request(c.Request.Context(), requestedBy)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, gin.H{"report_id": reportID}, nil)
}
