package preference

import (
	"net/http"

	"github.com/aakifsaf/precision-attendance/internal/shared/apperror"
	"github.com/aakifsaf/precision-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=staff admin"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetRole(c *gin.Context) {
	employeeID := c.GetString("employee_id_validated")

	role, err := h.service.GetRole(c.Request.Context(), employeeID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"role": role}, nil)
}

func (h *Handler) SetRole(c *gin.Context) {
	employeeID := c.GetString("employee_id_validated")

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	if err := h.service.SetRole(c.Request.Context(), employeeID, req.Role); err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"role": req.Role}, nil)
}
