package attendance

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aakifsaf/precision-attendance/internal/rbac"
	"github.com/aakifsaf/precision-attendance/internal/shared/apperror"
	"github.com/aakifsaf/precision-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// releaseIdempotencyLock frees the lock set by the idempotency middleware
// and stores the response payload for replayed requests.
func (h *Handler) releaseIdempotencyLock(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}

	if lk := c.GetString("idempotency_lock_key"); lk != "" {
		_ = h.rdb.Del(c.Request.Context(), lk).Err()
	}
	if ck := c.GetString("idempotency_cache_key"); ck != "" && resp != nil {
		if payload, err := json.Marshal(resp); err == nil {
			_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
		}
	}
}

func (h *Handler) ClockIn(c *gin.Context) {
	employeeID := c.GetString("employee_id_validated")
	employeeName := c.GetString("employee_name")

	resp, err := h.service.ClockIn(c.Request.Context(), employeeID, employeeName)
	if err != nil {
		h.releaseIdempotencyLock(c, nil)
		writeServiceError(c, err)
		return
	}

	h.releaseIdempotencyLock(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ClockOut(c *gin.Context) {
	employeeID := c.GetString("employee_id_validated")

	resp, err := h.service.ClockOut(c.Request.Context(), employeeID)
	if err != nil {
		h.releaseIdempotencyLock(c, nil)
		writeServiceError(c, err)
		return
	}

	h.releaseIdempotencyLock(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetSession(c *gin.Context) {
	employeeID := c.GetString("employee_id_validated")

	resp, err := h.service.GetSession(c.Request.Context(), employeeID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	employeeID := c.GetString("employee_id_validated")
	role := c.GetString("role")

	var (
		resp []AttendanceResponse
		err  error
	)
	if role == rbac.RoleAdmin {
		resp, err = h.service.All(c.Request.Context())
	} else {
		resp, err = h.service.History(c.Request.Context(), employeeID)
	}
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}
