package attendance

import (
	"github.com/aakifsaf/precision-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	attendances := r.Group("/attendances")
	{
		attendances.GET("", middleware.RBACAuthorize(rbacService, "attendance", "read"), h.GetAll)
		attendances.GET("/session", middleware.RBACAuthorize(rbacService, "session", "read"), h.GetSession)
		attendances.POST("/clock-in",
			middleware.RBACAuthorize(rbacService, "attendance", "create"),
			middleware.Idempotency(rdb),
			h.ClockIn,
		)
		attendances.POST("/clock-out",
			middleware.RBACAuthorize(rbacService, "attendance", "create"),
			middleware.Idempotency(rdb),
			h.ClockOut,
		)
	}
}
