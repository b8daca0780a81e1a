package export

import (
	"github.com/aakifsaf/precision-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	reports := r.Group("/admin/reports")
	{
		reports.GET("/attendance.csv",
			middleware.RateLimitByEmployee(0.5, 2),
			middleware.RBACAuthorize(rbacService, "report", "read"),
			h.Download,
		)
		reports.POST("",
			middleware.RateLimitByEmployee(0.2, 1),
			middleware.RBACAuthorize(rbacService, "report", "create"),
			h.Request,
		)
	}
}
