package stats

import (
	"github.com/aakifsaf/precision-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	admin := r.Group("/admin")
	{
		admin.GET("/stats",
			middleware.RateLimitByEmployee(5, 10),
			middleware.RBACAuthorize(rbacService, "stats", "read"),
			h.GetDashboard,
		)
		admin.GET("/roster",
			middleware.RateLimitByEmployee(5, 10),
			middleware.RBACAuthorize(rbacService, "roster", "read"),
			h.GetRoster,
		)
	}
}
