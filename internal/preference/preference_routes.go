package preference

import (
	"github.com/aakifsaf/precision-attendance/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService middleware.RBACService) {
	prefs := r.Group("/preferences")
	{
		prefs.GET("/role",
			middleware.RBACAuthorize(rbacService, "preference", "read"),
			h.GetRole,
		)
		prefs.PUT("/role",
			middleware.RBACAuthorize(rbacService, "preference", "write"),
			h.SetRole,
		)
	}
}
