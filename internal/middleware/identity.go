package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aakifsaf/precision-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity is the already-authenticated caller. Authentication itself
// happens upstream (gateway / reverse proxy); this service only trusts
// the forwarded employee id and resolves it against the directory.
type Identity struct {
	ID   string
	Name string
	Role string
}

// Directory is a local interface so this package does not depend on the
// employee module. Anything that can resolve an employee id fits.
type Directory interface {
	Resolve(ctx context.Context, employeeID string) (Identity, error)
}

func ExtractIdentity(directory Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		employeeID := strings.TrimSpace(c.GetHeader("X-Employee-ID"))
		if employeeID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Employee identity not provided", nil)
			c.Abort()
			return
		}

		if _, err := uuid.Parse(employeeID); err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_IDENTITY", "Employee id is not a valid uuid", nil)
			c.Abort()
			return
		}

		ident, err := directory.Resolve(c.Request.Context(), employeeID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNKNOWN_EMPLOYEE", "Employee is not registered", nil)
			c.Abort()
			return
		}

		c.Set("employee_id", ident.ID)
		c.Set("employee_id_validated", ident.ID)
		c.Set("employee_name", ident.Name)
		c.Set("role", ident.Role)

		c.Next()
	}
}
