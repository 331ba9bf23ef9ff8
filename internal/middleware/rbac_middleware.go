package middleware

import (
	"oklok/internal/domain"
	"oklok/internal/shared/apperror"
	"oklok/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is a local interface so any type with an Enforce method
// can back this middleware.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		tenantID := c.GetString("tenant_id")

		if role == "" || tenantID == "" {
			e := apperror.ErrUnauthorized
			response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
			c.Abort()
			return
		}

		req := domain.EnforceRequest{
			Role:     role,
			TenantID: tenantID,
			Resource: resource,
			Action:   action,
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			httpErr := apperror.ToHTTP(err)
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
			c.Abort()
			return
		}

		if !allowed {
			e := apperror.ErrForbidden
			response.Error(c, e.HTTPStatus, e.Code, e.Message, gin.H{"required": resource + ":" + action})
			c.Abort()
			return
		}
		c.Next()
	}
}
