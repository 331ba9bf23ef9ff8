package tenant

import (
	"oklok/internal/middleware"
	"oklok/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	tenants := r.Group("/tenants")
	tenants.Use(middleware.AuthMiddleware())
	{
		tenants.GET("/me", middleware.RBACAuthorize(rbacService, "tenants", "read"), h.GetCurrent)
		tenants.PUT("/me/settings", middleware.RBACAuthorize(rbacService, "tenants", "update"), h.UpdateSettings)
	}
}
