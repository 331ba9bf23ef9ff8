package report

import (
	"oklok/internal/middleware"
	"oklok/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("/weekly", middleware.RBACAuthorize(rbacService, "reports", "read"), h.Weekly)
		reports.GET("/dashboard", middleware.RBACAuthorize(rbacService, "reports", "read"), h.Dashboard)
	}

	exports := r.Group("/exports")
	exports.Use(middleware.AuthMiddleware())
	{
		exports.GET("/time-entries", middleware.RBACAuthorize(rbacService, "exports", "read"), h.ExportTimeEntries)
	}
}
