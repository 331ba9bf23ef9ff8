package user

import (
	"oklok/internal/middleware"
	"oklok/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.RBACAuthorize(rbacService, "users", "read"), h.GetAll)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, "users", "read"), h.GetByID)
		users.POST("", middleware.RBACAuthorize(rbacService, "users", "create"), h.Create)
		users.PUT("/:id", middleware.RBACAuthorize(rbacService, "users", "update"), h.Update)
		users.DELETE("/:id", middleware.RBACAuthorize(rbacService, "users", "deactivate"), h.Deactivate)
	}
}
