package timeentry

import (
	"oklok/internal/middleware"
	"oklok/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, rdb *redis.Client) {
	entries := r.Group("/time-entries")
	entries.Use(middleware.AuthMiddleware())
	if rdb != nil {
		entries.Use(middleware.Idempotency(rdb))
	}
	{
		entries.GET("", middleware.RBACAuthorize(rbacService, "time_entries", "read_own"), h.GetAll)
		entries.POST("/clock-in", middleware.RBACAuthorize(rbacService, "time_entries", "create"), h.ClockIn)
		entries.POST("/clock-out", middleware.RBACAuthorize(rbacService, "time_entries", "create"), h.ClockOut)
		entries.POST("/breaks/start", middleware.RBACAuthorize(rbacService, "time_entries", "create"), h.StartBreak)
		entries.POST("/breaks/end", middleware.RBACAuthorize(rbacService, "time_entries", "create"), h.EndBreak)
		entries.PATCH("/:id/approve", middleware.RBACAuthorize(rbacService, "time_entries", "approve"), h.Approve)
		entries.PATCH("/:id/cancel", middleware.RBACAuthorize(rbacService, "time_entries", "update"), h.Cancel)
		entries.PUT("/:id", middleware.RBACAuthorize(rbacService, "time_entries", "update"), h.Update)
	}
}
