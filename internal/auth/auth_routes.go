package auth

import (
	"oklok/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	auth := r.Group("/auth")
	{
		// Auth endpoints get the tight budget: 10 requests per 15 minutes per IP.
		auth.POST("/login", middleware.RateLimitByIP(0.011, 10), handler.Login)
		auth.POST("/quick-login", middleware.RateLimitByIP(0.011, 10), handler.QuickLogin)
		auth.PUT("/change-pin", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.ChangePIN)
		auth.POST("/refresh", handler.RefreshToken)
		auth.GET("/me", middleware.AuthMiddleware(), middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/logout", middleware.RateLimitByUser(2, 5), handler.Logout)
	}
}
