package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	autherrors "oklok/internal/auth/errors"
	"oklok/internal/shared/apperror"
	"oklok/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware accepts the access token either as a Bearer header or
// as the access_token cookie set by the login handlers.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			e := apperror.ErrUnauthorized
			response.Error(c, e.HTTPStatus, e.Code, e.Message, nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = autherrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		userID := stringClaim(claims, "user_id")
		tenantID := stringClaim(claims, "tenant_id")
		if userID == "" || tenantID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Token is missing identity claims", nil)
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("tenant_id", tenantID)
		c.Set("role", stringClaim(claims, "role"))

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found && token != "" {
		return token
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
