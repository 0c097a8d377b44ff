package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lorekeep/lorekeep/internal/server/auth"
	"github.com/lorekeep/lorekeep/internal/server/handlers/api"
)

const (
	bearerPrefix   = "Bearer "
	authHeader     = "Authorization"
	UserContextKey = "user"
)

// JWTAuth validates Bearer tokens on protected routes and stores the
// authenticated user in the gin context. A no-op when auth is disabled.
func JWTAuth(authService *auth.AuthService) gin.HandlerFunc {
	if !authService.IsEnabled() {
		slog.Info("auth middleware disabled")
		return func(ctx *gin.Context) {
			ctx.Next()
		}
	}
	slog.Info("auth middleware enabled")
	return func(ctx *gin.Context) {
		headerValue := ctx.GetHeader(authHeader)
		if !strings.HasPrefix(headerValue, bearerPrefix) {
			api.AbortWithError(ctx, http.StatusUnauthorized, api.CodeAccessDenied,
				errors.New("authorization header must be Bearer {token}"))
			return
		}

		tokenString := strings.TrimPrefix(headerValue, bearerPrefix)
		claims, err := authService.ValidateAccessToken(tokenString)
		if err != nil {
			api.AbortWithError(ctx, http.StatusUnauthorized, api.CodeAccessDenied, err)
			return
		}

		ctx.Set(UserContextKey, claims.User())
		ctx.Next()
	}
}
