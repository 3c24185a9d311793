package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kymani/dukahub-api/models"
)

// contextClaims returns the JWT claims that RequireAuth stored on the request.
func contextClaims(ctx *gin.Context) (jwt.MapClaims, bool) {
	userClaims, exists := ctx.Get("user")
	if !exists {
		return nil, false
	}
	claims, ok := userClaims.(jwt.MapClaims)
	return claims, ok
}

func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := contextClaims(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found in context"})
			return
		}

		if role, ok := claims["role"].(string); !ok || role != models.RoleAdmin {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Admin access required"})
			return
		}

		ctx.Next()
	}
}
