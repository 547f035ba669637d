package middlewares

import (
	"net/http"
	"strings"

	"example.com/edueat/services/cafeteria/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const userContextKey = "user"

// RequireAuth validates the Bearer token and stores its claims in the
// request context.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing bearer token"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token claims"})
			return
		}

		ctx.Set(userContextKey, claims)
		ctx.Next()
	}
}

// RequireStaff gates a route group to accounts with the staff role. It
// must run after RequireAuth.
func RequireStaff() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userClaims, exists := ctx.Get(userContextKey)
		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found in context"})
			return
		}

		claims := userClaims.(jwt.MapClaims)
		role, ok := claims["role"].(string)
		if !ok || role != string(models.RoleStaff) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Staff access required"})
			return
		}

		ctx.Next()
	}
}

// CurrentUserID extracts the authenticated user's id from the context
func CurrentUserID(ctx *gin.Context) (uuid.UUID, error) {
	userClaims, exists := ctx.Get(userContextKey)
	if !exists {
		return uuid.Nil, errors.New("no authenticated user in context")
	}
	claims, ok := userClaims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims in context")
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, errors.New("token has no user_id claim")
	}
	return uuid.Parse(raw)
}
