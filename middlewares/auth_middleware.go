package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dinesync/resto-backend/authz"
	"github.com/dinesync/resto-backend/models"
	"github.com/dinesync/resto-backend/utils"
)

// ActorKey is the context key the authenticated actor is stored
// under.
const ActorKey = "actor"

// AuthMiddleware validates the bearer token and loads the user row so
// every request carries a fresh role and restaurant affiliation.
// Authorization decisions downstream never trust stale token claims
// for anything but identity.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid token format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("account no longer exists"))
			c.Abort()
			return
		}

		c.Set(ActorKey, authz.Actor{
			ID:            user.ID,
			Role:          authz.Role(user.Role),
			RestaurantID:  user.RestaurantID,
			SuperAdmin:    user.SuperAdmin,
			Authenticated: true,
		})
		c.Set("token", tokenString)
		c.Next()
	}
}
