// middlewares/auth_middleware.go
package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"backend/models"
	"backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware verifies the bearer token issued by the hosted auth
// provider and resolves it to a local user row, provisioning one on first
// sight. Handlers downstream read "userID" and "email" from the context.
func AuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured: JWT_SECRET not set"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(secret, tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var user models.User
		err = db.Where("external_id = ?", claims.Subject).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) && claims.Email != "" {
			err = db.Where("email = ?", claims.Email).First(&user).Error
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if claims.Email == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "email claim missing"})
				return
			}
			user = models.User{ExternalID: claims.Subject, Email: claims.Email}
			err = db.Create(&user).Error
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		c.Set("userID", user.ID)
		c.Set("email", user.Email)

		c.Next()
	}
}
