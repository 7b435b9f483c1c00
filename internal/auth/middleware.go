package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"gamescope/app/internal/database"
	"gamescope/app/internal/models"
	"gamescope/app/pkg/jwt"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Context keys set by AuthMiddleware.
const (
	KeyAccount   = "account"
	KeySessionID = "sessionID"
)

// AuthMiddleware requires a valid bearer token whose session still exists.
//
// Browsers cannot set headers on an EventSource, so the token may also be
// passed as the access_token query parameter.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
			return
		}

		claims, err := jwt.ParseToken(tokenString)
		if err != nil {
			msg := "Invalid token"
			if errors.Is(err, gojwt.ErrTokenExpired) {
				msg = "Session expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		var session models.Session
		err = database.DB.Preload("Account").Where("id = ?", claims.SessionID).First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load session"})
			return
		}
		if session.Expired(time.Now()) || session.Account.PublicID() != claims.Subject {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
			return
		}

		c.Set(KeyAccount, session.Account)
		c.Set(KeySessionID, session.ID)
		c.Next()
	}
}

// CurrentAccount returns the account set by AuthMiddleware.
func CurrentAccount(c *gin.Context) (models.Account, bool) {
	v, ok := c.Get(KeyAccount)
	if !ok {
		return models.Account{}, false
	}
	account, ok := v.(models.Account)
	return account, ok
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Query("access_token")
}
