package middleware

import (
	"crypto/subtle"
	"strings"

	"rewards/config"
	"rewards/constants"
	apperrors "rewards/errors"
	"rewards/response"
	"rewards/services/logger"

	"github.com/gin-gonic/gin"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	ParseToken(token string) (uint, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// AuthMiddleware xử lý authentication
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			response.FromError(c, nil, apperrors.ErrMissingToken)
			c.Abort()
			return
		}

		userID, err := verifier.ParseToken(tokenString)
		if err != nil {
			response.FromError(c, nil, apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		// Lưu thông tin user vào context
		c.Set(constants.ContextUserID, userID)
		c.Next()
	}
}

// AdminMiddleware checks the operator credential pair sent as headers.
func AdminMiddleware(admin config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		username := c.GetHeader("X-Admin-Username")
		password := c.GetHeader("X-Admin-Password")
		if admin.Username == "" || admin.Password == "" || username == "" || password == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		userOK := subtle.ConstantTimeCompare([]byte(username), []byte(admin.Username)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(password), []byte(admin.Password)) == 1
		if !userOK || !passOK {
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUserID returns the id stored by AuthMiddleware.
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(constants.ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id != 0
}

// ErrorHandler xử lý lỗi
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			response.FromError(c, log, c.Errors.Last().Err)
		}
	}
}
