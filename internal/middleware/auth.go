package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/memoapp/memo-server/internal/common"
	"github.com/memoapp/memo-server/pkg/jwt"
)

// JWTAuth JWT authentication middleware
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, 401, "Missing authorization header", nil)
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.ErrorResponse(c, 401, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		c.Set("userIdx", claims.UserIdx)
		c.Set("userID", claims.UserID)
		c.Set("nickname", claims.Nickname)

		c.Next()
	}
}

// GetUserIdx extracts the numeric user idx from context
func GetUserIdx(c *gin.Context) uint64 {
	v, exists := c.Get("userIdx")
	if !exists {
		return 0
	}
	if idx, ok := v.(uint64); ok {
		return idx
	}
	return 0
}

// GetUserID extracts the login id from context
func GetUserID(c *gin.Context) string {
	v, exists := c.Get("userID")
	if !exists {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return ""
}
