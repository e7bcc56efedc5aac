package middleware

import (
	"net/http"
	"strings"

	"pixvault/backend/common"
	"pixvault/backend/service"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// resolveCaller looks for a session login first, then a bearer token.
// It reports the caller's identity without aborting the request.
func resolveCaller(c *gin.Context) (userID int64, username string, role int, status int, ok bool) {
	session := sessions.Default(c)
	if id, found := session.Get("id").(int64); found {
		username, _ = session.Get("username").(string)
		role, _ = session.Get("role").(int)
		status, _ = session.Get("status").(int)
		return id, username, role, status, true
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return 0, "", 0, 0, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, "", 0, 0, false
	}
	claims, err := service.ValidateToken(parts[1])
	if err != nil {
		return 0, "", 0, 0, false
	}
	if common.RedisEnabled {
		blacklisted, _ := common.RDB.Exists(c, "jwt:blacklist:"+parts[1]).Result()
		if blacklisted > 0 {
			return 0, "", 0, 0, false
		}
	}
	return claims.UserID, claims.Username, claims.Role, common.UserStatusEnabled, true
}

func authHelper(c *gin.Context, minRole int) {
	userID, username, role, status, ok := resolveCaller(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Not logged in or token is invalid",
		})
		c.Abort()
		return
	}
	if status == common.UserStatusDisabled {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "The user is banned",
		})
		c.Abort()
		return
	}
	if role < minRole {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Insufficient privileges",
		})
		c.Abort()
		return
	}
	c.Set("user_id", userID)
	c.Set("username", username)
	c.Set("role", role)
	c.Next()
}

func UserAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHelper(c, common.RoleCommonUser)
	}
}

// TryAuth resolves the caller if possible but never rejects the request.
// The media route uses it: anonymous requests may still succeed with a
// valid link token, and the denial there must stay uniform.
func TryAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, username, role, status, ok := resolveCaller(c); ok && status != common.UserStatusDisabled {
			c.Set("user_id", userID)
			c.Set("username", username)
			c.Set("role", role)
		}
		c.Next()
	}
}

// JWTAuth is a middleware that validates JWT tokens
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization header is required",
			})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authorization header format must be Bearer {token}",
			})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := service.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": err.Error(),
			})
			c.Abort()
			return
		}

		// Tokens invalidated by logout sit in the redis blacklist until
		// they would have expired anyway.
		if common.RedisEnabled {
			blacklisted, _ := common.RDB.Exists(c, "jwt:blacklist:"+tokenString).Result()
			if blacklisted > 0 {
				c.JSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "Token has been invalidated",
				})
				c.Abort()
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// AdminAuth middleware verifies the user has admin role
// Note: This middleware assumes an auth middleware has already set user info in context
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Role information not found",
			})
			c.Abort()
			return
		}

		roleInt, ok := role.(int)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Invalid role format",
			})
			c.Abort()
			return
		}

		if roleInt < common.RoleAdminUser {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Admin privileges required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RootAuth middleware verifies the user has root role
// Note: This middleware assumes an auth middleware has already set user info in context
func RootAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Role information not found",
			})
			c.Abort()
			return
		}

		roleInt, ok := role.(int)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Invalid role format",
			})
			c.Abort()
			return
		}

		if roleInt < common.RoleRootUser {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Root privileges required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
