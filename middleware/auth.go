package middleware

import (
	"net/http"
	"strings"
	"worknest-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

func extractJwtClaims(c *gin.Context) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")

	if authHeader == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
		c.Abort()
		return nil, false
	}

	authHeader = strings.Trim(authHeader, "\"' ")

	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		authHeader = "Bearer " + authHeader
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format, expected: Bearer <token>"})
		c.Abort()
		return nil, false
	}

	tokenString := parts[1]
	tokenString = strings.Trim(tokenString, "\"' ")

	claims, err := utils.DecodeJWT(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
		c.Abort()
		return nil, false
	}

	return claims, true
}

// JWTAuth populates user_id and user_type from the token. The account type is
// fixed at login time, so handlers never probe candidate/employer tables to
// find out who is calling.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := extractJwtClaims(c)
		if !ok {
			return
		}

		c.Set("user_id", claims["user_id"])
		c.Set("user_type", claims["user_type"])
		c.Next()
	}
}

func requireUserType(c *gin.Context, wanted string) {
	claims, ok := extractJwtClaims(c)
	if !ok {
		return
	}

	c.Set("user_id", claims["user_id"])
	c.Set("user_type", claims["user_type"])

	userType, exists := claims["user_type"]
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User type not found in token"})
		c.Abort()
		return
	}

	if userType != wanted {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: " + wanted + " account required"})
		c.Abort()
		return
	}

	c.Next()
}

func EmployerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		requireUserType(c, "employer")
	}
}

func CandidateAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		requireUserType(c, "candidate")
	}
}

func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		requireUserType(c, "admin")
	}
}
