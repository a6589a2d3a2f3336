package middleware

import (
	"net/http"
	"strings"

	"beautypage/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWTAuthSpecialistMiddleware validates the bearer token and sets "specialistID" in context.
func JWTAuthSpecialistMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		specialistID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || specialistID == "" {
			zap.L().Debug("Rejected specialist token", zap.String("ip", clientIP(c)), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("specialistID", specialistID)
		c.Next()
	}
}

// SpecialistOwnerGuard only lets callers act on their own schedule. A foreign
// specialist in the path answers 404 so other calendars cannot be probed.
func SpecialistOwnerGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := c.GetString("specialistID")
		if caller == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Specialist not authenticated"})
			return
		}
		if c.Param("specialistID") != caller {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Schedule not found"})
			return
		}
		c.Next()
	}
}
