package handlers

import (
	"net/http"

	"beautypage/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last health snapshot; 503 when a backing service is down.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.CheckedAt.IsZero() && !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": http.StatusText(code), "health": status})
}
