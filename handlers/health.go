package handlers

import (
	"net/http"

	"cleaningmanager/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest dependency snapshot; 503 when any probe failed.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	if !status.Healthy() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "checks": status})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": status})
}
