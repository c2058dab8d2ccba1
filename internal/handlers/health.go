package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/hackhub/db"
	"github.com/monocle-dev/hackhub/internal/utils"
	"go.uber.org/zap"
)

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "ok",
		"message":   "HackHub is running",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// Ready reports whether the database is reachable.
func (h *Handler) Ready(c *gin.Context) {
	if err := db.Ping(c.Request.Context(), h.DB, 2*time.Second); err != nil {
		utils.Logger(c).Warn("readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
