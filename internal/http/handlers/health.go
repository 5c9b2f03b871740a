package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/tutormatch-backend/internal/platform/logger"
)

type HealthHandler struct {
	log  *logger.Logger
	ping func(ctx context.Context) error
}

// NewHealthHandler takes the graph ping; nil reports healthy without a store check.
func NewHealthHandler(log *logger.Logger, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{log: log.With("handler", "HealthHandler"), ping: ping}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.log.Warn("healthcheck: graph ping failed", "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "graph": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
