package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthController interface {
	RegisterRoutes(g *gin.Engine)
}

type healthController struct {
	metrics http.Handler
}

// NewHealthController serves liveness and, when metrics is not nil, the
// Prometheus scrape endpoint.
func NewHealthController(metrics http.Handler) HealthController {
	return &healthController{metrics: metrics}
}

func (h *healthController) RegisterRoutes(g *gin.Engine) {
	g.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if h.metrics != nil {
		g.GET("/metrics", gin.WrapH(h.metrics))
	}
}
