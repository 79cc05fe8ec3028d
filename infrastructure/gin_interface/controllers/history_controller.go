package controllers

import (
	"net/http"
	"veo-prompt-director/application/ports/inbound"
	"veo-prompt-director/application/ports/outbound"

	"github.com/gin-gonic/gin"
)

type HistoryController interface {
	ListHistory(c *gin.Context)
	LoadHistory(c *gin.Context)
	DeleteHistory(c *gin.Context)
	ClearHistory(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type historyController struct {
	logger   outbound.LoggerPort
	history  inbound.HistoryPort
	workflow inbound.WorkflowPort
}

func NewHistoryController(logger outbound.LoggerPort, history inbound.HistoryPort, workflow inbound.WorkflowPort) HistoryController {
	return &historyController{
		logger:   logger,
		history:  history,
		workflow: workflow,
	}
}

func (h *historyController) ListHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.history.Load(c.Request.Context()))
}

func (h *historyController) LoadHistory(c *gin.Context) {
	if err := h.workflow.LoadHistory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.workflow.Snapshot())
}

func (h *historyController) DeleteHistory(c *gin.Context) {
	if err := h.history.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *historyController) ClearHistory(c *gin.Context) {
	if err := h.history.Clear(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *historyController) RegisterRoutes(g *gin.Engine) {
	g.GET("/history", h.ListHistory)
	g.POST("/history/:id/load", h.LoadHistory)
	g.DELETE("/history/:id", h.DeleteHistory)
	g.DELETE("/history", h.ClearHistory)
}
