package controllers

import (
	"net/http"
	"veo-prompt-director/application/ports/inbound"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/catalog"
	"veo-prompt-director/infrastructure/gin_interface/dto"

	"github.com/gin-gonic/gin"
)

type SettingsController interface {
	GetApiKeyStatus(c *gin.Context)
	SaveApiKey(c *gin.Context)
	ClearApiKey(c *gin.Context)
	GetPresets(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type settingsController struct {
	logger      outbound.LoggerPort
	credentials inbound.CredentialPort
	workflow    inbound.WorkflowPort
	presets     *catalog.Catalog
}

func NewSettingsController(logger outbound.LoggerPort, credentials inbound.CredentialPort, workflow inbound.WorkflowPort,
	presets *catalog.Catalog) SettingsController {
	return &settingsController{
		logger:      logger,
		credentials: credentials,
		workflow:    workflow,
		presets:     presets,
	}
}

// GetApiKeyStatus reports which keys exist. The key itself is never returned.
func (s *settingsController) GetApiKeyStatus(c *gin.Context) {
	status, err := s.credentials.Status(c.Request.Context())
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// SaveApiKey stores the override. An empty key removes it.
func (s *settingsController) SaveApiKey(c *gin.Context) {
	var req dto.ApiKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	if err := s.credentials.Save(ctx, req.ApiKey); err != nil {
		respondError(c, s.logger, err)
		return
	}
	s.workflow.AcknowledgeCredential()
	s.GetApiKeyStatus(c)
}

func (s *settingsController) ClearApiKey(c *gin.Context) {
	if err := s.credentials.Clear(c.Request.Context()); err != nil {
		respondError(c, s.logger, err)
		return
	}
	s.GetApiKeyStatus(c)
}

func (s *settingsController) GetPresets(c *gin.Context) {
	c.JSON(http.StatusOK, s.presets)
}

func (s *settingsController) RegisterRoutes(g *gin.Engine) {
	g.GET("/settings/api-key", s.GetApiKeyStatus)
	g.PUT("/settings/api-key", s.SaveApiKey)
	g.DELETE("/settings/api-key", s.ClearApiKey)
	g.GET("/presets", s.GetPresets)
}
