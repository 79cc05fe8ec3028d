package controllers

import (
	"net/http"
	"veo-prompt-director/application/ports/inbound"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/domain"
	"veo-prompt-director/infrastructure/gin_interface/dto"

	"github.com/gin-gonic/gin"
)

type SessionController interface {
	GetSession(c *gin.Context)
	UpdateInputs(c *gin.Context)
	GenerateScenes(c *gin.Context)
	CancelGeneration(c *gin.Context)
	RewriteScene(c *gin.Context)
	UpdateScene(c *gin.Context)
	NextScene(c *gin.Context)
	TranslateScene(c *gin.Context)
	ExportVideoPrompts(c *gin.Context)
	ExportImagePrompts(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type sessionController struct {
	logger   outbound.LoggerPort
	workflow inbound.WorkflowPort
}

func NewSessionController(logger outbound.LoggerPort, workflow inbound.WorkflowPort) SessionController {
	return &sessionController{
		logger:   logger,
		workflow: workflow,
	}
}

func (s *sessionController) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, s.workflow.Snapshot())
}

func (s *sessionController) UpdateInputs(c *gin.Context) {
	var req dto.FormInputsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	s.workflow.UpdateInputs(req.ToDomain())
	c.JSON(http.StatusOK, s.workflow.Snapshot())
}

func (s *sessionController) GenerateScenes(c *gin.Context) {
	var req dto.GenerateScenesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	scenes, err := s.workflow.Generate(c.Request.Context(), req.ToDomain())
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ScenesResponse{Scenes: scenes})
}

func (s *sessionController) CancelGeneration(c *gin.Context) {
	s.workflow.CancelGeneration()
	c.JSON(http.StatusOK, s.workflow.Snapshot())
}

func (s *sessionController) RewriteScene(c *gin.Context) {
	number, ok := sceneNumberParam(c)
	if !ok {
		return
	}
	var req dto.RewriteSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	scene, err := s.workflow.Rewrite(c.Request.Context(), number, domain.RewriteAction(req.Action))
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, scene)
}

func (s *sessionController) UpdateScene(c *gin.Context) {
	number, ok := sceneNumberParam(c)
	if !ok {
		return
	}
	var req dto.UpdateSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	scene := req.ToDomain(number)
	if err := s.workflow.EditInPlace(c.Request.Context(), scene); err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, scene)
}

func (s *sessionController) NextScene(c *gin.Context) {
	var req dto.NextSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	scene, err := s.workflow.Extend(c.Request.Context(), req.Prompt)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, scene)
}

func (s *sessionController) TranslateScene(c *gin.Context) {
	number, ok := sceneNumberParam(c)
	if !ok {
		return
	}
	var req dto.TranslateSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	scene, err := s.workflow.Translate(c.Request.Context(), number, req.Language)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, scene)
}

func (s *sessionController) ExportVideoPrompts(c *gin.Context) {
	c.String(http.StatusOK, s.workflow.ExportVideoPrompts())
}

func (s *sessionController) ExportImagePrompts(c *gin.Context) {
	c.String(http.StatusOK, s.workflow.ExportImagePrompts())
}

func (s *sessionController) RegisterRoutes(g *gin.Engine) {
	g.GET("/session", s.GetSession)
	g.PUT("/session/inputs", s.UpdateInputs)
	g.POST("/scenes/generate", s.GenerateScenes)
	g.POST("/scenes/cancel", s.CancelGeneration)
	g.POST("/scenes/next", s.NextScene)
	g.POST("/scenes/:number/rewrite", s.RewriteScene)
	g.PUT("/scenes/:number", s.UpdateScene)
	g.POST("/scenes/:number/translate", s.TranslateScene)
	g.GET("/prompts/video", s.ExportVideoPrompts)
	g.GET("/prompts/image", s.ExportImagePrompts)
}
