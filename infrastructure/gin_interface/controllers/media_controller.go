package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"
	"veo-prompt-director/application/ports/inbound"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/domain"
	"veo-prompt-director/infrastructure/gin_interface/dto"
	"veo-prompt-director/middleware"

	"github.com/gin-gonic/gin"
)

var errNothingToRender = errors.New("there are no scenes to render")

type MediaController interface {
	RenderImage(c *gin.Context)
	RenderVideo(c *gin.Context)
	RenderAllImages(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type mediaController struct {
	logger     outbound.LoggerPort
	workerPool outbound.TaskDispatcher
	workflow   inbound.WorkflowPort
	renderer   inbound.MediaRendererPort
	heartbeat  time.Duration
}

func NewMediaController(logger outbound.LoggerPort, workerPool outbound.TaskDispatcher, workflow inbound.WorkflowPort,
	renderer inbound.MediaRendererPort, heartbeat time.Duration) MediaController {
	return &mediaController{
		logger:     logger,
		workerPool: workerPool,
		workflow:   workflow,
		renderer:   renderer,
		heartbeat:  heartbeat,
	}
}

func (m *mediaController) RenderImage(c *gin.Context) {
	number, ok := sceneNumberParam(c)
	if !ok {
		return
	}
	scene, ok := m.workflow.Scene(number)
	if !ok {
		respondError(c, m.logger, domain.ErrSceneNotFound)
		return
	}

	artifact, err := m.renderer.RenderImage(c.Request.Context(), scene)
	if err != nil {
		m.workflow.ReportFailure(err)
		respondError(c, m.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewArtifactResponse(*artifact, true))
}

// RenderVideo streams job states while the render runs. The stream ends
// with a single ready or error event.
func (m *mediaController) RenderVideo(c *gin.Context) {
	number, ok := sceneNumberParam(c)
	if !ok {
		return
	}
	scene, ok := m.workflow.Scene(number)
	if !ok {
		middleware.SendEvent(c, "error", errorBody(domain.ErrSceneNotFound))
		return
	}

	artifact, err := m.renderer.RenderVideo(c.Request.Context(), scene, func(event domain.JobEvent) {
		middleware.SendEvent(c, "state", event)
	})
	if err != nil {
		m.workflow.ReportFailure(err)
		if errors.Is(err, context.Canceled) {
			return
		}
		middleware.SendEvent(c, "error", errorBody(err))
		return
	}
	middleware.SendEvent(c, "ready", dto.NewArtifactResponse(*artifact, false))
}

func (m *mediaController) RenderAllImages(c *gin.Context) {
	scenes := m.workflow.Snapshot().Scenes
	if len(scenes) == 0 {
		middleware.SendEvent(c, "error", errorBody(errNothingToRender))
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	out, errCh := m.renderer.RenderAllImages(ctx, scenes)
	failed := 0
	for out != nil || errCh != nil {
		select {
		case artifact, ok := <-out:
			if !ok {
				out = nil
				continue
			}
			middleware.SendEvent(c, "image", dto.NewArtifactResponse(artifact, false))
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			failed++
			m.workflow.ReportFailure(err)
			middleware.SendEvent(c, "scene_error", errorBody(err))
		case <-ctx.Done():
			return
		}
	}

	middleware.SendEvent(c, "done", gin.H{"rendered": len(scenes) - failed, "failed": failed})
}

func (m *mediaController) RegisterRoutes(g *gin.Engine) {
	sse := middleware.SSEMiddleware(m.workerPool, m.heartbeat)
	g.POST("/scenes/:number/image", m.RenderImage)
	g.POST("/scenes/:number/video", sse, m.RenderVideo)
	g.POST("/scenes/images", sse, m.RenderAllImages)
}
