package controllers

import (
	"context"
	"errors"
	"time"
	"veo-prompt-director/application/ports/inbound"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/infrastructure/gin_interface/dto"
	"veo-prompt-director/middleware"

	"github.com/gin-gonic/gin"
)

type StoryController interface {
	SuggestStory(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type storyController struct {
	logger     outbound.LoggerPort
	workerPool outbound.TaskDispatcher
	generator  inbound.SceneGeneratorPort
	heartbeat  time.Duration
}

func NewStoryController(logger outbound.LoggerPort, workerPool outbound.TaskDispatcher, generator inbound.SceneGeneratorPort,
	heartbeat time.Duration) StoryController {
	return &storyController{
		logger:     logger,
		workerPool: workerPool,
		generator:  generator,
		heartbeat:  heartbeat,
	}
}

// SuggestStory streams the suggestion as token events. The first error ends
// the stream.
func (s *storyController) SuggestStory(c *gin.Context) {
	var req dto.SuggestStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.SendEvent(c, "error", dto.ErrorResponse{Error: err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	tokens, errCh := s.generator.SuggestStory(ctx, inbound.SuggestStoryParams{
		Brief:           req.Brief,
		Language:        req.Language,
		Duration:        req.Duration,
		IncludeDialogue: req.IncludeDialogue,
	})

	for tokens != nil || errCh != nil {
		select {
		case token, ok := <-tokens:
			if !ok {
				tokens = nil
				continue
			}
			middleware.SendEvent(c, "token", token)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error(err, "Story suggestion failed")
			middleware.SendEvent(c, "error", errorBody(err))
			return
		case <-ctx.Done():
			return
		}
	}

	middleware.SendEvent(c, "done", "")
}

func (s *storyController) RegisterRoutes(g *gin.Engine) {
	g.POST("/story/suggest", middleware.SSEMiddleware(s.workerPool, s.heartbeat), s.SuggestStory)
}
