package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"veo-prompt-director/application/ports/inbound"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/domain"
)

type sceneGenerator struct {
	logger      outbound.LoggerPort
	builder     *RequestBuilder
	model       outbound.ModelPort
	streamer    outbound.TextStreamPort
	credentials inbound.CredentialPort
	metrics     outbound.MetricsPort
}

func NewSceneGenerator(logger outbound.LoggerPort, builder *RequestBuilder, model outbound.ModelPort, streamer outbound.TextStreamPort,
	credentials inbound.CredentialPort, metrics outbound.MetricsPort) inbound.SceneGeneratorPort {
	return &sceneGenerator{
		logger:      logger,
		builder:     builder,
		model:       model,
		streamer:    streamer,
		credentials: credentials,
		metrics:     metrics,
	}
}

func (s *sceneGenerator) GenerateBatch(ctx context.Context, inputs domain.FormInputs) ([]domain.Scene, error) {
	raw, err := s.invoke(ctx, s.builder.BuildBatch(inputs))
	if err != nil {
		return nil, generationFailure(BatchOp, "The AI model failed to generate a valid response. Please try again.", err)
	}

	scenes, err := DecodeSceneList(raw)
	if err != nil {
		s.logger.Error(err, "Failed to decode generated scenes")
		return nil, generationFailure(BatchOp, "The AI model failed to generate a valid response. Please try again.", err)
	}
	return scenes, nil
}

func (s *sceneGenerator) Rewrite(ctx context.Context, params inbound.RewriteSceneParams) (domain.Scene, error) {
	number := params.Scene.SceneNumber
	message := fmt.Sprintf("The AI model failed to rewrite scene %d.", number)

	raw, err := s.invoke(ctx, s.builder.BuildRewrite(params.Scene, params.Action, params.Inputs, params.AllScenes))
	if err != nil {
		return domain.Scene{}, generationFailure(RewriteOp, message, err)
	}

	scene, err := DecodeScene(raw)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to decode rewritten scene", map[string]interface{}{"scene": number})
		return domain.Scene{}, generationFailure(RewriteOp, message, err)
	}
	scene.SceneNumber = number
	return scene, nil
}

func (s *sceneGenerator) Translate(ctx context.Context, scene domain.Scene, targetLanguage string) (domain.Scene, error) {
	message := fmt.Sprintf("The AI model failed to translate scene %d.", scene.SceneNumber)

	raw, err := s.invoke(ctx, s.builder.BuildTranslate(scene, targetLanguage))
	if err != nil {
		return domain.Scene{}, generationFailure(TranslateOp, message, err)
	}

	translated, err := DecodeScene(raw)
	if err != nil {
		s.logger.ErrorWithFields(err, "Failed to decode translated scene", map[string]interface{}{"scene": scene.SceneNumber})
		return domain.Scene{}, generationFailure(TranslateOp, message, err)
	}
	translated.SceneNumber = scene.SceneNumber
	return translated, nil
}

func (s *sceneGenerator) GenerateNext(ctx context.Context, params inbound.NextSceneParams) (domain.Scene, error) {
	const message = "The AI model failed to generate the next scene."

	raw, err := s.invoke(ctx, s.builder.BuildNextScene(params.Prompt, params.AllScenes, params.Inputs))
	if err != nil {
		return domain.Scene{}, generationFailure(NextSceneOp, message, err)
	}

	scene, err := DecodeScene(raw)
	if err != nil {
		s.logger.Error(err, "Failed to decode next scene")
		return domain.Scene{}, generationFailure(NextSceneOp, message, err)
	}

	next := NextSceneNumber(params.AllScenes)
	if scene.SceneNumber != next {
		s.logger.DebugWithFields("Correcting next scene number", map[string]interface{}{
			"returned": scene.SceneNumber,
			"expected": next,
		})
	}
	scene.SceneNumber = next
	return scene, nil
}

func (s *sceneGenerator) SuggestStory(ctx context.Context, params inbound.SuggestStoryParams) (<-chan string, <-chan error) {
	apiKey, err := s.credentials.Resolve(ctx)
	if err != nil {
		out := make(chan string)
		errCh := make(chan error, 1)
		errCh <- generationFailure(SuggestOp, "The AI model failed to suggest story details. Please try again.", err)
		close(out)
		close(errCh)
		return out, errCh
	}

	req := s.builder.BuildSuggestion(params.Brief, params.Language, params.Duration, params.IncludeDialogue)
	req.APIKey = apiKey
	return s.streamer.Stream(ctx, req)
}

// invoke resolves the credential for this call only and records the outcome.
func (s *sceneGenerator) invoke(ctx context.Context, req outbound.ModelRequest) ([]byte, error) {
	apiKey, err := s.credentials.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	req.APIKey = apiKey

	start := time.Now()
	raw, err := s.model.Invoke(ctx, req)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.ObserveModelCall(req.Op, status, elapsed)
	s.logger.DebugWithFields("Model call finished", map[string]interface{}{
		"op":          req.Op,
		"model":       req.Model,
		"status":      status,
		"duration_ms": elapsed.Milliseconds(),
	})

	if err != nil {
		s.logger.ErrorWithFields(err, "Model call failed", map[string]interface{}{"op": req.Op})
		return nil, err
	}
	return raw, nil
}

func generationFailure(op string, message string, err error) error {
	if domain.IsCredentialError(err) {
		message = domain.ErrInvalidCredential.Error()
		if errors.Is(err, domain.ErrMissingCredential) {
			message = domain.ErrMissingCredential.Error()
		}
	}
	return domain.NewGenerationError(op, message, err)
}
