package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"veo-prompt-director/application/ports/inbound"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/channel_utils"
	"veo-prompt-director/domain"

	"github.com/google/uuid"
)

const (
	DefaultPollInterval = 10 * time.Second
	videoMimeType       = "video/mp4"
	imageMimeType       = "image/jpeg"
	entityNotFound      = "Requested entity was not found"
)

type mediaJobRunner struct {
	logger       outbound.LoggerPort
	videos       outbound.VideoJobPort
	images       outbound.ImageGeneratorPort
	artifacts    outbound.ArtifactStorePort
	credentials  inbound.CredentialPort
	metrics      outbound.MetricsPort
	workerPool   outbound.TaskDispatcher
	pollInterval time.Duration
}

func NewMediaJobRunner(logger outbound.LoggerPort, videos outbound.VideoJobPort, images outbound.ImageGeneratorPort,
	artifacts outbound.ArtifactStorePort, credentials inbound.CredentialPort, metrics outbound.MetricsPort,
	workerPool outbound.TaskDispatcher, pollInterval time.Duration) inbound.MediaRendererPort {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &mediaJobRunner{
		logger:       logger,
		videos:       videos,
		images:       images,
		artifacts:    artifacts,
		credentials:  credentials,
		metrics:      metrics,
		workerPool:   workerPool,
		pollInterval: pollInterval,
	}
}

// RenderVideo submits the scene's video prompt and blocks until the render is
// ready, has failed, or ctx is done. Every state change is reported to onState.
func (r *mediaJobRunner) RenderVideo(ctx context.Context, scene domain.Scene, onState func(domain.JobEvent)) (*domain.ArtifactWithUrl, error) {
	emit := func(state domain.JobState, attempt int, message string) {
		if onState != nil {
			onState(domain.JobEvent{SceneNumber: scene.SceneNumber, State: state, Attempt: attempt, Message: message})
		}
	}

	start := time.Now()
	artifact, err := r.renderVideo(ctx, scene, emit)
	elapsed := time.Since(start)

	if err != nil {
		outcome := "failed"
		if ctx.Err() != nil {
			outcome = "cancelled"
		}
		r.metrics.ObserveVideoJob(outcome, elapsed)
		r.logger.ErrorWithFields(err, "Video render failed", map[string]interface{}{"scene": scene.SceneNumber})
		emit(domain.JobFailed, 0, err.Error())
		return nil, err
	}

	r.metrics.ObserveVideoJob("ready", elapsed)
	emit(domain.JobReady, 0, "")
	return artifact, nil
}

func (r *mediaJobRunner) renderVideo(ctx context.Context, scene domain.Scene, emit func(domain.JobState, int, string)) (*domain.ArtifactWithUrl, error) {
	apiKey, err := r.credentials.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	op, err := r.videos.Submit(ctx, apiKey, domain.FormatVideoPrompt(scene))
	if err != nil {
		return nil, fmt.Errorf("failed to start video generation: %w", err)
	}
	emit(domain.JobSubmitted, 0, "")

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for attempt := 1; !op.Done; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		r.metrics.IncVideoPoll()
		emit(domain.JobPolling, attempt, "")

		apiKey, err = r.credentials.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		op, err = r.videos.Poll(ctx, apiKey, op)
		if err != nil {
			return nil, fmt.Errorf("failed to poll video generation: %w", err)
		}
	}

	if op.ErrorMessage != "" {
		return nil, fmt.Errorf("video generation failed: %s", op.ErrorMessage)
	}
	emit(domain.JobCompleted, 0, "")
	if op.VideoURI == "" {
		return nil, domain.ErrVideoNoArtifact
	}

	emit(domain.JobFetching, 0, "")
	apiKey, err = r.credentials.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	content, err := r.videos.Download(ctx, apiKey, op.VideoURI)
	if err != nil {
		return nil, r.downloadFailure(err)
	}

	return r.store(ctx, domain.Artifact{
		ID:          uuid.NewString(),
		SceneNumber: scene.SceneNumber,
		Kind:        domain.VideoMediaKind,
		MimeType:    videoMimeType,
		Content:     content,
	})
}

// downloadFailure maps a failed fetch. A missing entity means the key cannot
// see the file, which the user fixes by choosing another key.
func (r *mediaJobRunner) downloadFailure(err error) error {
	var remote *outbound.RemoteError
	if errors.As(err, &remote) {
		r.logger.ErrorWithFields(err, "Video download failed", map[string]interface{}{
			"status": remote.StatusCode,
			"body":   remote.Body,
		})
		if remote.StatusCode == 404 || strings.Contains(remote.Body, entityNotFound) {
			return domain.ErrInvalidCredential
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrVideoDownloadFailed, err)
}

func (r *mediaJobRunner) RenderImage(ctx context.Context, scene domain.Scene) (*domain.ArtifactWithUrl, error) {
	apiKey, err := r.credentials.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	image, err := r.images.Generate(ctx, apiKey, domain.FormatImagePrompt(scene))
	if err != nil {
		r.logger.ErrorWithFields(err, "Image render failed", map[string]interface{}{"scene": scene.SceneNumber})
		return nil, err
	}
	if image == nil || len(image.Content) == 0 {
		return nil, domain.ErrNoImageData
	}

	mimeType := image.MimeType
	if mimeType == "" {
		mimeType = imageMimeType
	}
	return r.store(ctx, domain.Artifact{
		ID:          uuid.NewString(),
		SceneNumber: scene.SceneNumber,
		Kind:        domain.ImageMediaKind,
		MimeType:    mimeType,
		Content:     image.Content,
	})
}

// RenderAllImages renders every scene's still on the worker pool. Both
// channels close once all scenes are done. A failed scene does not stop the
// others.
func (r *mediaJobRunner) RenderAllImages(ctx context.Context, scenes []domain.Scene) (<-chan domain.ArtifactWithUrl, <-chan error) {
	out := make(chan domain.ArtifactWithUrl, len(scenes))
	renderErrs := make(chan error, len(scenes))
	dispatchErrs := make(chan error, 1)

	err := r.workerPool.Submit(func() {
		defer close(dispatchErrs)
		defer close(renderErrs)
		defer close(out)

		var wg sync.WaitGroup
		for _, s := range scenes {
			scene := s
			wg.Add(1)
			err := r.workerPool.Submit(func() {
				defer wg.Done()
				artifact, err := r.RenderImage(ctx, scene)
				if err != nil {
					renderErrs <- fmt.Errorf("scene %d: %w", scene.SceneNumber, err)
					return
				}
				out <- *artifact
			})
			if err != nil {
				wg.Done()
				dispatchErrs <- err
				break
			}
		}
		wg.Wait()
	})
	if err != nil {
		dispatchErrs <- err
		close(dispatchErrs)
		close(renderErrs)
		close(out)
	}

	errCh, err := channel_utils.MergeChannels[error](ctx, r.workerPool, renderErrs, dispatchErrs)
	if err != nil {
		r.logger.Error(err, "error merging error channels")
		failed := make(chan error, 1)
		failed <- err
		close(failed)
		return out, failed
	}
	return out, errCh
}

func (r *mediaJobRunner) store(ctx context.Context, artifact domain.Artifact) (*domain.ArtifactWithUrl, error) {
	url, err := r.artifacts.Save(ctx, artifact)
	if err != nil {
		r.logger.ErrorWithFields(err, "Failed to store artifact", map[string]interface{}{
			"scene": artifact.SceneNumber,
			"kind":  artifact.Kind,
		})
		return nil, err
	}
	return &domain.ArtifactWithUrl{Artifact: artifact, URL: url}, nil
}
