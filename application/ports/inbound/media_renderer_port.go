package inbound

import (
	"context"
	"veo-prompt-director/domain"
)

type MediaRendererPort interface {
	RenderVideo(ctx context.Context, scene domain.Scene, onState func(domain.JobEvent)) (*domain.ArtifactWithUrl, error)
	RenderImage(ctx context.Context, scene domain.Scene) (*domain.ArtifactWithUrl, error)
	RenderAllImages(ctx context.Context, scenes []domain.Scene) (<-chan domain.ArtifactWithUrl, <-chan error)
}
