package outbound

import (
	"context"
	"veo-prompt-director/domain"
)

// ArtifactStorePort persists rendered media and returns an address the client can fetch.
type ArtifactStorePort interface {
	Save(ctx context.Context, artifact domain.Artifact) (string, error)
}
