package adapters

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/config"
	"veo-prompt-director/domain"
)

type localArtifactStore struct {
	logger         outbound.LoggerPort
	artifactConfig *config.ArtifactConfig
}

func NewLocalArtifactStore(logger outbound.LoggerPort, artifactConfig *config.ArtifactConfig) (outbound.ArtifactStorePort, error) {
	if err := os.MkdirAll(artifactConfig.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &localArtifactStore{
		logger:         logger,
		artifactConfig: artifactConfig,
	}, nil
}

func (l *localArtifactStore) Save(_ context.Context, artifact domain.Artifact) (string, error) {
	name := artifactName(artifact)
	path := filepath.Join(l.artifactConfig.Dir, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		l.logger.ErrorWithFields(err, "Failed to create artifact directory", map[string]interface{}{"path": path})
		return "", err
	}
	if err := os.WriteFile(path, artifact.Content, 0o644); err != nil {
		l.logger.ErrorWithFields(err, "Failed to write artifact", map[string]interface{}{"path": path})
		return "", err
	}

	url := strings.TrimSuffix(l.artifactConfig.BaseURL, "/") + "/" + name
	l.logger.DebugWithFields("Stored artifact", map[string]interface{}{"url": url, "bytes": len(artifact.Content)})
	return url, nil
}
