package adapters

import (
	"fmt"
	"veo-prompt-director/domain"
)

var artifactExtensions = map[string]string{
	"video/mp4":  ".mp4",
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// artifactName is scene-<n>/<kind>-<id><ext>.
func artifactName(artifact domain.Artifact) string {
	ext, ok := artifactExtensions[artifact.MimeType]
	if !ok {
		ext = ".bin"
	}
	return fmt.Sprintf("scene-%d/%s-%s%s", artifact.SceneNumber, artifact.Kind, artifact.ID, ext)
}
