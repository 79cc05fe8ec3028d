package dto

import "veo-prompt-director/domain"

type ArtifactResponse struct {
	domain.ArtifactEvent
	DataURI string `json:"dataUri,omitempty"`
}

func NewArtifactResponse(artifact domain.ArtifactWithUrl, withDataURI bool) ArtifactResponse {
	res := ArtifactResponse{ArtifactEvent: artifact.ToEvent()}
	if withDataURI {
		res.DataURI = artifact.DataURI()
	}
	return res
}
