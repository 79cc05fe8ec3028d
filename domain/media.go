package domain

import (
	"encoding/base64"
	"fmt"
)

type MediaKind string

const (
	ImageMediaKind MediaKind = "image"
	VideoMediaKind MediaKind = "video"
)

// JobState is a step of a video render: Submitted, Polling (repeated),
// Completed, Fetching, then Ready or Failed.
type JobState string

const (
	JobSubmitted JobState = "submitted"
	JobPolling   JobState = "polling"
	JobCompleted JobState = "completed"
	JobFetching  JobState = "fetching"
	JobReady     JobState = "ready"
	JobFailed    JobState = "failed"
)

type JobEvent struct {
	SceneNumber int      `json:"sceneNumber"`
	State       JobState `json:"state"`
	Attempt     int      `json:"attempt,omitempty"`
	Message     string   `json:"message,omitempty"`
}

// Artifact is rendered media for a scene.
type Artifact struct {
	ID          string
	SceneNumber int
	Kind        MediaKind
	MimeType    string
	Content     []byte
}

func (a Artifact) DataURI() string {
	return fmt.Sprintf("data:%s;base64,%s", a.MimeType, base64.StdEncoding.EncodeToString(a.Content))
}

type ArtifactWithUrl struct {
	Artifact
	URL string
}

type ArtifactEvent struct {
	ID          string    `json:"id"`
	SceneNumber int       `json:"sceneNumber"`
	Kind        MediaKind `json:"kind"`
	MimeType    string    `json:"mimeType"`
	URL         string    `json:"url"`
}

func (a ArtifactWithUrl) ToEvent() ArtifactEvent {
	return ArtifactEvent{
		ID:          a.ID,
		SceneNumber: a.SceneNumber,
		Kind:        a.Kind,
		MimeType:    a.MimeType,
		URL:         a.URL,
	}
}
