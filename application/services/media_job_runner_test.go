package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
	"veo-prompt-director/application/ports/inbound"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type runnerFixture struct {
	videos    *mockVideoJobs
	images    *mockImages
	artifacts *mockArtifacts
	runner    inbound.MediaRendererPort
}

func newRunnerFixture(defaultKey string) *runnerFixture {
	f := &runnerFixture{videos: &mockVideoJobs{}, images: &mockImages{}, artifacts: &mockArtifacts{}}
	creds := NewCredentialResolver(nopLogger{}, newMemoryKV(), defaultKey)
	f.runner = NewMediaJobRunner(nopLogger{}, f.videos, f.images, f.artifacts, creds, nopMetrics{}, goDispatcher{}, time.Millisecond)
	return f
}

type stateRecorder struct {
	mu     sync.Mutex
	states []domain.JobState
}

func (s *stateRecorder) record(event domain.JobEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, event.State)
}

func TestMediaJobRunner_RenderVideo(t *testing.T) {
	f := newRunnerFixture("env-key")
	scene := testScene(2)
	pending := &outbound.VideoOperation{Name: "operations/abc"}

	f.videos.On("Submit", mock.Anything, "env-key", domain.FormatVideoPrompt(scene)).Return(pending, nil)
	f.videos.On("Poll", mock.Anything, "env-key", pending).Return(&outbound.VideoOperation{Name: "operations/abc"}, nil).Once()
	f.videos.On("Poll", mock.Anything, "env-key", mock.Anything).
		Return(&outbound.VideoOperation{Name: "operations/abc", Done: true, VideoURI: "https://files/video.mp4"}, nil).Once()
	f.videos.On("Download", mock.Anything, "env-key", "https://files/video.mp4").Return([]byte("mp4"), nil)
	f.artifacts.On("Save", mock.Anything, mock.MatchedBy(func(a domain.Artifact) bool {
		return a.Kind == domain.VideoMediaKind && a.SceneNumber == 2 && a.MimeType == "video/mp4" && string(a.Content) == "mp4"
	})).Return("/artifacts/v.mp4", nil)

	rec := &stateRecorder{}
	artifact, err := f.runner.RenderVideo(context.Background(), scene, rec.record)

	require.NoError(t, err)
	assert.Equal(t, "/artifacts/v.mp4", artifact.URL)
	assert.Equal(t, []domain.JobState{
		domain.JobSubmitted,
		domain.JobPolling,
		domain.JobPolling,
		domain.JobCompleted,
		domain.JobFetching,
		domain.JobReady,
	}, rec.states)
	f.videos.AssertExpectations(t)
}

func TestMediaJobRunner_RenderVideoFailures(t *testing.T) {
	done := func(uri string, message string) *outbound.VideoOperation {
		return &outbound.VideoOperation{Name: "operations/x", Done: true, VideoURI: uri, ErrorMessage: message}
	}

	tests := []struct {
		name        string
		op          *outbound.VideoOperation
		downloadErr error
		want        error
		credential  bool
	}{
		{name: "no uri", op: done("", ""), want: domain.ErrVideoNoArtifact},
		{name: "download 404", op: done("u", ""), downloadErr: &outbound.RemoteError{StatusCode: 404, Body: "gone"}, want: domain.ErrInvalidCredential, credential: true},
		{name: "entity not found", op: done("u", ""), downloadErr: &outbound.RemoteError{StatusCode: 403, Body: `{"error":{"message":"Requested entity was not found."}}`}, want: domain.ErrInvalidCredential, credential: true},
		{name: "download 500", op: done("u", ""), downloadErr: &outbound.RemoteError{StatusCode: 500, Body: "boom"}, want: domain.ErrVideoDownloadFailed},
		{name: "transport", op: done("u", ""), downloadErr: errors.New("connection reset"), want: domain.ErrVideoDownloadFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRunnerFixture("env-key")
			f.videos.On("Submit", mock.Anything, "env-key", mock.Anything).Return(tt.op, nil)
			f.videos.On("Download", mock.Anything, "env-key", "u").Return(nil, tt.downloadErr)

			rec := &stateRecorder{}
			_, err := f.runner.RenderVideo(context.Background(), testScene(1), rec.record)

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.credential, domain.IsCredentialError(err))
			assert.Equal(t, domain.JobFailed, rec.states[len(rec.states)-1])
			f.artifacts.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestMediaJobRunner_RenderVideoOperationError(t *testing.T) {
	f := newRunnerFixture("env-key")
	f.videos.On("Submit", mock.Anything, "env-key", mock.Anything).
		Return(&outbound.VideoOperation{Name: "operations/x", Done: true, ErrorMessage: "prompt rejected"}, nil)

	_, err := f.runner.RenderVideo(context.Background(), testScene(1), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt rejected")
	f.videos.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
}

func TestMediaJobRunner_RenderVideoCancelled(t *testing.T) {
	f := newRunnerFixture("env-key")
	f.videos.On("Submit", mock.Anything, "env-key", mock.Anything).Return(&outbound.VideoOperation{Name: "operations/x"}, nil)
	f.videos.On("Poll", mock.Anything, "env-key", mock.Anything).Return(&outbound.VideoOperation{Name: "operations/x"}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := f.runner.RenderVideo(ctx, testScene(1), nil)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMediaJobRunner_RenderVideoMissingCredential(t *testing.T) {
	f := newRunnerFixture("")

	_, err := f.runner.RenderVideo(context.Background(), testScene(1), nil)

	assert.ErrorIs(t, err, domain.ErrMissingCredential)
	f.videos.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestMediaJobRunner_RenderImage(t *testing.T) {
	f := newRunnerFixture("env-key")
	scene := testScene(3)
	f.images.On("Generate", mock.Anything, "env-key", domain.FormatImagePrompt(scene)).
		Return(&outbound.GeneratedImage{MimeType: "image/jpeg", Content: []byte("jpg")}, nil)
	f.artifacts.On("Save", mock.Anything, mock.Anything).Return("/artifacts/i.jpg", nil)

	artifact, err := f.runner.RenderImage(context.Background(), scene)

	require.NoError(t, err)
	assert.Equal(t, domain.ImageMediaKind, artifact.Kind)
	assert.Equal(t, "/artifacts/i.jpg", artifact.URL)
	assert.Equal(t, "data:image/jpeg;base64,anBn", artifact.DataURI())
}

func TestMediaJobRunner_RenderImageEmpty(t *testing.T) {
	f := newRunnerFixture("env-key")
	f.images.On("Generate", mock.Anything, "env-key", mock.Anything).Return(&outbound.GeneratedImage{}, nil)

	_, err := f.runner.RenderImage(context.Background(), testScene(1))

	assert.ErrorIs(t, err, domain.ErrNoImageData)
}

func TestMediaJobRunner_RenderAllImages(t *testing.T) {
	f := newRunnerFixture("env-key")
	scenes := testScenes(3)
	f.images.On("Generate", mock.Anything, "env-key", domain.FormatImagePrompt(scenes[1])).Return(nil, errUpstream)
	f.images.On("Generate", mock.Anything, "env-key", mock.Anything).
		Return(&outbound.GeneratedImage{MimeType: "image/jpeg", Content: []byte("jpg")}, nil)
	f.artifacts.On("Save", mock.Anything, mock.Anything).Return("/artifacts/x.jpg", nil)

	out, errCh := f.runner.RenderAllImages(context.Background(), scenes)

	var rendered []int
	var errs []error
	for out != nil || errCh != nil {
		select {
		case artifact, ok := <-out:
			if !ok {
				out = nil
				continue
			}
			rendered = append(rendered, artifact.SceneNumber)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			errs = append(errs, err)
		}
	}

	sort.Ints(rendered)
	assert.Equal(t, []int{1, 3}, rendered)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], errUpstream)
	assert.Contains(t, errs[0].Error(), "scene 2")
}
