package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/domain"

	"github.com/stretchr/testify/mock"
)

func testScene(n int) domain.Scene {
	return domain.Scene{
		SceneNumber:          n,
		ShortDescription:     fmt.Sprintf("Cảnh %d", n),
		VideoStyle:           "Cinematic",
		CountryContext:       "Vietnamese",
		CharacterDescription: "- LAN: A young woman in a white Ao Dai.",
		Visuals:              fmt.Sprintf("Visuals of scene %d.", n),
		Camera:               "Slow pan.",
		Audio:                "Street chatter.",
		Sfx:                  "Footsteps.",
		Dialogue:             "LAN: Xin chào!",
		Music:                "Soft piano.",
	}
}

func testScenes(n int) []domain.Scene {
	scenes := make([]domain.Scene, 0, n)
	for i := 1; i <= n; i++ {
		scenes = append(scenes, testScene(i))
	}
	return scenes
}

type nopLogger struct{}

func (nopLogger) Info(string)                                           {}
func (nopLogger) InfoWithFields(string, map[string]interface{})         {}
func (nopLogger) Error(error, string)                                   {}
func (nopLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (nopLogger) Debug(string)                                          {}
func (nopLogger) DebugWithFields(string, map[string]interface{})        {}
func (nopLogger) Warn(string)                                           {}
func (nopLogger) WarnWithFields(string, map[string]interface{})         {}

type nopMetrics struct{}

func (nopMetrics) ObserveModelCall(string, string, time.Duration) {}
func (nopMetrics) ObserveVideoJob(string, time.Duration)          {}
func (nopMetrics) IncVideoPoll()                                  {}
func (nopMetrics) IncHistoryWrite(string)                         {}

type goDispatcher struct{}

func (goDispatcher) Submit(task func()) error {
	go task()
	return nil
}

type memoryKV struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: map[string]string{}}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryKV) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memoryKV) raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

var errUpstream = errors.New("upstream exploded")

type mockModel struct {
	mock.Mock
}

func (m *mockModel) Invoke(ctx context.Context, req outbound.ModelRequest) ([]byte, error) {
	args := m.Called(ctx, req)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Error(1)
}

type mockStreamer struct {
	mock.Mock
}

func (m *mockStreamer) Stream(ctx context.Context, req outbound.ModelRequest) (<-chan string, <-chan error) {
	args := m.Called(ctx, req)
	return args.Get(0).(<-chan string), args.Get(1).(<-chan error)
}

type mockVideoJobs struct {
	mock.Mock
}

func (m *mockVideoJobs) Submit(ctx context.Context, apiKey string, prompt string) (*outbound.VideoOperation, error) {
	args := m.Called(ctx, apiKey, prompt)
	op, _ := args.Get(0).(*outbound.VideoOperation)
	return op, args.Error(1)
}

func (m *mockVideoJobs) Poll(ctx context.Context, apiKey string, op *outbound.VideoOperation) (*outbound.VideoOperation, error) {
	args := m.Called(ctx, apiKey, op)
	next, _ := args.Get(0).(*outbound.VideoOperation)
	return next, args.Error(1)
}

func (m *mockVideoJobs) Download(ctx context.Context, apiKey string, uri string) ([]byte, error) {
	args := m.Called(ctx, apiKey, uri)
	raw, _ := args.Get(0).([]byte)
	return raw, args.Error(1)
}

type mockImages struct {
	mock.Mock
}

func (m *mockImages) Generate(ctx context.Context, apiKey string, prompt string) (*outbound.GeneratedImage, error) {
	args := m.Called(ctx, apiKey, prompt)
	img, _ := args.Get(0).(*outbound.GeneratedImage)
	return img, args.Error(1)
}

type mockArtifacts struct {
	mock.Mock
}

func (m *mockArtifacts) Save(ctx context.Context, artifact domain.Artifact) (string, error) {
	args := m.Called(ctx, artifact)
	return args.String(0), args.Error(1)
}
