package controllers

import (
	"context"
	"veo-prompt-director/application/ports/inbound"
	"veo-prompt-director/domain"

	"github.com/stretchr/testify/mock"
)

type nopLogger struct{}

func (nopLogger) Info(string)                                           {}
func (nopLogger) InfoWithFields(string, map[string]interface{})         {}
func (nopLogger) Error(error, string)                                   {}
func (nopLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (nopLogger) Debug(string)                                          {}
func (nopLogger) DebugWithFields(string, map[string]interface{})        {}
func (nopLogger) Warn(string)                                           {}
func (nopLogger) WarnWithFields(string, map[string]interface{})         {}

type goDispatcher struct{}

func (goDispatcher) Submit(task func()) error {
	go task()
	return nil
}

type mockWorkflow struct {
	mock.Mock
}

func (m *mockWorkflow) Generate(ctx context.Context, inputs domain.FormInputs) ([]domain.Scene, error) {
	args := m.Called(ctx, inputs)
	scenes, _ := args.Get(0).([]domain.Scene)
	return scenes, args.Error(1)
}

func (m *mockWorkflow) CancelGeneration() {
	m.Called()
}

func (m *mockWorkflow) Rewrite(ctx context.Context, sceneNumber int, action domain.RewriteAction) (domain.Scene, error) {
	args := m.Called(ctx, sceneNumber, action)
	return args.Get(0).(domain.Scene), args.Error(1)
}

func (m *mockWorkflow) Extend(ctx context.Context, prompt string) (domain.Scene, error) {
	args := m.Called(ctx, prompt)
	return args.Get(0).(domain.Scene), args.Error(1)
}

func (m *mockWorkflow) EditInPlace(ctx context.Context, scene domain.Scene) error {
	return m.Called(ctx, scene).Error(0)
}

func (m *mockWorkflow) Translate(ctx context.Context, sceneNumber int, targetLanguage string) (domain.Scene, error) {
	args := m.Called(ctx, sceneNumber, targetLanguage)
	return args.Get(0).(domain.Scene), args.Error(1)
}

func (m *mockWorkflow) UpdateInputs(inputs domain.FormInputs) {
	m.Called(inputs)
}

func (m *mockWorkflow) LoadHistory(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockWorkflow) Snapshot() inbound.SessionState {
	return m.Called().Get(0).(inbound.SessionState)
}

func (m *mockWorkflow) Scene(sceneNumber int) (domain.Scene, bool) {
	args := m.Called(sceneNumber)
	return args.Get(0).(domain.Scene), args.Bool(1)
}

func (m *mockWorkflow) ExportVideoPrompts() string {
	return m.Called().String(0)
}

func (m *mockWorkflow) ExportImagePrompts() string {
	return m.Called().String(0)
}

func (m *mockWorkflow) ReportFailure(err error) {
	m.Called(err)
}

func (m *mockWorkflow) AcknowledgeCredential() {
	m.Called()
}

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) RenderVideo(ctx context.Context, scene domain.Scene, onState func(domain.JobEvent)) (*domain.ArtifactWithUrl, error) {
	args := m.Called(ctx, scene, onState)
	artifact, _ := args.Get(0).(*domain.ArtifactWithUrl)
	return artifact, args.Error(1)
}

func (m *mockRenderer) RenderImage(ctx context.Context, scene domain.Scene) (*domain.ArtifactWithUrl, error) {
	args := m.Called(ctx, scene)
	artifact, _ := args.Get(0).(*domain.ArtifactWithUrl)
	return artifact, args.Error(1)
}

func (m *mockRenderer) RenderAllImages(ctx context.Context, scenes []domain.Scene) (<-chan domain.ArtifactWithUrl, <-chan error) {
	args := m.Called(ctx, scenes)
	return args.Get(0).(<-chan domain.ArtifactWithUrl), args.Get(1).(<-chan error)
}

type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) Load(ctx context.Context) []domain.HistoryItem {
	items, _ := m.Called(ctx).Get(0).([]domain.HistoryItem)
	return items
}

func (m *mockHistory) Get(ctx context.Context, id string) (domain.HistoryItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.HistoryItem), args.Error(1)
}

func (m *mockHistory) Upsert(ctx context.Context, inputs domain.FormInputs, scenes []domain.Scene) error {
	return m.Called(ctx, inputs, scenes).Error(0)
}

func (m *mockHistory) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockHistory) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockCredentials struct {
	mock.Mock
}

func (m *mockCredentials) Resolve(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockCredentials) Save(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockCredentials) Clear(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockCredentials) Status(ctx context.Context) (inbound.CredentialStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(inbound.CredentialStatus), args.Error(1)
}

// stubGenerator only streams suggestions.
type stubGenerator struct {
	inbound.SceneGeneratorPort
	tokens []string
	err    error
}

func (s *stubGenerator) SuggestStory(context.Context, inbound.SuggestStoryParams) (<-chan string, <-chan error) {
	out := make(chan string, len(s.tokens))
	errCh := make(chan error, 1)
	for _, t := range s.tokens {
		out <- t
	}
	if s.err != nil {
		errCh <- s.err
	}
	close(out)
	close(errCh)
	return out, errCh
}

func testScene(n int) domain.Scene {
	return domain.Scene{SceneNumber: n, ShortDescription: "Cảnh", Visuals: "A market at dawn."}
}
