package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"veo-prompt-director/application/ports/inbound"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type generatorFixture struct {
	model    *mockModel
	streamer *mockStreamer
	kv       *memoryKV
	gen      inbound.SceneGeneratorPort
}

func newGeneratorFixture(t *testing.T, defaultKey string) *generatorFixture {
	f := &generatorFixture{model: &mockModel{}, streamer: &mockStreamer{}, kv: newMemoryKV()}
	creds := NewCredentialResolver(nopLogger{}, f.kv, defaultKey)
	f.gen = NewSceneGenerator(nopLogger{}, newTestBuilder(t), f.model, f.streamer, creds, nopMetrics{})
	return f
}

func opIs(op string) interface{} {
	return mock.MatchedBy(func(req outbound.ModelRequest) bool { return req.Op == op })
}

func marshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestSceneGenerator_GenerateBatch(t *testing.T) {
	f := newGeneratorFixture(t, "env-key")
	f.model.On("Invoke", mock.Anything, mock.MatchedBy(func(req outbound.ModelRequest) bool {
		return req.Op == BatchOp && req.APIKey == "env-key"
	})).Return(marshal(t, map[string]interface{}{"scenes": testScenes(3)}), nil)

	scenes, err := f.gen.GenerateBatch(context.Background(), baseInputs())

	require.NoError(t, err)
	assert.Equal(t, testScenes(3), scenes)
	f.model.AssertExpectations(t)
}

func TestSceneGenerator_MissingCredential(t *testing.T) {
	f := newGeneratorFixture(t, "")

	_, err := f.gen.GenerateBatch(context.Background(), baseInputs())

	var genErr *domain.GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, BatchOp, genErr.Op)
	assert.Equal(t, domain.ErrMissingCredential.Error(), err.Error())
	assert.True(t, domain.IsCredentialError(err))
	f.model.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
}

func TestSceneGenerator_UpstreamCredentialRejection(t *testing.T) {
	f := newGeneratorFixture(t, "env-key")
	f.model.On("Invoke", mock.Anything, opIs(BatchOp)).
		Return(nil, &outbound.RemoteError{StatusCode: 400, Body: "API key not valid. Please pass a valid API key."})

	_, err := f.gen.GenerateBatch(context.Background(), baseInputs())

	assert.True(t, domain.IsCredentialError(err))
	assert.Equal(t, domain.ErrInvalidCredential.Error(), err.Error())
}

func TestSceneGenerator_InvalidResponse(t *testing.T) {
	f := newGeneratorFixture(t, "env-key")
	f.model.On("Invoke", mock.Anything, opIs(BatchOp)).Return([]byte(`{"scenes":[{"sceneNumber":1}]}`), nil)

	_, err := f.gen.GenerateBatch(context.Background(), baseInputs())

	assert.ErrorIs(t, err, domain.ErrInvalidModelResponse)
	assert.False(t, domain.IsCredentialError(err))
	assert.Equal(t, "The AI model failed to generate a valid response. Please try again.", err.Error())
}

func TestSceneGenerator_RewriteKeepsNumber(t *testing.T) {
	f := newGeneratorFixture(t, "env-key")
	rewritten := testScene(9)
	rewritten.Visuals = "new visuals"
	f.model.On("Invoke", mock.Anything, opIs(RewriteOp)).Return(marshal(t, rewritten), nil)

	scene, err := f.gen.Rewrite(context.Background(), inbound.RewriteSceneParams{
		Scene:     testScene(3),
		Action:    domain.AlternativeRewriteAction,
		Inputs:    baseInputs(),
		AllScenes: testScenes(5),
	})

	require.NoError(t, err)
	assert.Equal(t, 3, scene.SceneNumber)
	assert.Equal(t, "new visuals", scene.Visuals)
}

func TestSceneGenerator_RewriteFailure(t *testing.T) {
	f := newGeneratorFixture(t, "env-key")
	f.model.On("Invoke", mock.Anything, opIs(RewriteOp)).Return(nil, errUpstream)

	_, err := f.gen.Rewrite(context.Background(), inbound.RewriteSceneParams{Scene: testScene(2), Action: domain.ExpandRewriteAction})

	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, "The AI model failed to rewrite scene 2.", err.Error())
}

func TestSceneGenerator_Translate(t *testing.T) {
	f := newGeneratorFixture(t, "env-key")
	translated := testScene(7)
	translated.ShortDescription = "Scene two"
	f.model.On("Invoke", mock.Anything, mock.MatchedBy(func(req outbound.ModelRequest) bool {
		return req.Op == TranslateOp && req.Model == "gemini-2.5-flash"
	})).Return(marshal(t, translated), nil)

	scene, err := f.gen.Translate(context.Background(), testScene(2), "English")

	require.NoError(t, err)
	assert.Equal(t, 2, scene.SceneNumber)
	assert.Equal(t, "Scene two", scene.ShortDescription)
}

func TestSceneGenerator_GenerateNextForcesNumber(t *testing.T) {
	f := newGeneratorFixture(t, "env-key")
	f.model.On("Invoke", mock.Anything, opIs(NextSceneOp)).Return(marshal(t, testScene(42)), nil)

	scene, err := f.gen.GenerateNext(context.Background(), inbound.NextSceneParams{
		Prompt:    "they meet again",
		AllScenes: testScenes(4),
		Inputs:    baseInputs(),
	})

	require.NoError(t, err)
	assert.Equal(t, 5, scene.SceneNumber)
}

func TestSceneGenerator_SuggestStory(t *testing.T) {
	f := newGeneratorFixture(t, "env-key")
	tokens := make(chan string, 2)
	errs := make(chan error)
	tokens <- "Once "
	tokens <- "upon"
	close(tokens)
	close(errs)
	f.streamer.On("Stream", mock.Anything, mock.MatchedBy(func(req outbound.ModelRequest) bool {
		return req.Op == SuggestOp && req.APIKey == "env-key" && req.Schema == nil
	})).Return((<-chan string)(tokens), (<-chan error)(errs))

	out, errCh := f.gen.SuggestStory(context.Background(), inbound.SuggestStoryParams{Brief: "a puppy", Language: "English"})

	var text string
	for tok := range out {
		text += tok
	}
	_, open := <-errCh
	assert.False(t, open)
	assert.Equal(t, "Once upon", text)
}

func TestSceneGenerator_SuggestStoryMissingCredential(t *testing.T) {
	f := newGeneratorFixture(t, "")

	out, errCh := f.gen.SuggestStory(context.Background(), inbound.SuggestStoryParams{Brief: "a puppy"})

	err := <-errCh
	assert.True(t, domain.IsCredentialError(err))
	_, open := <-out
	assert.False(t, open)
	f.streamer.AssertNotCalled(t, "Stream", mock.Anything, mock.Anything)
}
