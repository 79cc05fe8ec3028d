package inbound

import (
	"context"
	"veo-prompt-director/domain"
)

type RewriteSceneParams struct {
	Scene     domain.Scene
	Action    domain.RewriteAction
	Inputs    domain.FormInputs
	AllScenes []domain.Scene
}

type NextSceneParams struct {
	Prompt    string
	AllScenes []domain.Scene
	Inputs    domain.FormInputs
}

type SuggestStoryParams struct {
	Brief           string
	Language        string
	Duration        string
	IncludeDialogue bool
}

type SceneGeneratorPort interface {
	GenerateBatch(ctx context.Context, inputs domain.FormInputs) ([]domain.Scene, error)
	Rewrite(ctx context.Context, params RewriteSceneParams) (domain.Scene, error)
	Translate(ctx context.Context, scene domain.Scene, targetLanguage string) (domain.Scene, error)
	GenerateNext(ctx context.Context, params NextSceneParams) (domain.Scene, error)
	SuggestStory(ctx context.Context, params SuggestStoryParams) (<-chan string, <-chan error)
}
