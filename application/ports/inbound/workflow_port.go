package inbound

import (
	"context"
	"veo-prompt-director/domain"
)

// SessionState is a point in time copy of the storyboard session.
type SessionState struct {
	Inputs             domain.FormInputs `json:"inputs"`
	Scenes             []domain.Scene    `json:"scenes"`
	ErrorMessage       string            `json:"errorMessage"`
	CredentialRequired bool              `json:"credentialRequired"`
	IsGenerating       bool              `json:"isGenerating"`
}

type WorkflowPort interface {
	Generate(ctx context.Context, inputs domain.FormInputs) ([]domain.Scene, error)
	CancelGeneration()
	Rewrite(ctx context.Context, sceneNumber int, action domain.RewriteAction) (domain.Scene, error)
	Extend(ctx context.Context, prompt string) (domain.Scene, error)
	EditInPlace(ctx context.Context, scene domain.Scene) error
	Translate(ctx context.Context, sceneNumber int, targetLanguage string) (domain.Scene, error)
	UpdateInputs(inputs domain.FormInputs)
	LoadHistory(ctx context.Context, id string) error
	Snapshot() SessionState
	Scene(sceneNumber int) (domain.Scene, bool)
	ExportVideoPrompts() string
	ExportImagePrompts() string
	ReportFailure(err error)
	AcknowledgeCredential()
}
