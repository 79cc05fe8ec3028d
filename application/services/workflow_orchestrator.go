package services

import (
	"context"
	"errors"
	"sync"
	"veo-prompt-director/application/ports/inbound"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/domain"
)

const (
	GenerationStoppedMessage = "Generation was stopped."
	NoScenesToExtendMessage  = "Cannot generate the next scene before an initial storyboard exists."
)

// workflowOrchestrator owns the session. The mutex guards reads and
// replacements only and is never held across a model or store call.
type workflowOrchestrator struct {
	mu                 sync.Mutex
	logger             outbound.LoggerPort
	generator          inbound.SceneGeneratorPort
	history            inbound.HistoryPort
	inputs             domain.FormInputs
	scenes             []domain.Scene
	errorMessage       string
	credentialRequired bool
	isGenerating       bool
	epoch              uint64
}

func NewWorkflowOrchestrator(logger outbound.LoggerPort, generator inbound.SceneGeneratorPort, history inbound.HistoryPort,
	initial domain.FormInputs) inbound.WorkflowPort {
	return &workflowOrchestrator{
		logger:    logger,
		generator: generator,
		history:   history,
		inputs:    initial.Normalize(),
		scenes:    []domain.Scene{},
	}
}

func (w *workflowOrchestrator) Generate(ctx context.Context, inputs domain.FormInputs) ([]domain.Scene, error) {
	inputs = inputs.Normalize()

	w.mu.Lock()
	w.epoch++
	epoch := w.epoch
	w.inputs = inputs
	w.scenes = []domain.Scene{}
	w.errorMessage = ""
	w.isGenerating = true
	w.mu.Unlock()

	scenes, err := w.generator.GenerateBatch(ctx, inputs)

	w.mu.Lock()
	if w.epoch != epoch {
		w.mu.Unlock()
		w.logger.DebugWithFields("Discarding stale generation result", map[string]interface{}{"epoch": epoch})
		return nil, domain.ErrGenerationCancelled
	}
	w.isGenerating = false
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			w.fail(err)
		}
		w.mu.Unlock()
		return nil, err
	}
	w.scenes = scenes
	w.mu.Unlock()

	w.saveHistory(ctx, inputs, scenes)
	return copyScenes(scenes), nil
}

// CancelGeneration is advisory: the in-flight call keeps running and its
// result is dropped on arrival.
func (w *workflowOrchestrator) CancelGeneration() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.epoch++
	w.isGenerating = false
	w.scenes = []domain.Scene{}
	w.errorMessage = GenerationStoppedMessage
}

func (w *workflowOrchestrator) Rewrite(ctx context.Context, sceneNumber int, action domain.RewriteAction) (domain.Scene, error) {
	w.mu.Lock()
	scene, ok := domain.FindScene(w.scenes, sceneNumber)
	inputs := w.inputs
	allScenes := copyScenes(w.scenes)
	if ok {
		w.errorMessage = ""
	}
	w.mu.Unlock()
	if !ok {
		return domain.Scene{}, domain.ErrSceneNotFound
	}

	rewritten, err := w.generator.Rewrite(ctx, inbound.RewriteSceneParams{
		Scene:     scene,
		Action:    action,
		Inputs:    inputs,
		AllScenes: allScenes,
	})
	if err != nil {
		w.ReportFailure(err)
		return domain.Scene{}, err
	}

	w.replace(ctx, rewritten)
	return rewritten, nil
}

func (w *workflowOrchestrator) Extend(ctx context.Context, prompt string) (domain.Scene, error) {
	w.mu.Lock()
	if len(w.scenes) == 0 {
		w.errorMessage = NoScenesToExtendMessage
		w.mu.Unlock()
		return domain.Scene{}, domain.ErrNoScenesToExtend
	}
	inputs := w.inputs
	allScenes := copyScenes(w.scenes)
	epoch := w.epoch
	w.errorMessage = ""
	w.mu.Unlock()

	next, err := w.generator.GenerateNext(ctx, inbound.NextSceneParams{
		Prompt:    prompt,
		AllScenes: allScenes,
		Inputs:    inputs,
	})
	if err != nil {
		w.ReportFailure(err)
		return domain.Scene{}, err
	}

	w.mu.Lock()
	// the storyboard was replaced or already extended while the model ran
	if w.epoch != epoch || len(w.scenes)+1 != next.SceneNumber {
		w.mu.Unlock()
		w.logger.DebugWithFields("Discarding stale next scene", map[string]interface{}{"scene": next.SceneNumber})
		return domain.Scene{}, domain.ErrStoryboardChanged
	}
	w.scenes = domain.AppendScene(w.scenes, next)
	inputs = w.inputs
	scenes := copyScenes(w.scenes)
	w.mu.Unlock()

	w.saveHistory(ctx, inputs, scenes)
	return next, nil
}

func (w *workflowOrchestrator) EditInPlace(ctx context.Context, scene domain.Scene) error {
	w.mu.Lock()
	if _, ok := domain.FindScene(w.scenes, scene.SceneNumber); !ok {
		w.mu.Unlock()
		return domain.ErrSceneNotFound
	}
	w.mu.Unlock()

	w.replace(ctx, scene)
	return nil
}

// Translate returns a translated copy for display. The storyboard keeps the
// original text.
func (w *workflowOrchestrator) Translate(ctx context.Context, sceneNumber int, targetLanguage string) (domain.Scene, error) {
	scene, ok := w.Scene(sceneNumber)
	if !ok {
		return domain.Scene{}, domain.ErrSceneNotFound
	}

	translated, err := w.generator.Translate(ctx, scene, targetLanguage)
	if err != nil {
		w.ReportFailure(err)
		return domain.Scene{}, err
	}
	return translated, nil
}

func (w *workflowOrchestrator) UpdateInputs(inputs domain.FormInputs) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.inputs = inputs.Normalize()
}

// LoadHistory restores a saved storyboard. A generation still in flight is
// superseded so its result cannot overwrite the restored scenes.
func (w *workflowOrchestrator) LoadHistory(ctx context.Context, id string) error {
	item, err := w.history.Get(ctx, id)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.epoch++
	w.isGenerating = false
	w.inputs = item.Inputs.Normalize()
	w.scenes = copyScenes(item.Scenes)
	w.errorMessage = ""
	return nil
}

func (w *workflowOrchestrator) Snapshot() inbound.SessionState {
	w.mu.Lock()
	defer w.mu.Unlock()

	inputs := w.inputs
	inputs.CharacterProfiles = append([]domain.CharacterProfile{}, w.inputs.CharacterProfiles...)
	return inbound.SessionState{
		Inputs:             inputs,
		Scenes:             copyScenes(w.scenes),
		ErrorMessage:       w.errorMessage,
		CredentialRequired: w.credentialRequired,
		IsGenerating:       w.isGenerating,
	}
}

func (w *workflowOrchestrator) Scene(sceneNumber int) (domain.Scene, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return domain.FindScene(w.scenes, sceneNumber)
}

func (w *workflowOrchestrator) ExportVideoPrompts() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return domain.JoinPrompts(w.scenes, domain.FormatVideoPrompt)
}

func (w *workflowOrchestrator) ExportImagePrompts() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return domain.JoinPrompts(w.scenes, domain.FormatImagePrompt)
}

func (w *workflowOrchestrator) ReportFailure(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fail(err)
}

func (w *workflowOrchestrator) AcknowledgeCredential() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.credentialRequired = false
}

// fail must be called with mu held.
func (w *workflowOrchestrator) fail(err error) {
	w.errorMessage = err.Error()
	if domain.IsCredentialError(err) {
		w.credentialRequired = true
	}
}

// replace swaps a scene into the list current at completion time. A scene
// that disappeared meanwhile (new batch, history load) is dropped.
func (w *workflowOrchestrator) replace(ctx context.Context, scene domain.Scene) {
	w.mu.Lock()
	scenes, found := domain.ReplaceScene(w.scenes, scene)
	if found {
		w.scenes = scenes
	}
	inputs := w.inputs
	w.mu.Unlock()

	if !found {
		w.logger.DebugWithFields("Scene no longer on the storyboard", map[string]interface{}{"scene": scene.SceneNumber})
		return
	}
	w.saveHistory(ctx, inputs, scenes)
}

func (w *workflowOrchestrator) saveHistory(ctx context.Context, inputs domain.FormInputs, scenes []domain.Scene) {
	if err := w.history.Upsert(ctx, inputs, scenes); err != nil {
		w.logger.Error(err, "Failed to save history")
	}
}

func copyScenes(scenes []domain.Scene) []domain.Scene {
	out := make([]domain.Scene, len(scenes))
	copy(out, scenes)
	return out
}
