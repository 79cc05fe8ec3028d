package domain

import (
	"errors"
	"strings"
)

var (
	ErrMissingCredential    = errors.New("API Key is missing. Please open Settings and enter your Google Gemini API Key.")
	ErrInvalidCredential    = errors.New("API key is invalid or not found. Please select a valid API key and try again.")
	ErrInvalidModelResponse = errors.New("the AI model failed to produce a valid response")
	ErrNoScenesToExtend     = errors.New("cannot generate the next scene before an initial storyboard exists")
	ErrSceneNotFound        = errors.New("scene not found")
	ErrHistoryItemNotFound  = errors.New("history item not found")
	ErrGenerationCancelled  = errors.New("generation was stopped")
	ErrStoryboardChanged    = errors.New("the storyboard changed while the next scene was being generated")
	ErrVideoNoArtifact      = errors.New("video generation completed, but no download link was found")
	ErrVideoDownloadFailed  = errors.New("failed to download the generated video")
	ErrNoImageData          = errors.New("no image data returned")
)

// GenerationError is returned by every model-backed operation. Message is
// safe to show to the user as is.
type GenerationError struct {
	Op      string
	Message string
	Err     error
}

func NewGenerationError(op string, message string, err error) *GenerationError {
	return &GenerationError{Op: op, Message: message, Err: err}
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsCredentialError reports whether err should send the user back to
// credential entry. The upstream API reports bad keys only in message text.
func IsCredentialError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrMissingCredential) || errors.Is(err, ErrInvalidCredential) {
		return true
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		// the wrapper message is generic, only the cause is sniffed
		return IsCredentialError(genErr.Err)
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "api key") || strings.Contains(msg, "requested entity was not found")
}
