package outbound

import "context"

// VideoOperation is the remote handle of a long running video render.
type VideoOperation struct {
	Name         string
	Done         bool
	VideoURI     string
	ErrorMessage string
}

type VideoJobPort interface {
	Submit(ctx context.Context, apiKey string, prompt string) (*VideoOperation, error)
	Poll(ctx context.Context, apiKey string, op *VideoOperation) (*VideoOperation, error)
	Download(ctx context.Context, apiKey string, uri string) ([]byte, error)
}
