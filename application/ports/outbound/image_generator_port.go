package outbound

import "context"

type GeneratedImage struct {
	MimeType string
	Content  []byte
}

type ImageGeneratorPort interface {
	Generate(ctx context.Context, apiKey string, prompt string) (*GeneratedImage, error)
}
