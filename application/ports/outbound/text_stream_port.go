package outbound

import "context"

type TextStreamPort interface {
	Stream(ctx context.Context, req ModelRequest) (<-chan string, <-chan error)
}
