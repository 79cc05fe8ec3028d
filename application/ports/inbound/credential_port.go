package inbound

import "context"

type CredentialStatus struct {
	HasOverride bool `json:"hasOverride"`
	HasDefault  bool `json:"hasDefault"`
}

type CredentialPort interface {
	Resolve(ctx context.Context) (string, error)
	Save(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Status(ctx context.Context) (CredentialStatus, error)
}
