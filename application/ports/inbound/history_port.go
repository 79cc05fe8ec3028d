package inbound

import (
	"context"
	"veo-prompt-director/domain"
)

type HistoryPort interface {
	Load(ctx context.Context) []domain.HistoryItem
	Get(ctx context.Context, id string) (domain.HistoryItem, error)
	Upsert(ctx context.Context, inputs domain.FormInputs, scenes []domain.Scene) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
