package services

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"
	"veo-prompt-director/application/ports/inbound"
	"veo-prompt-director/application/ports/outbound"
	"veo-prompt-director/domain"

	"github.com/google/uuid"
)

const (
	HistorySlot     = "veo-prompt-director-history"
	MaxHistoryItems = 20
)

type historyStore struct {
	mu      sync.Mutex
	logger  outbound.LoggerPort
	store   outbound.KeyValueStorePort
	metrics outbound.MetricsPort
	now     func() time.Time
	newID   func() string
}

func NewHistoryStore(logger outbound.LoggerPort, store outbound.KeyValueStorePort, metrics outbound.MetricsPort) inbound.HistoryPort {
	return &historyStore{
		logger:  logger,
		store:   store,
		metrics: metrics,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Load never fails. Unreadable history is reset and broken entries are dropped.
func (h *historyStore) Load(ctx context.Context) []domain.HistoryItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(ctx)
}

func (h *historyStore) Get(ctx context.Context, id string) (domain.HistoryItem, error) {
	for _, item := range h.Load(ctx) {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.HistoryItem{}, domain.ErrHistoryItemNotFound
}

// Upsert keys entries by description. A known description is refreshed and
// promoted, otherwise a new entry is inserted and the list is capped.
func (h *historyStore) Upsert(ctx context.Context, inputs domain.FormInputs, scenes []domain.Scene) error {
	if strings.TrimSpace(inputs.Description) == "" || len(scenes) == 0 {
		return nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	items := h.load(ctx)
	snapshot := make([]domain.Scene, len(scenes))
	copy(snapshot, scenes)
	timestamp := h.now().UnixMilli()

	updated := make([]domain.HistoryItem, 0, len(items)+1)
	var entry *domain.HistoryItem
	for i := range items {
		if entry == nil && items[i].Inputs.Description == inputs.Description {
			e := items[i]
			entry = &e
			continue
		}
		updated = append(updated, items[i])
	}

	if entry != nil {
		entry.Inputs = inputs
		entry.Scenes = snapshot
		entry.Timestamp = timestamp
		updated = append([]domain.HistoryItem{*entry}, updated...)
	} else {
		updated = append([]domain.HistoryItem{{
			ID:        h.newID(),
			Timestamp: timestamp,
			Inputs:    inputs,
			Scenes:    snapshot,
		}}, updated...)
		if len(updated) > MaxHistoryItems {
			updated = updated[:MaxHistoryItems]
		}
	}

	if err := h.save(ctx, updated); err != nil {
		return err
	}
	h.metrics.IncHistoryWrite("upsert")
	return nil
}

func (h *historyStore) Delete(ctx context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	items := h.load(ctx)
	kept := make([]domain.HistoryItem, 0, len(items))
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return domain.ErrHistoryItemNotFound
	}

	if err := h.save(ctx, kept); err != nil {
		return err
	}
	h.metrics.IncHistoryWrite("delete")
	return nil
}

func (h *historyStore) Clear(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.store.Remove(ctx, HistorySlot); err != nil {
		h.logger.Error(err, "Failed to clear history")
		return err
	}
	h.metrics.IncHistoryWrite("clear")
	return nil
}

func (h *historyStore) load(ctx context.Context) []domain.HistoryItem {
	data, ok, err := h.store.Get(ctx, HistorySlot)
	if err != nil {
		h.logger.Error(err, "Failed to read history")
		return []domain.HistoryItem{}
	}
	if !ok {
		return []domain.HistoryItem{}
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal([]byte(data), &rawItems); err != nil || rawItems == nil {
		h.logger.Warn("History data was corrupted (not an array), resetting")
		h.reset(ctx)
		return []domain.HistoryItem{}
	}

	items := make([]domain.HistoryItem, 0, len(rawItems))
	for _, raw := range rawItems {
		if item, valid := decodeHistoryItem(raw); valid {
			items = append(items, item)
		}
	}

	if len(items) != len(rawItems) {
		h.logger.WarnWithFields("Found and removed corrupted history items", map[string]interface{}{
			"removed": len(rawItems) - len(items),
		})
		if err := h.save(ctx, items); err != nil {
			h.logger.Error(err, "Failed to persist cleaned history")
		}
	}
	return items
}

func decodeHistoryItem(raw json.RawMessage) (domain.HistoryItem, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return domain.HistoryItem{}, false
	}
	inputs, ok := fields["inputs"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(inputs), []byte("{")) {
		return domain.HistoryItem{}, false
	}

	var item domain.HistoryItem
	if err := json.Unmarshal(raw, &item); err != nil || item.ID == "" {
		return domain.HistoryItem{}, false
	}
	if item.Scenes == nil {
		item.Scenes = []domain.Scene{}
	}
	if item.Inputs.CharacterProfiles == nil {
		item.Inputs.CharacterProfiles = []domain.CharacterProfile{}
	}
	return item, true
}

func (h *historyStore) reset(ctx context.Context) {
	if err := h.store.Remove(ctx, HistorySlot); err != nil {
		h.logger.Error(err, "Failed to reset history")
	}
}

func (h *historyStore) save(ctx context.Context, items []domain.HistoryItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		h.logger.Error(err, "Failed to marshal history")
		return err
	}
	if err := h.store.Set(ctx, HistorySlot, string(data)); err != nil {
		h.logger.Error(err, "Failed to save history")
		return err
	}
	return nil
}
