package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"
	"veo-prompt-director/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistory(kv *memoryKV) *historyStore {
	h := NewHistoryStore(nopLogger{}, kv, nopMetrics{}).(*historyStore)
	clock := time.UnixMilli(1_700_000_000_000)
	h.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	ids := 0
	h.newID = func() string {
		ids++
		return fmt.Sprintf("id-%d", ids)
	}
	return h
}

func inputsFor(description string) domain.FormInputs {
	return domain.FormInputs{Description: description, ControlMode: domain.DurationControlMode}
}

func TestHistoryStore_LoadEmpty(t *testing.T) {
	h := newTestHistory(newMemoryKV())
	assert.Empty(t, h.Load(context.Background()))
}

func TestHistoryStore_UpsertSameDescriptionPromotes(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(newMemoryKV())

	require.NoError(t, h.Upsert(ctx, inputsFor("story A"), testScenes(1)))
	require.NoError(t, h.Upsert(ctx, inputsFor("story B"), testScenes(2)))
	first := h.Load(ctx)[1]

	require.NoError(t, h.Upsert(ctx, inputsFor("story A"), testScenes(3)))

	items := h.Load(ctx)
	require.Len(t, items, 2)
	assert.Equal(t, "story A", items[0].Inputs.Description)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Greater(t, items[0].Timestamp, first.Timestamp)
	assert.Len(t, items[0].Scenes, 3)
	assert.Equal(t, "story B", items[1].Inputs.Description)
}

func TestHistoryStore_UpsertCapsAtTwenty(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(newMemoryKV())

	for i := 1; i <= 25; i++ {
		require.NoError(t, h.Upsert(ctx, inputsFor(fmt.Sprintf("story %d", i)), testScenes(1)))
	}

	items := h.Load(ctx)
	require.Len(t, items, MaxHistoryItems)
	assert.Equal(t, "story 25", items[0].Inputs.Description)
	assert.Equal(t, "story 6", items[19].Inputs.Description)
}

func TestHistoryStore_UpsertSkipsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	h := newTestHistory(kv)

	require.NoError(t, h.Upsert(ctx, inputsFor("   "), testScenes(2)))
	require.NoError(t, h.Upsert(ctx, inputsFor("story"), nil))

	_, ok := kv.raw(HistorySlot)
	assert.False(t, ok)
}

func TestHistoryStore_UpsertCopiesScenes(t *testing.T) {
	ctx := context.Background()
	h := newTestHistory(newMemoryKV())
	scenes := testScenes(2)

	require.NoError(t, h.Upsert(ctx, inputsFor("story"), scenes))
	scenes[0].Visuals = "changed"

	assert.Equal(t, "Visuals of scene 1.", h.Load(ctx)[0].Scenes[0].Visuals)
}

func TestHistoryStore_LoadNotAnArrayResets(t *testing.T) {
	for _, payload := range []string{`{"id":"x"}`, `not json`, `null`, `"text"`} {
		t.Run(payload, func(t *testing.T) {
			kv := newMemoryKV()
			kv.values[HistorySlot] = payload
			h := newTestHistory(kv)

			assert.Empty(t, h.Load(context.Background()))
			_, ok := kv.raw(HistorySlot)
			assert.False(t, ok)
		})
	}
}

func TestHistoryStore_LoadFiltersBrokenEntries(t *testing.T) {
	good := domain.HistoryItem{ID: "ok", Timestamp: 1, Inputs: inputsFor("kept"), Scenes: testScenes(1)}
	goodJSON, err := json.Marshal(good)
	require.NoError(t, err)

	kv := newMemoryKV()
	kv.values[HistorySlot] = `[` + string(goodJSON) + `,{"id":"no-inputs","scenes":[]},{"inputs":{}},{"id":"bad","inputs":"text"},42,null]`
	h := newTestHistory(kv)

	items := h.Load(context.Background())

	require.Len(t, items, 1)
	assert.Equal(t, "ok", items[0].ID)

	stored, _ := kv.raw(HistorySlot)
	var persisted []domain.HistoryItem
	require.NoError(t, json.Unmarshal([]byte(stored), &persisted))
	assert.Len(t, persisted, 1)
}

func TestHistoryStore_LoadStoreError(t *testing.T) {
	kv := newMemoryKV()
	kv.getErr = errUpstream
	assert.Empty(t, newTestHistory(kv).Load(context.Background()))
}

func TestHistoryStore_GetDeleteClear(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV()
	h := newTestHistory(kv)
	require.NoError(t, h.Upsert(ctx, inputsFor("a"), testScenes(1)))
	require.NoError(t, h.Upsert(ctx, inputsFor("b"), testScenes(1)))

	item, err := h.Get(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "a", item.Inputs.Description)

	_, err = h.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrHistoryItemNotFound)

	require.NoError(t, h.Delete(ctx, "id-1"))
	assert.ErrorIs(t, h.Delete(ctx, "id-1"), domain.ErrHistoryItemNotFound)
	assert.Len(t, h.Load(ctx), 1)

	require.NoError(t, h.Clear(ctx))
	_, ok := kv.raw(HistorySlot)
	assert.False(t, ok)
	assert.Empty(t, h.Load(ctx))
}
