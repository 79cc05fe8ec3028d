package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"veo-prompt-director/application/ports/outbound"
)

// fileKeyValueStore keeps every slot in one JSON object on disk. Writes go
// through a temp file and a rename.
type fileKeyValueStore struct {
	mu     sync.Mutex
	logger outbound.LoggerPort
	path   string
}

func NewFileKeyValueStore(logger outbound.LoggerPort, path string) (outbound.KeyValueStorePort, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &fileKeyValueStore{logger: logger, path: path}, nil
}

func (f *fileKeyValueStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

func (f *fileKeyValueStore) Set(_ context.Context, key string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value
	return f.write(values)
}

func (f *fileKeyValueStore) Remove(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.write(values)
}

func (f *fileKeyValueStore) read() (map[string]string, error) {
	values := map[string]string{}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		f.logger.ErrorWithFields(err, "Failed to read store file", map[string]interface{}{"path": f.path})
		return nil, err
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		f.logger.ErrorWithFields(err, "Store file is corrupted", map[string]interface{}{"path": f.path})
		return nil, fmt.Errorf("corrupted store file %s: %w", f.path, err)
	}
	return values, nil
}

func (f *fileKeyValueStore) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".store-*")
	if err != nil {
		f.logger.Error(err, "Failed to create temp store file")
		return err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		f.logger.Error(err, "Failed to write temp store file")
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		f.logger.ErrorWithFields(err, "Failed to replace store file", map[string]interface{}{"path": f.path})
		return err
	}
	return nil
}
