package state

import (
	"encoding/json"
	"os"
)

// MemoryBackend keeps everything in a plain map. Tests run on it, and the
// daemon falls back to it when no data dir is configured. An optional
// snapshot file makes sequential local runs survive restarts.
type MemoryBackend struct {
	db       map[string]string
	filename string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{db: make(map[string]string)}
}

// NewMemoryBackendWithSnapshot loads the map from filename if present and
// rewrites it on every commit.
// Example payload: state.NewMemoryBackendWithSnapshot("state.json")
func NewMemoryBackendWithSnapshot(filename string) (*MemoryBackend, error) {
	m := &MemoryBackend{db: make(map[string]string), filename: filename}
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &m.db); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MemoryBackend) Begin() Txn {
	return &memoryTxn{
		base:   m,
		writes: make(map[string]*string),
	}
}

func (m *MemoryBackend) Close() error {
	return nil
}

func (m *MemoryBackend) snapshot() error {
	if m.filename == "" {
		return nil
	}
	data, err := json.MarshalIndent(m.db, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.filename, data, 0o644)
}

// memoryTxn overlays pending writes on the base map. A nil entry in writes
// is a tombstone.
type memoryTxn struct {
	base   *MemoryBackend
	writes map[string]*string
	done   bool
}

func (t *memoryTxn) Get(key string) *string {
	if pending, ok := t.writes[key]; ok {
		if pending == nil {
			return nil
		}
		v := *pending
		return &v
	}
	if v, ok := t.base.db[key]; ok {
		return &v
	}
	return nil
}

func (t *memoryTxn) Set(key, value string) {
	v := value
	t.writes[key] = &v
}

func (t *memoryTxn) Delete(key string) {
	t.writes[key] = nil
}

func (t *memoryTxn) Commit() error {
	if t.done {
		return nil
	}
	t.done = true
	for key, pending := range t.writes {
		if pending == nil {
			delete(t.base.db, key)
		} else {
			t.base.db[key] = *pending
		}
	}
	return t.base.snapshot()
}

func (t *memoryTxn) Discard() {
	if t.done {
		return
	}
	t.done = true
	t.writes = nil
}
