package storage

import (
	"sort"
	"sync"
)

// Memory is an in-process shared-object store. It backs frontends that
// provide no save directory and is the default for tests.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string][]byte)}
}

func (m *Memory) Get(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.objects[name]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

func (m *Memory) Put(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.objects[name] = stored
	return nil
}

func (m *Memory) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, name)
	return nil
}

func (m *Memory) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.objects))
	for name := range m.objects {
		keys = append(keys, name)
	}
	sort.Strings(keys)
	return keys, nil
}
