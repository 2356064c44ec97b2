package session

import "sync"

type memoryKV struct {
	mu    sync.Mutex
	items map[string]string
}

// NewMemoryKV devuelve un KV en memoria; la sesion no sobrevive al proceso.
func NewMemoryKV() KV {
	return &memoryKV{items: make(map[string]string)}
}

func (m *memoryKV) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[key], nil
}

func (m *memoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *memoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
