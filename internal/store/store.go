// Package store holds the key/value backends the task list persists into
// and the codec for the task snapshot slot.
package store

// Backend is a per-origin persistent key/value store with text values.
// A missing key is reported with ok == false, not an error.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// MemoryBackend keeps values in a map. Used by tests and dry runs.
type MemoryBackend struct {
	values map[string]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: map[string]string{}}
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(key, value string) error {
	m.values[key] = value
	return nil
}
