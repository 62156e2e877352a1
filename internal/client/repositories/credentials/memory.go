package credentials

import (
	"context"
	"sync"
)

// MemoryStore is a Store that lives only as long as the process. The *Err
// fields inject failures; they are meant for tests.
type MemoryStore struct {
	mu    sync.Mutex
	value string

	GetErr    error
	SetErr    error
	DeleteErr error

	writes int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", m.GetErr
	}
	return visible(m.value), nil
}

func (m *MemoryStore) Set(_ context.Context, credential string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.value = credential
	m.writes++
	return nil
}

func (m *MemoryStore) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.value = ""
	m.writes++
	return nil
}

// Writes counts successful Set and Delete calls.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
