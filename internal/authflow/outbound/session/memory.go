package session

import (
	"context"
	"sync"

	"github.com/harvestlink/farmgate/internal/authflow/entity"
)

// Memory is an in-process store used by tests and short-lived tooling.
type Memory struct {
	mu  sync.Mutex
	rec entity.Session
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Commit(_ context.Context, rec entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rec = rec
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.rec = entity.Session{}
	return nil
}

func (m *Memory) Current(context.Context) (entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.rec, nil
}
