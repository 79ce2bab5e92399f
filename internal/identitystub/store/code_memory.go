package store

import (
	"context"
	"sync"
	"time"

	"github.com/harvestlink/farmgate/internal/pkg/clock"
	"github.com/harvestlink/farmgate/internal/pkg/goerror"
	"github.com/harvestlink/farmgate/internal/pkg/goroutine"
)

type memoryCode struct {
	digest    string
	expiresAt time.Time
}

// MemoryCodes keeps code digests in process memory. Expiry is checked on
// read and a background sweep drops stale entries so an idle stub does not
// accumulate them.
type MemoryCodes struct {
	mu    sync.Mutex
	codes map[string]memoryCode
	clock clock.Clocker
}

// NewMemoryCodes creates an empty store.
func NewMemoryCodes(clk clock.Clocker) *MemoryCodes {
	return &MemoryCodes{
		codes: make(map[string]memoryCode),
		clock: clk,
	}
}

func (m *MemoryCodes) Put(_ context.Context, email, digest string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.codes[email] = memoryCode{
		digest:    digest,
		expiresAt: m.clock.Now().Add(ttl),
	}
	return nil
}

func (m *MemoryCodes) Get(_ context.Context, email string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.codes[email]
	if !ok {
		return "", goerror.ErrNotFound
	}
	if m.clock.Now().After(c.expiresAt) {
		delete(m.codes, email)
		return "", goerror.ErrNotFound
	}
	return c.digest, nil
}

func (m *MemoryCodes) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.codes, email)
	return nil
}

// StartSweeper drops expired entries every interval until ctx is done.
func (m *MemoryCodes) StartSweeper(ctx context.Context, gm *goroutine.Manager, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	gm.Go(ctx, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				m.sweep()
			}
		}
	})
}

func (m *MemoryCodes) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	for email, c := range m.codes {
		if now.After(c.expiresAt) {
			delete(m.codes, email)
		}
	}
}
