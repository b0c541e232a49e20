// Package cache holds the homepage block list between admin edits.
// The durable store stays the system of record; a miss always falls back
// to it.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/vape-shop-api/internal/domain"
)

// Memory is a process-local cache used when no Redis is configured.
type Memory struct {
	mu      sync.RWMutex
	blocks  []domain.HomeBlock
	expires time.Time
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) GetBlocks(_ context.Context) ([]domain.HomeBlock, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.blocks == nil || !m.now().Before(m.expires) {
		return nil, false, nil
	}
	out := make([]domain.HomeBlock, len(m.blocks))
	copy(out, m.blocks)
	return out, true, nil
}

func (m *Memory) SetBlocks(_ context.Context, blocks []domain.HomeBlock, ttl time.Duration) error {
	cp := make([]domain.HomeBlock, len(blocks))
	copy(cp, blocks)
	m.mu.Lock()
	m.blocks = cp
	m.expires = m.now().Add(ttl)
	m.mu.Unlock()
	return nil
}

func (m *Memory) InvalidateBlocks(_ context.Context) error {
	m.mu.Lock()
	m.blocks = nil
	m.mu.Unlock()
	return nil
}
