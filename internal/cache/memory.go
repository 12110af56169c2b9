package cache

import (
	"context"
	"sync"
	"time"

	"github.com/vladimiradmaev/diatrack/internal/domain"
)

type memoryEntry struct {
	prediction domain.CachedPrediction
	expires    time.Time
}

// MemoryCache is the in-process fallback used when Redis is not
// configured. Entries expire after ttl like their Redis counterparts.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[uint]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[uint]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryCache) StoreLast(ctx context.Context, userID uint, prediction domain.CachedPrediction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[userID] = memoryEntry{prediction: prediction, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryCache) Last(ctx context.Context, userID uint) (*domain.CachedPrediction, error) {
	m.mu.RLock()
	entry, ok := m.entries[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if !m.now().Before(entry.expires) {
		m.mu.Lock()
		delete(m.entries, userID)
		m.mu.Unlock()
		return nil, nil
	}

	p := entry.prediction
	return &p, nil
}

func (m *MemoryCache) Close() error {
	return nil
}
