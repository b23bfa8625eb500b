package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Subas2/SIANG-TAMBOLA/internal/errs"
)

// Memory is an in-process Store used by tests and standalone single-node
// deployments. Versioned entries give Update real compare-and-swap
// semantics: fn runs outside the lock, so concurrent writers genuinely
// conflict and retry.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

type memEntry struct {
	value   []byte
	version uint64
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memEntry)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, key)
	}
	return append([]byte(nil), e.value...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := m.entries[key]
	m.entries[key] = memEntry{value: append([]byte(nil), value...), version: e.version + 1}
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *Memory) List(_ context.Context, prefix string) (map[string][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte)
	for k, e := range m.entries {
		if strings.HasPrefix(k, prefix) {
			out[k] = append([]byte(nil), e.value...)
		}
	}
	return out, nil
}

func (m *Memory) Update(ctx context.Context, key string, fn UpdateFunc) ([]byte, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m.mu.Lock()
		e, exists := m.entries[key]
		var snapshot []byte
		if exists {
			snapshot = append([]byte(nil), e.value...)
		}
		readVersion := e.version
		m.mu.Unlock()

		next, err := fn(snapshot)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		cur := m.entries[key]
		if cur.version != readVersion {
			m.mu.Unlock()
			continue // lost the race, retry against the new value
		}
		stored := append([]byte(nil), next...)
		m.entries[key] = memEntry{value: stored, version: cur.version + 1}
		m.mu.Unlock()
		return next, nil
	}
	return nil, fmt.Errorf("%w: key %s after %d attempts", errs.ErrConflict, key, maxUpdateAttempts)
}
