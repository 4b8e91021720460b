// Package store provides DocumentStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/xbrl-engine/xbrl"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	documents map[string]xbrl.DocumentRecord
}

func NewMemory() *Memory {
	return &Memory{
		documents: make(map[string]xbrl.DocumentRecord),
	}
}

// Save stores a copy of the record.
func (m *Memory) Save(_ context.Context, rec xbrl.DocumentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec.XML = append([]byte(nil), rec.XML...)
	rec.JSON = append([]byte(nil), rec.JSON...)
	m.documents[rec.ID] = rec
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (*xbrl.DocumentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.documents[id]
	if !ok {
		return nil, xbrl.ErrDocumentNotFound
	}
	rec.XML = append([]byte(nil), rec.XML...)
	rec.JSON = append([]byte(nil), rec.JSON...)
	return &rec, nil
}

func (m *Memory) List(_ context.Context) ([]xbrl.DocumentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]xbrl.DocumentRecord, 0, len(m.documents))
	for _, rec := range m.documents {
		rec.XML, rec.JSON = nil, nil
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.documents[id]; !ok {
		return xbrl.ErrDocumentNotFound
	}
	delete(m.documents, id)
	return nil
}

// Reset drops every record.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = make(map[string]xbrl.DocumentRecord)
	return nil
}

var _ xbrl.DocumentStore = (*Memory)(nil)
