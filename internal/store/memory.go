package store

import (
	"sort"
	"sync"

	"earnings-insight/internal/types"
)

// Memory is a volatile in-memory store keyed by ID. Writes are
// last-write-wins; reads return copies so callers cannot mutate shared state.
type Memory struct {
	mu        sync.RWMutex
	documents map[string]types.Document
	records   map[string]types.QuarterRecord
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		documents: make(map[string]types.Document),
		records:   make(map[string]types.QuarterRecord),
	}
}

func (m *Memory) PutDocument(doc types.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = doc
	return nil
}

func (m *Memory) PutRecord(rec types.QuarterRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.DocumentID] = rec
	return nil
}

// Documents returns all stored documents ordered by ID for stable output.
func (m *Memory) Documents() ([]types.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]types.Document, 0, len(m.documents))
	for _, d := range m.documents {
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// Records returns all stored quarter records ordered by document ID.
func (m *Memory) Records() ([]types.QuarterRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := make([]types.QuarterRecord, 0, len(m.records))
	for _, r := range m.records {
		recs = append(recs, r)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].DocumentID < recs[j].DocumentID })
	return recs, nil
}

func (m *Memory) Stats() (types.StoreStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return types.StoreStats{
		DocumentCount: len(m.documents),
		RecordCount:   len(m.records),
	}, nil
}
