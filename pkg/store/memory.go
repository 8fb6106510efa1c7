package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/matzehuels/agrikit/pkg/undo"
)

type entityKey struct {
	typ string
	id  int64
}

// MemoryStore keeps entities in a map guarded by a sync.RWMutex.
// Snapshots are copied on the way in and out.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[entityKey]undo.Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[entityKey]undo.Snapshot)}
}

// Get returns a copy of the entity.
func (m *MemoryStore) Get(_ context.Context, entityType string, id int64) (undo.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.data[entityKey{entityType, id}]
	if !ok {
		return nil, notFound(entityType, id)
	}
	return s.Clone(), nil
}

// Put replaces an existing entity.
func (m *MemoryStore) Put(_ context.Context, entityType string, id int64, state undo.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := entityKey{entityType, id}
	if _, ok := m.data[k]; !ok {
		return notFound(entityType, id)
	}
	m.data[k] = state.Clone()
	return nil
}

// Delete removes an entity.
func (m *MemoryStore) Delete(_ context.Context, entityType string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := entityKey{entityType, id}
	if _, ok := m.data[k]; !ok {
		return notFound(entityType, id)
	}
	delete(m.data, k)
	return nil
}

// Create inserts an entity under id.
func (m *MemoryStore) Create(_ context.Context, entityType string, id int64, state undo.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := entityKey{entityType, id}
	if _, ok := m.data[k]; ok {
		return exists(entityType, id)
	}
	if state == nil {
		state = undo.Snapshot{}
	}
	m.data[k] = state.Clone()
	return nil
}

// IDs returns the ids stored for entityType in ascending order.
func (m *MemoryStore) IDs(entityType string) []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []int64
	for k := range m.data {
		if k.typ == entityType {
			ids = append(ids, k.id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Stats returns entity counts.
func (m *MemoryStore) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st := Stats{Entities: len(m.data), ByType: make(map[string]int)}
	for k := range m.data {
		st.ByType[k.typ]++
	}
	return st
}

// dump is the JSON layout: {"user": {"12": {...}}}.
type dump map[string]map[string]undo.Snapshot

// ReadJSON loads entities from r, replacing the store's contents.
func (m *MemoryStore) ReadJSON(r io.Reader) error {
	var d dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return fmt.Errorf("decode entities: %w", err)
	}
	data := make(map[entityKey]undo.Snapshot)
	for typ, byID := range d {
		for raw, s := range byID {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("entity %s: invalid id %q", typ, raw)
			}
			data[entityKey{typ, id}] = s
		}
	}

	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

// WriteJSON writes all entities to w, types and ids sorted.
func (m *MemoryStore) WriteJSON(w io.Writer) error {
	m.mu.RLock()
	d := make(dump)
	for k, s := range m.data {
		if d[k.typ] == nil {
			d[k.typ] = make(map[string]undo.Snapshot)
		}
		d[k.typ][strconv.FormatInt(k.id, 10)] = s.Clone()
	}
	m.mu.RUnlock()

	// encoding/json sorts map keys, so output is stable.
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode entities: %w", err)
	}
	return nil
}

// Types returns the entity types present, sorted.
func (m *MemoryStore) Types() []string {
	return slices.Sorted(maps.Keys(m.Stats().ByType))
}
