package store

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps collections in process memory. It backs STORE_BACKEND=memory
// and the package tests of every layer above the adapter.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
	now         func() time.Time
}

// NewMemoryStore returns an empty store. A nil clock defaults to time.Now.
func NewMemoryStore(clock func() time.Time) *MemoryStore {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]any),
		now:         clock,
	}
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *MemoryStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, newError("getAll", collection, "", ErrStoreUnavailable, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]Document, 0, len(m.collections[collection]))
	for id, data := range m.collections[collection] {
		docs = append(docs, Document{ID: id, Data: copyData(data)})
	}
	sortDocuments(docs)
	return docs, nil
}

func (m *MemoryStore) GetWhere(ctx context.Context, collection, field string, op Operator, value any) ([]Document, error) {
	if err := checkQuery(collection, field, op); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, newError("getWhere", collection, "", ErrStoreUnavailable, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []Document
	for id, data := range m.collections[collection] {
		current, ok := data[field]
		if !ok {
			continue
		}
		if matches(current, op, value) {
			docs = append(docs, Document{ID: id, Data: copyData(data)})
		}
	}
	sortDocuments(docs)
	return docs, nil
}

func (m *MemoryStore) GetByID(ctx context.Context, collection, id string) (Document, bool, error) {
	if err := checkID("getById", collection, id); err != nil {
		return Document{}, false, err
	}
	if err := ctx.Err(); err != nil {
		return Document{}, false, newError("getById", collection, id, ErrStoreUnavailable, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.collections[collection][id]
	if !ok {
		return Document{}, false, nil
	}
	return Document{ID: id, Data: copyData(data)}, true, nil
}

func (m *MemoryStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", newError("add", collection, "", ErrStoreUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.put(collection, id, m.stamp(data))
	return id, nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	if err := checkID("update", collection, id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return newError("update", collection, id, ErrStoreUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.collections[collection][id]
	if !ok {
		return newError("update", collection, id, ErrNotFound, nil)
	}
	for k, v := range stripAudit(partial) {
		existing[k] = v
	}
	existing[FieldUpdatedAt] = m.now()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	if err := checkID("delete", collection, id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return newError("delete", collection, id, ErrStoreUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections[collection], id)
	return nil
}

func (m *MemoryStore) SetWithID(ctx context.Context, collection, id string, data map[string]any) error {
	if err := checkID("set", collection, id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return newError("set", collection, id, ErrStoreUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.put(collection, id, m.stamp(data))
	return nil
}

func (m *MemoryStore) Create(ctx context.Context, collection, id string, data map[string]any) error {
	if err := checkID("create", collection, id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return newError("create", collection, id, ErrStoreUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[collection][id]; ok {
		return newError("create", collection, id, ErrAlreadyExists, nil)
	}
	m.put(collection, id, m.stamp(data))
	return nil
}

func (m *MemoryStore) CreateBatch(ctx context.Context, collection string, entries []Entry) ([]string, error) {
	for _, e := range entries {
		if err := checkID("createBatch", collection, e.ID); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, newError("createBatch", collection, "", ErrStoreUnavailable, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	created := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		if _, ok := m.collections[collection][e.ID]; ok {
			continue
		}
		m.put(collection, e.ID, m.stamp(e.Data))
		created = append(created, e.ID)
	}
	return created, nil
}

func (m *MemoryStore) put(collection, id string, data map[string]any) {
	docs, ok := m.collections[collection]
	if !ok {
		docs = make(map[string]map[string]any)
		m.collections[collection] = docs
	}
	docs[id] = data
}

func (m *MemoryStore) stamp(data map[string]any) map[string]any {
	out := copyData(stripAudit(data))
	now := m.now()
	out[FieldCreatedAt] = now
	out[FieldUpdatedAt] = now
	return out
}

func copyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		out[k] = v
	}
	return out
}

func sortDocuments(docs []Document) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
}

func matches(current any, op Operator, value any) bool {
	if op == OpEqual {
		return equalValues(current, value)
	}
	if op == OpNotEqual {
		return !equalValues(current, value)
	}
	cmp, ok := compareValues(current, value)
	if !ok {
		return false
	}
	switch op {
	case OpLess:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	case OpGreater:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	}
	return false
}

func equalValues(a, b any) bool {
	if cmp, ok := compareValues(a, b); ok {
		return cmp == 0
	}
	return reflect.DeepEqual(a, b)
}

func compareValues(a, b any) (int, bool) {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		}
		return 0, true
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		return av.Compare(bv), true
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return 0, false
	}
	switch {
	case af < bf:
		return -1, true
	case af > bf:
		return 1, true
	}
	return 0, true
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

var _ RecordStore = (*MemoryStore)(nil)
