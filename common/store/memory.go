package store

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and local smoke runs. It
// supports the same filter semantics the services rely on: field equality
// plus the $lt/$gt operators used by the cleanup job.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string][]Document),
	}
}

func (s *MemoryStore) Get(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Document
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			out = append(out, copyDoc(doc))
		}
	}
	return out, nil
}

func (s *MemoryStore) GetOne(ctx context.Context, collection string, filter Filter) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			return copyDoc(doc), nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, doc Document) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyDoc(doc)
	id, ok := stored["id"].(string)
	if !ok || id == "" {
		id = uuid.NewString()
		stored["id"] = id
	}
	s.collections[collection] = append(s.collections[collection], stored)
	return id, nil
}

func (s *MemoryStore) Update(ctx context.Context, collection string, filter Filter, patch Document, upsert bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			for k, v := range patch {
				doc[k] = v
			}
			return 1, nil
		}
	}

	if !upsert {
		return 0, nil
	}

	// Mongo upsert semantics: the new document is built from the filter's
	// equality fields plus the patch.
	created := Document{}
	for k, v := range filter {
		if _, isOp := v.(map[string]interface{}); !isOp {
			created[k] = v
		}
	}
	for k, v := range patch {
		created[k] = v
	}
	if _, ok := created["id"].(string); !ok {
		created["id"] = uuid.NewString()
	}
	s.collections[collection] = append(s.collections[collection], created)
	return 1, nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection string, filter Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var kept []Document
	var removed int64
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			removed++
			continue
		}
		kept = append(kept, doc)
	}
	s.collections[collection] = kept
	return removed, nil
}

// ============================================================
// Filter matching
// ============================================================

func matches(doc Document, filter Filter) bool {
	for field, cond := range filter {
		if !matchField(doc[field], cond) {
			return false
		}
	}
	return true
}

func matchField(value, cond interface{}) bool {
	if ops, ok := cond.(map[string]interface{}); ok {
		for op, operand := range ops {
			switch op {
			case "$lt":
				if !less(value, operand) {
					return false
				}
			case "$gt":
				if !less(operand, value) {
					return false
				}
			default:
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(value, cond)
}

func less(a, b interface{}) bool {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Before(bt)
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	return aok && bok && af < bf
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func copyDoc(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		switch s := v.(type) {
		case []string:
			out[k] = append([]string(nil), s...)
		case []interface{}:
			out[k] = append([]interface{}(nil), s...)
		default:
			out[k] = v
		}
	}
	return out
}
