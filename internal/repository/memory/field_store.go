package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"fieldbooking/internal/domain"
)

// FieldStore holds field metadata in process.
type FieldStore struct {
	mu     sync.RWMutex
	fields map[string]domain.Field
}

func NewFieldStore(fields ...domain.Field) *FieldStore {
	s := &FieldStore{fields: make(map[string]domain.Field, len(fields))}
	for _, f := range fields {
		s.fields[f.ID] = f
	}
	return s
}

var _ domain.FieldRepository = (*FieldStore)(nil)

// Put inserts or replaces a field.
func (s *FieldStore) Put(f domain.Field) {
	s.mu.Lock()
	s.fields[f.ID] = f
	s.mu.Unlock()
}

func (s *FieldStore) GetByID(ctx context.Context, id string) (*domain.Field, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapTransient("field store unavailable", err)
	}
	s.mu.RLock()
	f, ok := s.fields[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.NewNotFoundError("field %s not found", id)
	}
	return &f, nil
}

// LoadJSON adds the fields of a JSON array read from r.
func (s *FieldStore) LoadJSON(r io.Reader) (int, error) {
	var fields []domain.Field
	if err := json.NewDecoder(r).Decode(&fields); err != nil {
		return 0, fmt.Errorf("decode fields: %w", err)
	}
	for _, f := range fields {
		if f.ID == "" {
			return 0, domain.NewValidationError("field without id")
		}
	}
	for _, f := range fields {
		s.Put(f)
	}
	return len(fields), nil
}
