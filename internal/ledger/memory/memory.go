package memory

import (
	"context"
	"fmt"
	"sync"

	"chitieu/internal/core"
)

// Store is an in-memory RowStore. It backs the default data backend and the
// test fakes; rows live only for the process lifetime.
type Store struct {
	mu   sync.Mutex
	rows [][]any
}

func New() *Store {
	return &Store{}
}

// AppendRow stores the row and returns a synthetic row reference.
func (s *Store) AppendRow(_ context.Context, r core.Row) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, r.Cells())
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// ReadRows returns the raw row tuples in insertion order.
func (s *Store) ReadRows(context.Context) ([][]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]any, len(s.rows))
	for i, row := range s.rows {
		out[i] = append([]any(nil), row...)
	}
	return out, nil
}

// Seed appends a raw row tuple as-is, bypassing Row validation. Tests use it
// to plant heterogeneous or malformed cells the way a hand-edited spreadsheet
// would contain them.
func (s *Store) Seed(cells ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, cells)
}

// Len reports the number of stored rows.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
