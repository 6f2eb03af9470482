package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"expensetracker/internal/core"
	ports "expensetracker/internal/sheets"
)

// Store is an in-process worksheet. Rows are kept as raw cells, the way the
// spreadsheet holds them, so seeded data may carry values that only the
// summary's normalization makes sense of.
type Store struct {
	mu   sync.Mutex
	rows [][]string
}

var _ ports.Worksheet = (*Store)(nil)

func New(rows ...[]string) *Store {
	s := &Store{}
	for _, r := range rows {
		s.rows = append(s.rows, align(r))
	}
	return s
}

// NewFromFile seeds the store from a CSV file whose first line is a header
// (Date,Category,Description,Amount). A missing file yields an empty store.
func NewFromFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return read(f)
}

func read(r io.Reader) (*Store, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(records) > 0 {
		records = records[1:]
	}
	return New(records...), nil
}

// Append stores the expense and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, []string{e.Date.ISO(), e.Category, e.Description, e.Amount.String()})
	// Header occupies row 1.
	return fmt.Sprintf("mem:%d", len(s.rows)+1), nil
}

// ListExpenses returns a copy of every stored row.
func (s *Store) ListExpenses(_ context.Context) (core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := core.EmptyTable()
	for _, r := range s.rows {
		t.Rows = append(t.Rows, append([]string(nil), r...))
	}
	return t, nil
}

func align(r []string) []string {
	row := make([]string, len(core.Columns))
	for i := range row {
		if i < len(r) {
			row[i] = strings.TrimSpace(r[i])
		}
	}
	return row
}
