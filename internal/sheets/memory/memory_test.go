package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

func TestMemoryStoreAppendAndList(t *testing.T) {
	s := New()
	tbl, err := s.ListExpenses(context.Background())
	if err != nil || !tbl.Empty() || len(tbl.Columns) != 4 {
		t.Fatalf("unexpected empty list: %+v err=%v", tbl, err)
	}

	ref, err := s.Append(context.Background(), core.Expense{
		Date:        core.NewDate(2024, 1, 1),
		Description: "t",
		Amount:      decimal.RequireFromString("1.23"),
		Category:    "Food",
	})
	if err != nil || ref != "mem:2" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}

	tbl, _ = s.ListExpenses(context.Background())
	if len(tbl.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(tbl.Rows))
	}
	want := []string{"2024-01-01", "Food", "t", "1.23"}
	for i, v := range want {
		if tbl.Rows[0][i] != v {
			t.Errorf("cell %d: got %q want %q", i, tbl.Rows[0][i], v)
		}
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.Append(context.Background(), core.Expense{
		Date:     core.NewDate(2024, 1, 1),
		Category: "Unknown",
		Amount:   decimal.NewFromInt(1),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	tbl, _ := s.ListExpenses(context.Background())
	if !tbl.Empty() {
		t.Fatalf("invalid expense must not be stored")
	}
}

func TestListReturnsCopy(t *testing.T) {
	s := New([]string{"2024-01-01", "Rent", "", "5000"})
	tbl, _ := s.ListExpenses(context.Background())
	tbl.Rows[0][3] = "0"

	again, _ := s.ListExpenses(context.Background())
	if again.Rows[0][3] != "5000" {
		t.Fatalf("store mutated through returned table: %v", again.Rows[0])
	}
}

func TestNewFromFileSeeds(t *testing.T) {
	dir := t.TempDir()

	s, err := NewFromFile(filepath.Join(dir, "missing.csv"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if tbl, _ := s.ListExpenses(context.Background()); !tbl.Empty() {
		t.Fatalf("expected empty store when file missing")
	}

	path := filepath.Join(dir, "seed.csv")
	content := strings.Join([]string{
		"Date,Category,Description,Amount",
		"# comment",
		"2024-01-01,Rent,,5000",
		"2024-01-02,Food,lunch,abc",
		"2024-01-03,Other",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s, err = NewFromFile(path)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	tbl, _ := s.ListExpenses(context.Background())
	if len(tbl.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(tbl.Rows))
	}
	if got := tbl.Value(1, core.ColumnAmount); got != "abc" {
		t.Errorf("raw cell not kept: %q", got)
	}
	if got := tbl.Value(2, core.ColumnAmount); got != "" {
		t.Errorf("short row not padded: %q", got)
	}
}

func TestConcurrentAppends(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Append(context.Background(), core.Expense{
				Date:     core.NewDate(2024, 1, 1),
				Category: "Other",
				Amount:   decimal.NewFromInt(1),
			})
		}()
	}
	wg.Wait()
	tbl, _ := s.ListExpenses(context.Background())
	if len(tbl.Rows) != 20 {
		t.Fatalf("expected 20 rows, got %d", len(tbl.Rows))
	}
}
