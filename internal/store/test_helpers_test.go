package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/medstore/internal/medicine"
	"github.com/roach88/medstore/internal/testutil"
)

// testEpoch is the time reported by the clock of every test store.
var testEpoch = time.Date(2025, 4, 3, 9, 30, 0, 0, time.UTC)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(testutil.NewFakeClock(testEpoch).Now))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestMedicine creates a fully populated medicine.
func createTestMedicine(name string, price float64, bestBefore string) medicine.Medicine {
	return medicine.Medicine{
		Name:        name,
		Brand:       "Test Brand",
		DateOfEntry: "2025-04-03T08:00:00Z",
		Price:       price,
		BestBefore:  bestBefore,
		Quantity:    10,
		Type:        "Tablet",
	}
}
