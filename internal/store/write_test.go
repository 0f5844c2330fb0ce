package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/medstore/internal/medicine"
	"github.com/roach88/medstore/internal/testutil"
)

func TestCreate_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	m := createTestMedicine("Paracetamol", 10.99, "2026-04-03")
	require.NoError(t, s.Create(ctx, m))

	got, err := s.Get(ctx, "Paracetamol")
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestCreate_DuplicateName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	original := createTestMedicine("Aspirin", 5.49, "2026-04-03")
	require.NoError(t, s.Create(ctx, original))

	dup := createTestMedicine("Aspirin", 99.99, "2030-01-01")
	dup.Brand = "Other Brand"
	err := s.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, medicine.IsDuplicateKey(err), "got %v", err)

	var dke *medicine.DuplicateKeyError
	require.ErrorAs(t, err, &dke)
	assert.Equal(t, "Aspirin", dke.Name)

	// Store still holds exactly the original record
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.Get(ctx, "Aspirin")
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestCreate_DuplicateAfterNormalization(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, createTestMedicine("Parac\u00e9tamol", 1, "2026-04-03")))

	err := s.Create(ctx, createTestMedicine("  Parace\u0301tamol ", 2, "2026-04-03"))
	assert.True(t, medicine.IsDuplicateKey(err), "got %v", err)
}

func TestCreate_ValidationError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		edit func(*medicine.Medicine)
	}{
		{"missing name", func(m *medicine.Medicine) { m.Name = "   " }},
		{"missing brand", func(m *medicine.Medicine) { m.Brand = "" }},
		{"missing type", func(m *medicine.Medicine) { m.Type = "" }},
		{"negative price", func(m *medicine.Medicine) { m.Price = -1 }},
		{"negative quantity", func(m *medicine.Medicine) { m.Quantity = -5 }},
		{"bad best_before", func(m *medicine.Medicine) { m.BestBefore = "soon" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := createTestMedicine("Ibuprofen", 3.5, "2027-01-01")
			tt.edit(&m)

			err := s.Create(ctx, m)
			require.Error(t, err)
			assert.True(t, medicine.IsValidation(err), "got %v", err)
		})
	}

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "rejected records must not be written")
}

func TestCreate_StampsDateOfEntry(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	m := createTestMedicine("Ibuprofen", 3.5, "2027-01-01")
	m.DateOfEntry = ""
	require.NoError(t, s.Create(ctx, m))

	got, err := s.Get(ctx, "Ibuprofen")
	require.NoError(t, err)
	assert.Equal(t, "2025-04-03T09:30:00Z", got.DateOfEntry)
}

func TestCreate_NormalizesFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	m := createTestMedicine("  Ibuprofen  ", 3.5, " 2027-01-01 ")
	m.Type = " Capsule "
	require.NoError(t, s.Create(ctx, m))

	got, err := s.Get(ctx, "Ibuprofen")
	require.NoError(t, err)
	assert.Equal(t, "Ibuprofen", got.Name)
	assert.Equal(t, "2027-01-01", got.BestBefore)
	assert.Equal(t, "Capsule", got.Type)
}

func TestUpdate_ReplacesFields(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, createTestMedicine("Aspirin", 5.49, "2026-04-03")))

	updated := medicine.Medicine{
		Name:        "Aspirin",
		Brand:       "Brand B",
		DateOfEntry: "2025-04-03T08:00:00Z",
		Price:       6.25,
		BestBefore:  "2027-06-30",
		Quantity:    180,
		Type:        "Capsule",
	}
	require.NoError(t, s.Update(ctx, "Aspirin", updated))

	got, err := s.Get(ctx, "Aspirin")
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdate_Rename(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, createTestMedicine("A", 1, "2026-01-01")))

	renamed := createTestMedicine("B", 2, "2027-01-01")
	require.NoError(t, s.Update(ctx, "A", renamed))

	_, err := s.Get(ctx, "A")
	assert.True(t, medicine.IsNotFound(err), "old key should be gone, got %v", err)

	got, err := s.Get(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, renamed, got)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpdate_NotFound(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	err := s.Update(ctx, "Missing", createTestMedicine("Missing", 1, "2026-01-01"))
	require.Error(t, err)
	assert.True(t, medicine.IsNotFound(err), "got %v", err)

	var nfe *medicine.NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "Missing", nfe.Name)
}

func TestUpdate_RenameOntoExistingName(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	a := createTestMedicine("A", 1, "2026-01-01")
	b := createTestMedicine("B", 2, "2027-01-01")
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))

	err := s.Update(ctx, "A", createTestMedicine("B", 3, "2028-01-01"))
	require.Error(t, err)
	assert.True(t, medicine.IsDuplicateKey(err), "got %v", err)

	// Neither record changed
	gotA, err := s.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, a, gotA)

	gotB, err := s.Get(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, b, gotB)
}

func TestUpdate_CarriesDateOfEntryForward(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	original := createTestMedicine("Aspirin", 5.49, "2026-04-03")
	require.NoError(t, s.Create(ctx, original))

	replacement := createTestMedicine("Aspirin", 7, "2026-04-03")
	replacement.DateOfEntry = ""
	require.NoError(t, s.Update(ctx, "Aspirin", replacement))

	got, err := s.Get(ctx, "Aspirin")
	require.NoError(t, err)
	assert.Equal(t, original.DateOfEntry, got.DateOfEntry)
	assert.Equal(t, 7.0, got.Price)
}

func TestUpdate_ValidationError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	original := createTestMedicine("Aspirin", 5.49, "2026-04-03")
	require.NoError(t, s.Create(ctx, original))

	bad := original
	bad.Quantity = -1
	err := s.Update(ctx, "Aspirin", bad)
	assert.True(t, medicine.IsValidation(err), "got %v", err)

	got, err := s.Get(ctx, "Aspirin")
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestDelete_RemovesRecord(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, createTestMedicine("Aspirin", 5.49, "2026-04-03")))
	require.NoError(t, s.Delete(ctx, "Aspirin"))

	_, err := s.Get(ctx, "Aspirin")
	assert.True(t, medicine.IsNotFound(err))
}

func TestDelete_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, "missing"))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	// Deleting twice is fine too
	require.NoError(t, s.Create(ctx, createTestMedicine("Aspirin", 5.49, "2026-04-03")))
	require.NoError(t, s.Delete(ctx, "Aspirin"))
	require.NoError(t, s.Delete(ctx, "Aspirin"))
}

func TestDelete_OnlyTargetRemoved(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, createTestMedicine("A", 1, "2026-01-01")))
	require.NoError(t, s.Create(ctx, createTestMedicine("B", 2, "2026-01-01")))
	require.NoError(t, s.Delete(ctx, "A"))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "B", all[0].Name)
}

func TestWrite_ClosedStoreIsStorageError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Close())

	err := s.Create(ctx, createTestMedicine("A", 1, "2026-01-01"))
	assert.True(t, medicine.IsStorage(err), "got %v", err)

	err = s.Delete(ctx, "A")
	assert.True(t, medicine.IsStorage(err), "got %v", err)

	err = s.Update(ctx, "A", createTestMedicine("A", 1, "2026-01-01"))
	assert.True(t, medicine.IsStorage(err), "got %v", err)
}

func TestIsKeyConflict_RawInsert(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	m := createTestMedicine("A", 1, "2026-01-01")
	require.NoError(t, insertMedicine(ctx, s.db, m))

	err := insertMedicine(ctx, s.db, m)
	require.Error(t, err)
	assert.True(t, isKeyConflict(err), "got %v", err)
	assert.True(t, medicine.IsDuplicateKey(classifyWriteError("create", m.Name, err)))
}

func TestCreate_StampsFromStoreClock(t *testing.T) {
	clock := testutil.NewFakeClock(testEpoch)
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), WithClock(clock.Now))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	first := createTestMedicine("First", 1, "2026-01-01")
	first.DateOfEntry = ""
	require.NoError(t, s.Create(ctx, first))

	clock.Advance(26 * time.Hour)

	second := createTestMedicine("Second", 1, "2026-01-01")
	second.DateOfEntry = ""
	require.NoError(t, s.Create(ctx, second))

	got1, err := s.Get(ctx, "First")
	require.NoError(t, err)
	got2, err := s.Get(ctx, "Second")
	require.NoError(t, err)

	assert.Equal(t, "2025-04-03T09:30:00Z", got1.DateOfEntry)
	assert.Equal(t, "2025-04-04T11:30:00Z", got2.DateOfEntry)
}

func TestRemove_ReportsWhetherRecordExisted(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, createTestMedicine("Aspirin", 5.49, "2026-04-03")))

	removed, err := s.Remove(ctx, " Aspirin ")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Remove(ctx, "Aspirin")
	require.NoError(t, err)
	assert.False(t, removed)
}
