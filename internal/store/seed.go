package store

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/roach88/medstore/internal/medicine"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Medicines []medicine.Medicine `yaml:"medicines"`
}

// SeedRecords returns the fixed sample records used by SeedIfEmpty.
func SeedRecords() ([]medicine.Medicine, error) {
	var f seedFile
	decoder := yaml.NewDecoder(bytes.NewReader(seedYAML))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}

	for i, m := range f.Medicines {
		if err := m.ValidateStored(); err != nil {
			return nil, fmt.Errorf("seed record %d: %w", i, err)
		}
	}
	return f.Medicines, nil
}

// SeedIfEmpty inserts the sample records when, and only when, the store
// holds no medicines. It returns how many records were inserted.
//
// The count and the inserts share one transaction, so calling it on every
// process start never duplicates data.
func (s *Store) SeedIfEmpty(ctx context.Context) (int, error) {
	records, err := SeedRecords()
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &medicine.StorageError{Op: "seed", Err: fmt.Errorf("begin tx: %w", err)}
	}
	defer tx.Rollback() // No-op if committed

	count, err := countMedicines(ctx, tx)
	if err != nil {
		return 0, &medicine.StorageError{Op: "seed", Err: err}
	}
	if count > 0 {
		return 0, nil
	}

	for _, m := range records {
		if err := insertMedicine(ctx, tx, m); err != nil {
			return 0, classifyWriteError("seed", m.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &medicine.StorageError{Op: "seed", Err: fmt.Errorf("commit: %w", err)}
	}

	slog.Info("seeded empty store", "records", len(records))
	return len(records), nil
}
