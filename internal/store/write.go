package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mattn/go-sqlite3"

	"github.com/roach88/medstore/internal/medicine"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Create inserts a new medicine.
//
// The record is normalized (see medicine.Medicine.Normalized) and validated
// before it is written. An empty DateOfEntry is stamped with the store clock.
//
// Returns *medicine.ValidationError for a malformed record and
// *medicine.DuplicateKeyError when the name is already taken.
func (s *Store) Create(ctx context.Context, m medicine.Medicine) error {
	m = m.Normalized()
	if m.DateOfEntry == "" {
		m.DateOfEntry = medicine.FormatEntryDate(s.now())
	}
	if err := m.ValidateStored(); err != nil {
		return err
	}

	if err := insertMedicine(ctx, s.db, m); err != nil {
		return classifyWriteError("create", m.Name, err)
	}

	slog.Debug("medicine created", "name", m.Name)
	return nil
}

// Update replaces every field of the record keyed by originalKey with m,
// including the key itself when m.Name differs from originalKey.
//
// The existence check, the rename collision check and the UPDATE run in one
// transaction. An empty DateOfEntry in m keeps the stored value.
//
// Returns *medicine.NotFoundError when originalKey does not exist and
// *medicine.DuplicateKeyError when m.Name belongs to a different record.
func (s *Store) Update(ctx context.Context, originalKey string, m medicine.Medicine) error {
	originalKey = medicine.NormalizeName(originalKey)
	m = m.Normalized()
	if err := m.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &medicine.StorageError{Op: "update", Err: fmt.Errorf("begin tx: %w", err)}
	}
	defer tx.Rollback() // No-op if committed

	current, err := getMedicine(ctx, tx, originalKey)
	if err != nil {
		return err
	}

	if m.DateOfEntry == "" {
		m.DateOfEntry = current.DateOfEntry
	}

	if m.Name != originalKey {
		taken, err := exists(ctx, tx, m.Name)
		if err != nil {
			return &medicine.StorageError{Op: "update", Err: err}
		}
		if taken {
			return &medicine.DuplicateKeyError{Name: m.Name}
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE medicines
		SET name = ?, brand = ?, date_of_entry = ?, price = ?, best_before = ?, quantity = ?, type = ?
		WHERE name = ?
	`,
		m.Name,
		m.Brand,
		m.DateOfEntry,
		m.Price,
		m.BestBefore,
		m.Quantity,
		m.Type,
		originalKey,
	)
	if err != nil {
		return classifyWriteError("update", m.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return &medicine.StorageError{Op: "update", Err: fmt.Errorf("commit: %w", err)}
	}

	slog.Debug("medicine updated", "original", originalKey, "name", m.Name)
	return nil
}

// Delete removes the record keyed by name.
// Deleting a name that does not exist is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.Remove(ctx, name)
	return err
}

// Remove is Delete that also reports whether a record was removed.
func (s *Store) Remove(ctx context.Context, name string) (bool, error) {
	name = medicine.NormalizeName(name)

	removed, err := deleteMedicine(ctx, s.db, name)
	if err != nil {
		return false, &medicine.StorageError{Op: "delete", Err: err}
	}

	slog.Debug("medicine deleted", "name", name, "removed", removed)
	return removed, nil
}

// deleteMedicine deletes the row keyed by name and reports whether one existed.
func deleteMedicine(ctx context.Context, ex execer, name string) (bool, error) {
	result, err := ex.ExecContext(ctx, `DELETE FROM medicines WHERE name = ?`, name)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// insertMedicine writes m without validation. Callers validate first.
func insertMedicine(ctx context.Context, ex execer, m medicine.Medicine) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO medicines
		(name, brand, date_of_entry, price, best_before, quantity, type)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		m.Name,
		m.Brand,
		m.DateOfEntry,
		m.Price,
		m.BestBefore,
		m.Quantity,
		m.Type,
	)
	return err
}

// classifyWriteError maps a key constraint violation to DuplicateKeyError and
// anything else to StorageError.
func classifyWriteError(op, name string, err error) error {
	if isKeyConflict(err) {
		return &medicine.DuplicateKeyError{Name: name}
	}
	return &medicine.StorageError{Op: op, Err: err}
}

// isKeyConflict reports whether err is a PRIMARY KEY or UNIQUE violation.
func isKeyConflict(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
