package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/medstore/internal/medicine"
)

const selectMedicine = `
	SELECT name, brand, date_of_entry, price, best_before, quantity, type
	FROM medicines
`

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Get retrieves a single medicine by name.
// Returns *medicine.NotFoundError if no record has that name.
func (s *Store) Get(ctx context.Context, name string) (medicine.Medicine, error) {
	return getMedicine(ctx, s.db, medicine.NormalizeName(name))
}

// List returns every medicine ordered by name.
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) List(ctx context.Context) ([]medicine.Medicine, error) {
	rows, err := s.db.QueryContext(ctx, selectMedicine+`ORDER BY name COLLATE BINARY ASC`)
	if err != nil {
		return nil, &medicine.StorageError{Op: "list", Err: err}
	}
	return collect(rows, "list")
}

// SearchByField returns every medicine whose field column equals value,
// ordered by name.
//
// The column identifier comes from the medicine.Field allow-list; value is
// always a bound parameter. A string value is converted to the column's type
// first, so "10.99" matches a price of 10.99 and names are normalized.
//
// Returns *medicine.ValidationError for an unknown field or a value that does
// not convert.
func (s *Store) SearchByField(ctx context.Context, field medicine.Field, value any) ([]medicine.Medicine, error) {
	column, ok := field.Column()
	if !ok {
		return nil, &medicine.ValidationError{Message: fmt.Sprintf("unknown search field %s", field)}
	}

	if text, isText := value.(string); isText {
		converted, err := field.ParseValue(text)
		if err != nil {
			return nil, err
		}
		value = converted
	}

	rows, err := s.db.QueryContext(ctx,
		selectMedicine+`WHERE `+column+` = ? ORDER BY name COLLATE BINARY ASC`,
		value,
	)
	if err != nil {
		return nil, &medicine.StorageError{Op: "search", Err: err}
	}
	return collect(rows, "search")
}

// Count returns the number of stored medicines.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := countMedicines(ctx, s.db)
	if err != nil {
		return 0, &medicine.StorageError{Op: "count", Err: err}
	}
	return n, nil
}

func getMedicine(ctx context.Context, q queryer, name string) (medicine.Medicine, error) {
	row := q.QueryRowContext(ctx, selectMedicine+`WHERE name = ?`, name)

	m, err := scanMedicine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return medicine.Medicine{}, &medicine.NotFoundError{Name: name}
	}
	if err != nil {
		return medicine.Medicine{}, &medicine.StorageError{Op: "get", Err: err}
	}
	return m, nil
}

func exists(ctx context.Context, q queryer, name string) (bool, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM medicines WHERE name = ?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check exists: %w", err)
	}
	return count > 0, nil
}

func countMedicines(ctx context.Context, q queryer) (int, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM medicines`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count medicines: %w", err)
	}
	return count, nil
}

// collect drains rows into a slice and closes them.
func collect(rows *sql.Rows, op string) ([]medicine.Medicine, error) {
	defer rows.Close()

	medicines := []medicine.Medicine{}
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, &medicine.StorageError{Op: op, Err: err}
		}
		medicines = append(medicines, m)
	}

	if err := rows.Err(); err != nil {
		return nil, &medicine.StorageError{Op: op, Err: fmt.Errorf("iterate medicines: %w", err)}
	}

	return medicines, nil
}

func scanMedicine(row scanner) (medicine.Medicine, error) {
	var m medicine.Medicine
	err := row.Scan(
		&m.Name, &m.Brand, &m.DateOfEntry, &m.Price,
		&m.BestBefore, &m.Quantity, &m.Type,
	)
	return m, err
}
