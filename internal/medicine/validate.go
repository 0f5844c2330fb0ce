package medicine

import (
	"math"
	"time"
)

// DateLayout is the layout of best_before and of date-only entry dates.
const DateLayout = "2006-01-02"

// Validate checks that every field is present and well formed.
// It does not normalize; call Normalized first when the input is user text.
//
// date_of_entry is checked only when set, because the store stamps it on
// create and carries it forward on update. Use ValidateStored for a record
// that is about to be written as-is.
func (m Medicine) Validate() error {
	if m.Name == "" {
		return invalid("name", "is required")
	}
	if m.Brand == "" {
		return invalid("brand", "is required")
	}
	if m.Type == "" {
		return invalid("type", "is required")
	}

	if math.IsNaN(m.Price) || math.IsInf(m.Price, 0) {
		return invalid("price", "must be a finite number")
	}
	if m.Price < 0 {
		return invalid("price", "must not be negative, got %v", m.Price)
	}
	if m.Quantity < 0 {
		return invalid("quantity", "must not be negative, got %d", m.Quantity)
	}

	if m.BestBefore == "" {
		return invalid("best_before", "is required")
	}
	if _, err := time.Parse(DateLayout, m.BestBefore); err != nil {
		return invalid("best_before", "must be a YYYY-MM-DD date, got %q", m.BestBefore)
	}

	if m.DateOfEntry != "" {
		if _, err := ParseEntryDate(m.DateOfEntry); err != nil {
			return invalid("date_of_entry", "must be an ISO 8601 date or date-time, got %q", m.DateOfEntry)
		}
	}

	return nil
}

// ValidateStored is Validate plus the requirement that date_of_entry is set.
func (m Medicine) ValidateStored() error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.DateOfEntry == "" {
		return invalid("date_of_entry", "is required")
	}
	return nil
}

// ParseEntryDate parses an entry date in RFC 3339 (fractional seconds allowed)
// or date-only form.
func ParseEntryDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(DateLayout, s)
}

// FormatEntryDate renders t the way the store stamps new records.
func FormatEntryDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
