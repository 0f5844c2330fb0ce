package medicine

import (
	"fmt"
	"strconv"
	"strings"
)

// Field identifies a searchable column.
// Column text used in queries comes only from this enum, never from callers.
type Field int

const (
	FieldName Field = iota + 1
	FieldBrand
	FieldDateOfEntry
	FieldPrice
	FieldBestBefore
	FieldQuantity
	FieldType
)

// columns is the allow-list of column identifiers, indexed by Field.
var columns = map[Field]string{
	FieldName:        "name",
	FieldBrand:       "brand",
	FieldDateOfEntry: "date_of_entry",
	FieldPrice:       "price",
	FieldBestBefore:  "best_before",
	FieldQuantity:    "quantity",
	FieldType:        "type",
}

// Fields lists every searchable field in column order.
var Fields = []Field{
	FieldName,
	FieldBrand,
	FieldDateOfEntry,
	FieldPrice,
	FieldBestBefore,
	FieldQuantity,
	FieldType,
}

// Column returns the column identifier and whether f is a known field.
func (f Field) Column() (string, bool) {
	col, ok := columns[f]
	return col, ok
}

// String returns the column name, or "Field(n)" for unknown values.
func (f Field) String() string {
	if col, ok := columns[f]; ok {
		return col
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// ParseField maps a column name to its Field. Matching is case-insensitive.
func ParseField(s string) (Field, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, f := range Fields {
		if columns[f] == want {
			return f, nil
		}
	}
	return 0, invalid("", "unknown field %q", s)
}

// ParseValue converts text into the value type stored in f's column.
// Name values are normalized the same way keys are.
func (f Field) ParseValue(s string) (any, error) {
	switch f {
	case FieldPrice:
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, invalid(columns[f], "not a number: %q", s)
		}
		return v, nil
	case FieldQuantity:
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, invalid(columns[f], "not an integer: %q", s)
		}
		return v, nil
	case FieldName:
		return NormalizeName(s), nil
	case FieldBrand, FieldDateOfEntry, FieldBestBefore, FieldType:
		return trim(s), nil
	default:
		return nil, invalid("", "unknown field %s", f)
	}
}
