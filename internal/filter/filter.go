package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/medstore/internal/medicine"
)

// Predicate reports whether a medicine is retained.
type Predicate func(medicine.Medicine) bool

// Direction selects which side of a price threshold is retained.
type Direction int

const (
	Above Direction = iota
	Below
)

// String returns "above" or "below".
func (d Direction) String() string {
	switch d {
	case Above:
		return "above"
	case Below:
		return "below"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection parses "above" or "below" (case-insensitive).
// An empty string means Above.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "above":
		return Above, nil
	case "below":
		return Below, nil
	default:
		return 0, fmt.Errorf("invalid direction %q: must be above or below", s)
	}
}

// PriceBound is a price threshold with a direction.
type PriceBound struct {
	Threshold float64
	Direction Direction
}

// Criteria holds the optional predicates. A nil field is not applied.
type Criteria struct {
	Price      *PriceBound
	ExpiryYear *int
}

// IsZero reports whether no predicate is set.
func (c Criteria) IsZero() bool {
	return c.Price == nil && c.ExpiryYear == nil
}

// Predicate combines the set predicates with AND.
func (c Criteria) Predicate() Predicate {
	var preds []Predicate
	if c.Price != nil {
		switch c.Price.Direction {
		case Below:
			preds = append(preds, PriceBelow(c.Price.Threshold))
		default:
			preds = append(preds, PriceAbove(c.Price.Threshold))
		}
	}
	if c.ExpiryYear != nil {
		preds = append(preds, ExpiresAfterYear(*c.ExpiryYear))
	}
	return All(preds...)
}

// All returns a predicate that holds when every p holds.
// With no predicates it retains everything.
func All(preds ...Predicate) Predicate {
	return func(m medicine.Medicine) bool {
		for _, p := range preds {
			if !p(m) {
				return false
			}
		}
		return true
	}
}

// PriceAbove retains records with price > threshold.
func PriceAbove(threshold float64) Predicate {
	return func(m medicine.Medicine) bool {
		return m.Price > threshold
	}
}

// PriceBelow retains records with price < threshold.
func PriceBelow(threshold float64) Predicate {
	return func(m medicine.Medicine) bool {
		return m.Price < threshold
	}
}

// ExpiresAfterYear retains records whose best_before year is > year.
// Records without a readable year are excluded.
func ExpiresAfterYear(year int) Predicate {
	return func(m medicine.Medicine) bool {
		y, ok := ExpiryYear(m.BestBefore)
		return ok && y > year
	}
}

// ExpiryYear reads the year from the first four characters of bestBefore.
// All four must be ASCII digits.
func ExpiryYear(bestBefore string) (int, bool) {
	if len(bestBefore) < 4 {
		return 0, false
	}
	year := 0
	for _, c := range []byte(bestBefore[:4]) {
		if c < '0' || c > '9' {
			return 0, false
		}
		year = year*10 + int(c-'0')
	}
	return year, true
}

// Select returns the medicines for which p holds, in input order.
// The input slice is not modified.
func Select(meds []medicine.Medicine, p Predicate) []medicine.Medicine {
	out := make([]medicine.Medicine, 0, len(meds))
	for _, m := range meds {
		if p(m) {
			out = append(out, m)
		}
	}
	return out
}

// Apply returns the medicines matching c, in input order.
func Apply(meds []medicine.Medicine, c Criteria) []medicine.Medicine {
	return Select(meds, c.Predicate())
}

// ParseCriteria builds criteria from free-text input.
//
// An empty or unparseable price leaves the price predicate unset, and so does
// a NaN or infinite one; the same holds for year. direction must be "above", "below" or empty.
func ParseCriteria(price, direction, year string) (Criteria, error) {
	dir, err := ParseDirection(direction)
	if err != nil {
		return Criteria{}, err
	}

	var c Criteria
	if v, err := strconv.ParseFloat(strings.TrimSpace(price), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
		c.Price = &PriceBound{Threshold: v, Direction: dir}
	}
	if v, err := strconv.Atoi(strings.TrimSpace(year)); err == nil {
		c.ExpiryYear = &v
	}
	return c, nil
}

// YearRange returns n consecutive years starting at from.
// Callers offer these as expiry-year choices.
func YearRange(from, n int) []int {
	if n <= 0 {
		return []int{}
	}
	years := make([]int, n)
	for i := range years {
		years[i] = from + i
	}
	return years
}
