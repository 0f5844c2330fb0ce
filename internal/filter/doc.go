// Package filter narrows an already-loaded slice of medicines without
// touching storage.
//
// Two predicates exist:
//   - Price: strictly above or strictly below a threshold
//   - Expiry year: the year of best_before strictly after a target year
//
// Predicates combine with logical AND. A predicate that was not supplied, or
// whose input could not be parsed, passes every record through. A record
// whose best_before has no readable year fails the expiry predicate.
package filter
