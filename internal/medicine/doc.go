// Package medicine defines the Medicine record, its validation rules and the
// error taxonomy shared by the store and its callers.
//
// # Natural Key
//
// A medicine is identified by its name. There is no surrogate id. Names are
// normalized before they are used as keys:
//   - Surrounding whitespace is trimmed
//   - Unicode NFC normalization is applied
//
// NormalizeName is the only place that rule lives; the store calls it on
// every key it receives.
//
// # Errors
//
// Operations report failures as typed values, never as empty results:
//   - ValidationError: a field is missing or malformed
//   - DuplicateKeyError: the name is already taken
//   - NotFoundError: the name does not exist
//   - SchemaError: the table definition could not be applied
//   - StorageError: the storage engine failed
package medicine
