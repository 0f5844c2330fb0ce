// Package catalog reads bulk-entry files of medicines.
//
// Two formats are accepted, chosen by file extension:
//   - YAML (.yaml, .yml): decoded strictly, unknown fields rejected
//   - CUE (.cue): unified with an embedded schema before decoding
//
// Both have the same shape:
//
//	medicines:
//	  - name: Ibuprofen
//	    brand: Brand D
//	    price: 3.5
//	    best_before: "2027-01-01"
//	    quantity: 40
//	    type: Tablet
//
// Every decoded record is normalized and validated with the same rules the
// store applies, so a catalog that loads cleanly can be imported record by
// record. date_of_entry may be omitted; the store stamps it on create.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/medstore/internal/medicine"
)

//go:embed schema.cue
var schemaCUE string

// Format identifies a catalog file format.
type Format int

const (
	FormatYAML Format = iota + 1
	FormatCUE
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatCUE:
		return "cue"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Error codes for LoadError.
const (
	ErrCodeRead    = "E_READ"
	ErrCodeFormat  = "E_FORMAT"
	ErrCodeParse   = "E_PARSE"
	ErrCodeSchema  = "E_SCHEMA"
	ErrCodeInvalid = "E_INVALID"
)

// LoadError represents an error that occurred while loading a catalog.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

type catalogFile struct {
	Medicines []medicine.Medicine `yaml:"medicines" json:"medicines"`
}

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return 0, &LoadError{
			Code:    ErrCodeFormat,
			Path:    path,
			Message: fmt.Sprintf("unsupported extension %q: use .yaml, .yml or .cue", filepath.Ext(path)),
		}
	}
}

// LoadFile reads and decodes the catalog at path.
func LoadFile(path string) ([]medicine.Medicine, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Path: path, Message: "failed to read catalog file", Err: err}
	}

	meds, err := Decode(data, path, format)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = path
		}
		return nil, err
	}
	return meds, nil
}

// Decode parses catalog data in the given format.
// filename is used in CUE positions only.
func Decode(data []byte, filename string, format Format) ([]medicine.Medicine, error) {
	var (
		meds []medicine.Medicine
		err  error
	)
	switch format {
	case FormatYAML:
		meds, err = decodeYAML(data)
	case FormatCUE:
		meds, err = decodeCUE(data, filename)
	default:
		return nil, &LoadError{Code: ErrCodeFormat, Message: fmt.Sprintf("unknown format %s", format)}
	}
	if err != nil {
		return nil, err
	}

	return validateAll(meds)
}

func decodeYAML(data []byte) ([]medicine.Medicine, error) {
	var f catalogFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&f); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("failed to parse YAML: %v", err), Err: err}
	}
	if f.Medicines == nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: "medicines list is required"}
	}
	return f.Medicines, nil
}

func decodeCUE(data []byte, filename string) ([]medicine.Medicine, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: fmt.Sprintf("compiling embedded schema: %v", err), Err: err}
	}

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: cueerrors.Details(err, nil), Err: err}
	}

	path := cue.ParsePath("medicines")
	if !value.LookupPath(path).Exists() {
		return nil, &LoadError{Code: ErrCodeParse, Message: "medicines list is required"}
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, Message: cueerrors.Details(err, nil), Err: err}
	}

	var f catalogFile
	if err := unified.Decode(&f); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("decoding CUE value: %v", err), Err: err}
	}
	return f.Medicines, nil
}

// validateAll normalizes each record and rejects the catalog on the first
// invalid record or on a name repeated within the file.
func validateAll(meds []medicine.Medicine) ([]medicine.Medicine, error) {
	out := make([]medicine.Medicine, 0, len(meds))
	seen := make(map[string]int, len(meds))

	for i, m := range meds {
		m = m.Normalized()
		if err := m.Validate(); err != nil {
			return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("medicines[%d]: %v", i, err), Err: err}
		}
		if first, dup := seen[m.Name]; dup {
			return nil, &LoadError{
				Code:    ErrCodeInvalid,
				Message: fmt.Sprintf("medicines[%d]: name %q repeats medicines[%d]", i, m.Name, first),
				Err:     &medicine.DuplicateKeyError{Name: m.Name},
			}
		}
		seen[m.Name] = i
		out = append(out, m)
	}

	return out, nil
}
