package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/medstore/internal/catalog"
	"github.com/roach88/medstore/internal/filter"
	"github.com/roach88/medstore/internal/medicine"
)

// expiryYearChoices is how many consecutive years the types command offers.
const expiryYearChoices = 26

// InitResult is the JSON payload of the init command.
type InitResult struct {
	Database string `json:"database"`
	Seeded   int    `json:"seeded"`
	Count    int    `json:"count"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and seed sample records",
		Long: `Create the database file and its table if missing, then insert the sample
records when the store is empty (unless --seed=false).

Safe to run repeatedly: an existing store is left unchanged.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				count, err := s.store.Count(ctx)
				if err != nil {
					return err
				}

				result := InitResult{Database: s.cfg.DBPath, Seeded: s.seeded, Count: count}
				return s.out.Success(result, func(w io.Writer) {
					fmt.Fprintf(w, "Database ready: %s\n", result.Database)
					if result.Seeded > 0 {
						fmt.Fprintf(w, "Seeded %d sample medicine(s)\n", result.Seeded)
					}
					fmt.Fprintf(w, "%d medicine(s) stored\n", result.Count)
				})
			})
		},
	}
}

// ImportResult is the JSON payload of the import command.
type ImportResult struct {
	File    string   `json:"file"`
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add medicines from a YAML or CUE catalog",
		Long: `Add every medicine listed in a catalog file.

The format is chosen by extension: .yaml/.yml or .cue. The whole file is
checked before anything is written. Names that are already stored are skipped
and reported; any other failure stops the import.

Exit codes:
  0 - Catalog imported (possibly with skipped names)
  1 - Catalog invalid or a record was rejected
  2 - Command error`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runImport(ctx, s, args[0])
			})
		},
	}
}

func runImport(ctx context.Context, s *session, path string) error {
	meds, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}

	result := ImportResult{File: path, Created: []string{}, Skipped: []string{}}
	for _, m := range meds {
		err := s.store.Create(ctx, m)
		switch {
		case err == nil:
			result.Created = append(result.Created, m.Name)
		case medicine.IsDuplicateKey(err):
			slog.Debug("import skipped existing medicine", "name", m.Name)
			result.Skipped = append(result.Skipped, m.Name)
		default:
			return fmt.Errorf("import %q: %w", m.Name, err)
		}
	}

	slog.Info("catalog imported", "file", path, "created", len(result.Created), "skipped", len(result.Skipped))

	return s.out.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Imported %d medicine(s) from %s\n", len(result.Created), filepath.Base(path))
		for _, name := range result.Created {
			fmt.Fprintf(w, "  + %s\n", name)
		}
		if len(result.Skipped) > 0 {
			fmt.Fprintf(w, "Skipped %d already stored:\n", len(result.Skipped))
			for _, name := range result.Skipped {
				fmt.Fprintf(w, "  = %s\n", name)
			}
		}
	})
}

// TypesResult is the JSON payload of the types command.
type TypesResult struct {
	Types       []string `json:"types"`
	ExpiryYears []int    `json:"expiry_years"`
}

// NewTypesCommand creates the types command.
func NewTypesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List suggested types and expiry year choices",
		Long: `List the suggested medicine type labels and the expiry years accepted by
filter --year. Any non-empty type is accepted by add and update.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput(rootOpts, cmd, slog.LevelInfo)

			years := filter.YearRange(rootOpts.now().Year(), expiryYearChoices)
			result := TypesResult{Types: medicine.SuggestedTypes, ExpiryYears: years}

			return out.Success(result, func(w io.Writer) {
				fmt.Fprintf(w, "Types: %s\n", strings.Join(result.Types, ", "))
				fmt.Fprintf(w, "Expiry years: %d-%d\n", years[0], years[len(years)-1])
			})
		},
	}
}
