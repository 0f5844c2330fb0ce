package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string
	ConfigPath string
	Seed       bool

	// Tracer overrides the trace id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tracer TraceIDGenerator

	// Clock overrides the time source used to stamp date_of_entry and to
	// start the expiry year choices (for testing). If nil, defaults to time.Now.
	Clock func() time.Time

	// LogWriter receives log lines. If nil, the command's stderr is used.
	LogWriter io.Writer

	// Set in PersistentPreRunE: true when the flag was given explicitly and
	// must win over config file and environment.
	dbSet   bool
	seedSet bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the medstore CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command around opts, so tests
// can inject a tracer, a clock and a log writer before flags are parsed.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medstore",
		Short: "medstore - medicine inventory",
		Long:  "Track medicine stock in a local SQLite file: add, list, search, filter, update and delete records.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.dbSet = cmd.Flags().Changed("db")
			opts.seedSet = cmd.Flags().Changed("seed")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config, then ./data/medicines.db)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file (default $MEDSTORE_CONFIG)")
	cmd.PersistentFlags().BoolVar(&opts.Seed, "seed", true, "insert sample records when the store is empty")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewFilterCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewTypesCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

func (o *RootOptions) tracer() TraceIDGenerator {
	if o.Tracer != nil {
		return o.Tracer
	}
	return UUIDv7Generator{}
}
