package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/medstore/internal/filter"
	"github.com/roach88/medstore/internal/medicine"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List every medicine",
		Long:          "List every stored medicine, ordered by name.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				meds, err := s.store.List(ctx)
				if err != nil {
					return err
				}
				return s.out.Success(meds, func(w io.Writer) { writeTable(w, meds) })
			})
		},
	}
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <field> <value>",
		Short: "Find medicines by exact field value",
		Long: `List medicines whose <field> equals <value>.

<field> is one of: name, brand, date_of_entry, price, best_before, quantity,
type. Numeric fields compare numerically, so "10.99" matches a price of 10.99.

Example:
  medstore search type Tablet
  medstore search price 10.99`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				field, err := medicine.ParseField(args[0])
				if err != nil {
					return err
				}
				meds, err := s.store.SearchByField(ctx, field, args[1])
				if err != nil {
					return err
				}
				return s.out.Success(meds, func(w io.Writer) { writeTable(w, meds) })
			})
		},
	}
}

// FilterOptions holds flags for the filter command.
type FilterOptions struct {
	*RootOptions
	Price     string
	Direction string
	Year      string
}

// NewFilterCommand creates the filter command.
func NewFilterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter medicines by price and expiry year",
		Long: `List medicines matching every given condition.

--price keeps records strictly above (or, with --direction below, strictly
below) the threshold. --year keeps records whose best-before year is strictly
after the given year. A value that does not parse as a number is ignored.

Example:
  medstore filter --price 10
  medstore filter --price 10 --direction below --year 2025`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runFilter(ctx, s, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Price, "price", "", "price threshold")
	cmd.Flags().StringVar(&opts.Direction, "direction", "above", "keep prices above or below the threshold (above|below)")
	cmd.Flags().StringVar(&opts.Year, "year", "", "keep records expiring after this year")

	return cmd
}

func runFilter(ctx context.Context, s *session, opts *FilterOptions) error {
	criteria, err := filter.ParseCriteria(opts.Price, opts.Direction, opts.Year)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}

	meds, err := s.store.List(ctx)
	if err != nil {
		return err
	}

	matched := filter.Apply(meds, criteria)
	s.out.VerboseLog("filter kept %d of %d medicine(s)", len(matched), len(meds))

	return s.out.Success(matched, func(w io.Writer) { writeTable(w, matched) })
}
