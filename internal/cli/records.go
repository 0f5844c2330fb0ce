package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/medstore/internal/medicine"
)

// recordFlags holds the per-field flags shared by add and update.
type recordFlags struct {
	Name        string
	Brand       string
	DateOfEntry string
	Price       float64
	BestBefore  string
	Quantity    int64
	Type        string
}

func (r *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.Name, "name", "", "medicine name (unique)")
	cmd.Flags().StringVar(&r.Brand, "brand", "", "brand")
	cmd.Flags().StringVar(&r.DateOfEntry, "date-of-entry", "", "entry date, YYYY-MM-DD or RFC 3339 (default now)")
	cmd.Flags().Float64Var(&r.Price, "price", 0, "unit price")
	cmd.Flags().StringVar(&r.BestBefore, "best-before", "", "best-before date, YYYY-MM-DD")
	cmd.Flags().Int64Var(&r.Quantity, "quantity", 0, "units in stock")
	cmd.Flags().StringVar(&r.Type, "type", "", fmt.Sprintf("type, e.g. %v", medicine.SuggestedTypes))
}

func (r *recordFlags) medicine() medicine.Medicine {
	return medicine.Medicine{
		Name:        r.Name,
		Brand:       r.Brand,
		DateOfEntry: r.DateOfEntry,
		Price:       r.Price,
		BestBefore:  r.BestBefore,
		Quantity:    r.Quantity,
		Type:        r.Type,
	}
}

// overlay copies the explicitly set flags onto m.
func (r *recordFlags) overlay(cmd *cobra.Command, m medicine.Medicine) medicine.Medicine {
	changed := cmd.Flags().Changed
	if changed("name") {
		m.Name = r.Name
	}
	if changed("brand") {
		m.Brand = r.Brand
	}
	if changed("date-of-entry") {
		m.DateOfEntry = r.DateOfEntry
	}
	if changed("price") {
		m.Price = r.Price
	}
	if changed("best-before") {
		m.BestBefore = r.BestBefore
	}
	if changed("quantity") {
		m.Quantity = r.Quantity
	}
	if changed("type") {
		m.Type = r.Type
	}
	return m
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &recordFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a medicine",
		Long: `Add a new medicine record. The name must not already be in use.

Example:
  medstore add --name Ibuprofen --brand "Brand D" --price 3.50 \
    --best-before 2027-01-01 --quantity 40 --type Tablet`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runAdd(ctx, s, flags.medicine())
			})
		},
	}

	flags.register(cmd)
	for _, name := range []string{"name", "brand", "price", "best-before", "quantity", "type"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runAdd(ctx context.Context, s *session, m medicine.Medicine) error {
	if err := s.store.Create(ctx, m); err != nil {
		return err
	}

	created, err := s.store.Get(ctx, m.Name)
	if err != nil {
		return err
	}

	return s.out.Success(created, func(w io.Writer) {
		fmt.Fprintf(w, "Added %q\n\n", created.Name)
		writeDetail(w, created)
	})
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show one medicine",
		Long: `Show every field of the medicine with the given name.

Exit codes:
  0 - Found
  1 - No medicine has that name`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				m, err := s.store.Get(ctx, args[0])
				if err != nil {
					return err
				}
				return s.out.Success(m, func(w io.Writer) { writeDetail(w, m) })
			})
		},
	}
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &recordFlags{}

	cmd := &cobra.Command{
		Use:   "update <original-name>",
		Short: "Replace a medicine's fields",
		Long: `Update the medicine stored under <original-name>.

Fields given as flags replace the stored values; the rest are kept. Passing
--name renames the record, which fails if the new name is already taken.

Example:
  medstore update Aspirin --price 4.99 --quantity 150
  medstore update Aspirin --name "Aspirin 500mg"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runUpdate(ctx, s, cmd, flags, args[0])
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func runUpdate(ctx context.Context, s *session, cmd *cobra.Command, flags *recordFlags, originalKey string) error {
	current, err := s.store.Get(ctx, originalKey)
	if err != nil {
		return err
	}

	replacement := flags.overlay(cmd, current)
	if err := s.store.Update(ctx, originalKey, replacement); err != nil {
		return err
	}

	updated, err := s.store.Get(ctx, replacement.Name)
	if err != nil {
		return err
	}

	return s.out.Success(updated, func(w io.Writer) {
		fmt.Fprintf(w, "Updated %q\n\n", current.Name)
		writeDetail(w, updated)
	})
}

// DeleteResult is the JSON payload of the delete command.
type DeleteResult struct {
	Name    string `json:"name"`
	Removed bool   `json:"removed"`
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a medicine",
		Long: `Delete the medicine with the given name.

Deleting a name that is not stored succeeds and reports removed=false.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(rootOpts, cmd, func(ctx context.Context, s *session) error {
				return runDelete(ctx, s, args[0])
			})
		},
	}
}

func runDelete(ctx context.Context, s *session, name string) error {
	name = medicine.NormalizeName(name)

	removed, err := s.store.Remove(ctx, name)
	if err != nil {
		return err
	}

	result := DeleteResult{Name: name, Removed: removed}
	return s.out.Success(result, func(w io.Writer) {
		if result.Removed {
			fmt.Fprintf(w, "Deleted %q\n", name)
			return
		}
		fmt.Fprintf(w, "No medicine named %q; nothing deleted\n", name)
	})
}
