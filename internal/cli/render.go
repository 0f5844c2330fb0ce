package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/roach88/medstore/internal/medicine"
)

// writeTable prints medicines as aligned columns, one record per line.
func writeTable(w io.Writer, meds []medicine.Medicine) {
	if len(meds) == 0 {
		fmt.Fprintln(w, "No medicines found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBRAND\tTYPE\tPRICE\tQUANTITY\tBEST BEFORE")
	for _, m := range meds {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			m.Name, m.Brand, m.Type, formatPrice(m.Price), m.Quantity, m.BestBefore)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d medicine(s)\n", len(meds))
}

// writeDetail prints every field of one medicine.
func writeDetail(w io.Writer, m medicine.Medicine) {
	fmt.Fprintf(w, "%-15s%s\n", "Name:", m.Name)
	fmt.Fprintf(w, "%-15s%s\n", "Brand:", m.Brand)
	fmt.Fprintf(w, "%-15s%s\n", "Type:", m.Type)
	fmt.Fprintf(w, "%-15s%s\n", "Price:", formatPrice(m.Price))
	fmt.Fprintf(w, "%-15s%d\n", "Quantity:", m.Quantity)
	fmt.Fprintf(w, "%-15s%s\n", "Best before:", m.BestBefore)
	fmt.Fprintf(w, "%-15s%s\n", "Date of entry:", m.DateOfEntry)
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
