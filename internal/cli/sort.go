package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/agrikit/pkg/ordering"
)

type sortOpts struct {
	by       string
	reverse  bool
	unstable bool
	output   string
}

// sortCommand creates the sort command.
func (c *CLI) sortCommand() *cobra.Command {
	opts := sortOpts{}

	cmd := &cobra.Command{
		Use:   "sort [file]",
		Short: "Sort a JSON array of records by one field",
		Long: `Sort records by a field. Numeric fields sort numerically, anything else
sorts as text. The default merge sort keeps records with equal keys in
input order; --unstable uses quicksort instead.`,
		Example: `  # Cheapest first
  agrikit sort prices.json --by price

  # Most expensive first, reading stdin
  cat prices.json | agrikit sort - --by price --reverse`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := readRecords(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			prog := newProgress(loggerFromContext(cmd.Context()))
			sorted := sortRecords(recs, opts)
			prog.done(fmt.Sprintf("Sorted %d records by %s", len(sorted), opts.by))
			return writeJSON(cmd.OutOrStdout(), opts.output, sorted)
		},
	}

	cmd.Flags().StringVar(&opts.by, "by", "name", "field to sort by")
	cmd.Flags().BoolVarP(&opts.reverse, "reverse", "r", false, "sort descending")
	cmd.Flags().BoolVar(&opts.unstable, "unstable", false, "use quicksort (equal keys may reorder)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func sortRecords(recs []record, opts sortOpts) []record {
	if numericField(recs, opts.by) {
		key := floatKey(opts.by)
		if opts.unstable {
			return ordering.Unstable(recs, key, opts.reverse)
		}
		return ordering.Stable(recs, key, opts.reverse)
	}
	key := stringKey(opts.by)
	if opts.unstable {
		return ordering.Unstable(recs, key, opts.reverse)
	}
	return ordering.Stable(recs, key, opts.reverse)
}

// sortForSearch orders records by the lower-cased field, as RangeSearch
// requires.
func sortForSearch(recs []record, field string) []record {
	return ordering.Stable(recs, lowerKey(field), false)
}

func columnsFor(recs []record, first string) []string {
	cols := []string{first}
	seen := map[string]bool{first: true}
	for _, r := range recs {
		for _, k := range sortedKeys(r) {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

func sortedKeys(r record) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	return ordering.Stable(keys, strings.ToLower, false)
}
