package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/agrikit/pkg/errors"
	"github.com/matzehuels/agrikit/pkg/toolkit"
)

// searchCommand creates the search command.
func (c *CLI) searchCommand() *cobra.Command {
	var (
		by      string
		asTable bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "search [file] [query]",
		Short: "Find records whose field starts with (or contains) a query",
		Long: `Search records by a text field, ignoring case. Records are sorted by the
field, a binary search finds the run of keys starting with the query, and
when nothing matches every record containing the query is returned.`,
		Example: `  agrikit search crops.json ba --by name
  agrikit search crops.json ice --by name --table`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := errors.ValidateQuery(args[1]); err != nil {
				return err
			}
			recs, err := readRecords(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			tk, err := c.newToolkit(ctx)
			if err != nil {
				return err
			}
			defer tk.Close()

			sorted := sortForSearch(recs, by)
			found := toolkit.Search(ctx, tk, sorted, args[1], stringKey(by))
			if len(found) == 0 {
				printWarning("No records match %q", args[1])
			}
			if asTable {
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(columnsFor(found, by), recordRows(found, columnsFor(found, by))))
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), output, found)
		},
	}

	cmd.Flags().StringVar(&by, "by", "name", "field to search")
	cmd.Flags().BoolVar(&asTable, "table", false, "print a table instead of JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
