package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/agrikit/pkg/ordering"
)

// topCommand creates the top command.
func (c *CLI) topCommand() *cobra.Command {
	var (
		n       int
		field   string
		asTable bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "top [file]",
		Short: "Select the records with the largest price change",
		Long: `Select the n records with the largest change value. Changes are text such
as "+2.5%" or "-1.1"; percent and plus signs are ignored and anything
unparseable counts as 0.`,
		Example: `  agrikit top prices.json -n 3 --change change`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := readRecords(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			top := ordering.TopN(recs, n, stringKey(field))
			loggerFromContext(cmd.Context()).Debug("top movers", "requested", n, "returned", len(top))
			if asTable {
				rows := make([][]string, len(top))
				for i, r := range top {
					rows[i] = []string{fmt.Sprint(i + 1), stringKey("name")(r), stringKey(field)(r),
						fmt.Sprintf("%.2f", ordering.ParseChange(stringKey(field)(r)))}
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Name", "Change", "Parsed"}, rows))
				return nil
			}
			return writeJSON(cmd.OutOrStdout(), output, top)
		},
	}

	cmd.Flags().IntVarP(&n, "count", "n", 5, "number of records")
	cmd.Flags().StringVar(&field, "change", "change", "field holding the change value")
	cmd.Flags().BoolVar(&asTable, "table", false, "print a table instead of JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
