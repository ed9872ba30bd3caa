package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplot/pkg/dataset"
)

// inspectCommand creates the inspect command for looking at a data table.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		src  dataset.Source
		kind string
		full bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [data]",
		Short: "Print the columns of a data table",
		Long: `Print the columns of a data table as the composer sees them.

Non-numeric cells are reported as missing values (NaN). Use --rows to print
the whole table instead of the column summary.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src.Path = args[0]
			src.Kind = dataset.Kind(kind)

			tab, err := dataset.Open(cmd.Context(), src)
			if err != nil {
				return err
			}
			c.Logger.Debug("loaded dataset", "path", src.Path, "rows", tab.Len())

			if full {
				return tab.Fprint(c.out)
			}
			fmt.Fprintln(c.out, StyleTitle.Render(src.Path))
			writeKeyValue(c.out, "rows", strconv.Itoa(tab.Len()))
			for _, name := range tab.Columns() {
				col, err := tab.Column(name)
				if err != nil {
					return err
				}
				writeKeyValue(c.out, name, summarize(col))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "source", "", "data source kind: csv, xlsx, sqlite, mongo (default: inferred)")
	cmd.Flags().StringVar(&src.Table, "table", "", "sheet, table or collection to read")
	cmd.Flags().StringVar(&src.Database, "database", "", "database name (mongo)")
	cmd.Flags().BoolVar(&full, "rows", false, "print every row")

	return cmd
}

// summarize formats the range and missing count of a column.
func summarize(col []float64) string {
	s := dataset.Summarize(col)
	if s.Count == 0 {
		return fmt.Sprintf("no values (%d missing)", s.Missing)
	}
	out := fmt.Sprintf("%g … %g  mean %.4g", s.Min, s.Max, s.Mean)
	if s.Missing > 0 {
		out += fmt.Sprintf("  (%d missing)", s.Missing)
	}
	return out
}
