package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplot/pkg/colorscale"
)

// scalesCommand creates the scales command listing the color scales.
func (c *CLI) scalesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scales [name]",
		Short: "List the supported color scales",
		Long: `List the color scales accepted by a grid's colorScale field.

With a name, print the stops of that scale instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return c.printScale(args[0])
			}
			for _, name := range colorscale.Names() {
				colors, err := colorscale.Colors(name)
				if err != nil {
					return err
				}
				var b strings.Builder
				for _, col := range colors {
					b.WriteString(termSwatch(col))
				}
				writeKeyValue(c.out, name, b.String())
			}
			return nil
		},
	}
}

func (c *CLI) printScale(name string) error {
	stops, err := colorscale.Stops(name)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, StyleTitle.Render(name))
	for _, s := range stops {
		writeKeyValue(c.out, fmt.Sprintf("%.3f", s.Pos), swatch(s.Color))
	}
	return nil
}
