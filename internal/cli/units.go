package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplot/pkg/errors"
	"github.com/matzehuels/stackplot/pkg/units"
)

// unitsCommand creates the units command listing the conversion codes.
func (c *CLI) unitsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "units",
		Short: "List the unit conversion codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, code := range units.Codes() {
				fmt.Fprintln(c.out, code)
			}
			return nil
		},
	}
}

// convertCommand creates the convert command applying one conversion code.
func (c *CLI) convertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert [code] [values...]",
		Short: "Convert values with a unit conversion code",
		Long: `Convert values with a unit conversion code, the way axis scale factors
are applied to plotted data.

  $ stackplot convert "m to km" 1500 20000
  1.5
  20`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseValues(args[1:])
			if err != nil {
				return err
			}
			out, err := units.Convert(values, args[0])
			if err != nil {
				return err
			}
			for _, v := range out {
				fmt.Fprintln(c.out, strconv.FormatFloat(v, 'g', -1, 64))
			}
			return nil
		},
	}
}

func parseValues(args []string) ([]float64, error) {
	values := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid value %q", a)
		}
		values[i] = v
	}
	return values, nil
}
