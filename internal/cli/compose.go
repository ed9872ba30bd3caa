package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplot/pkg/dataset"
	"github.com/matzehuels/stackplot/pkg/pipeline"
)

// composeOpts holds the command-line flags for the compose command.
type composeOpts struct {
	output   string // output file (single format), base path (multiple) or "-" for stdout
	formats  string // comma-separated output formats
	kind     string // dataset loader; inferred from the path when empty
	table    string // sheet (xlsx), table (sqlite) or collection (mongo)
	database string // mongo database
}

// composeCommand creates the compose command.
func (c *CLI) composeCommand() *cobra.Command {
	var flags composeOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "compose [template] [data]",
		Short: "Compose a figure from a template and a data table",
		Long: `Compose a figure from a template and a data table.

The template is a JSON or TOML file describing grids, axes and variables.
The data is a CSV file, an Excel workbook, a SQLite database or a MongoDB
URI; use --table to pick the sheet, table or collection.

The figure is written as plotly.js JSON (default) or as a standalone HTML
page. Without --output, files are named after the data source.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.TemplatePath = args[0]
			opts.Data = dataset.Source{
				Kind:     dataset.Kind(flags.kind),
				Path:     args[1],
				Table:    flags.table,
				Database: flags.database,
			}
			opts.Formats = parseFormats(flags.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runCompose(cmd.Context(), opts, flags.output)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", `output file (single format), base path (multiple) or "-" for stdout`)
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): json (default), html (comma-separated)")
	cmd.Flags().StringVar(&flags.kind, "source", "", "data source kind: csv, xlsx, sqlite, mongo (default: inferred)")
	cmd.Flags().StringVar(&flags.table, "table", "", "sheet, table or collection to read")
	cmd.Flags().StringVar(&flags.database, "database", "", "database name (mongo)")
	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "", "figure kind override: 2d, 3d, heatmap, subplots")
	cmd.Flags().BoolVar(&opts.SuppressInfo, "no-info", false, "hide the informational annotations")
	cmd.Flags().BoolVar(&opts.Indent, "indent", false, "pretty-print JSON output")
	cmd.Flags().StringVar(&opts.Title, "title", "", "HTML page title (default: figure title)")

	return cmd
}

// runCompose executes the pipeline and writes the artifacts.
func (c *CLI) runCompose(ctx context.Context, opts pipeline.Options, output string) error {
	opts.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, "Composing figure...")
	spinner.Start()

	result, err := c.newRunner().Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Composition failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Composed %d traces", result.Stats.Traces))
	if result.Stats.Traces == 0 {
		printWarning("Template has no variables; the figure is empty")
	}

	input := opts.Data.Path
	if kind, _ := dataset.KindFromPath(input); kind == dataset.KindMongo || opts.Data.Kind == dataset.KindMongo {
		input = "figure"
	}
	paths := outputPaths(opts.Formats, output, input)

	formats := make([]string, 0, len(paths))
	for f := range paths {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	toStdout := false
	for _, f := range formats {
		path := paths[f]
		if err := c.writeArtifact(path, result.Artifacts[f]); err != nil {
			return err
		}
		if path == "-" {
			toStdout = true
			continue
		}
		c.Logger.Debug("wrote artifact", "format", f, "path", path, "bytes", len(result.Artifacts[f]))
	}
	if toStdout {
		return nil
	}

	printSuccess("Figure %s", StyleNumber.Render(result.FigureID))
	for _, f := range formats {
		printFile(paths[f])
	}
	printStats(result.Stats.Rows, result.Stats.Traces, result.Stats.Grids)
	return nil
}

func (c *CLI) writeArtifact(path string, data []byte) error {
	out, err := c.openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
