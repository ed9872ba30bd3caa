// Package pkg provides the libraries of stackplot, a figure composer for
// trajectory and simulation data.
//
// # Overview
//
// Stackplot turns a declarative plot template and a numeric data table into
// a plotly.js-compatible figure description. It never draws anything itself:
// the figure is handed to a charting backend, either as JSON or wrapped in a
// standalone HTML page.
//
// # Architecture
//
// The data flow through stackplot:
//
//	Template (JSON/TOML)      Data table (CSV/XLSX/SQLite/MongoDB)
//	         ↓                          ↓
//	    [template]                 [dataset]
//	         └──────────┬───────────────┘
//	                    ↓
//	               [compose]  ← [trace], [grid], [heatmap], [units]
//	                    ↓
//	               [figure]
//	                    ↓
//	               [render]   → JSON / HTML
//
// [pipeline] wires these stages together for the CLI and the HTTP API, and
// caches rendered artifacts through [cache].
//
// # Quick Start
//
//	t, _ := template.Load("track.toml")
//	tab, _ := dataset.LoadCSV("run.csv")
//
//	fig, err := compose.Compose(t, tab, compose.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, _ := render.JSON(fig)
//
// # Main Packages
//
// ## Composition
//
// [compose] - Builds a figure from a template and a table: layout chrome,
// one trace per variable, then the axes or scenes of every grid.
//
// [trace] - Assembles one 2D, 3D or heatmap-colored scatter trace from a
// variable binding and the grid it is plotted on.
//
// [grid] - Computes the axis ranges and domains of 2D grids and the scenes of
// 3D grids, in Auto, Equal or Manual mode.
//
// [heatmap] - Discretizes a color column into level bands and builds the
// stepped colorscale and colorbar of the marker.
//
// [colorscale] - Named sequential color scales.
//
// [units] - Unit conversion codes applied through axis scale factors.
//
// ## Data Model
//
// [template] - Typed, validated plot templates decoded from JSON or TOML.
//
// [dataset] - Numeric column tables loaded from CSV, Excel workbooks, SQLite
// databases or MongoDB collections.
//
// [figure] - The plotly.js figure description produced by composition.
//
// ## Infrastructure
//
// [pipeline] - Load → compose → render, shared by the CLI and the API.
//
// [render] - JSON and HTML encoders for figures.
//
// [cache] - File, memory and Redis stores for rendered artifacts.
//
// [observability] - Hooks for metrics and tracing of pipeline stages and HTTP
// requests.
//
// [errors] - Coded errors shared by every package.
//
// # Testing
//
//	go test ./...               # All tests
//	go test ./pkg/compose/...   # Specific package
//	go test -run Example ./...  # Examples only
//
// [compose]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/compose
// [trace]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/trace
// [grid]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/grid
// [heatmap]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/heatmap
// [colorscale]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/colorscale
// [units]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/units
// [template]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/template
// [dataset]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/dataset
// [figure]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/figure
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/stackplot/pkg/errors
package pkg
