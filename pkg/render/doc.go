// Package render writes a composed figure out in formats a charting backend
// can consume.
//
// # Overview
//
// The composer never draws anything. This package provides the two sinks
// the pipeline offers on top of it:
//
//   - [JSON]: the plotly.js figure document ({data, layout}), optionally
//     wrapped with the figure ID and the subplot placement request
//   - [HTML]: a standalone page that loads plotly.js and plots the figure
//
// Both sinks are pure functions of the figure and their options, and are
// safe to call concurrently.
//
//	data, err := render.JSON(fig, render.WithID(id), render.WithIndent())
//	page, err := render.HTML(fig, render.WithTitle("Run 42"))
//
// # Formats
//
// [Formats] lists the format names accepted by [Render], which dispatches
// to the matching sink.
package render
