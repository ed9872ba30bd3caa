// Package dataset holds the numeric data table that templates bind to.
//
// A [Table] is a set of equal-length, named numeric columns backed by a go-gg
// table. Columns may be stored as any Go numeric slice type; [Table.Column]
// always hands out a fresh []float64 so callers can never alias table storage.
//
// Tables come from memory ([FromColumns], [Builder]) or from one of the
// loaders: CSV, XLSX, SQLite and MongoDB. [Open] dispatches on a [Source].
package dataset

import (
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"

	"github.com/matzehuels/stackplot/pkg/errors"
)

// Table is an immutable table of numeric columns.
type Table struct {
	t *table.Table
}

// Builder accumulates columns for a [Table].
type Builder struct {
	b   table.Builder
	n   int
	err error
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{n: -1}
}

// Add appends a column. data must be a slice of a numeric type and have the
// same length as every other column. The first error sticks and is returned
// by Done.
func (b *Builder) Add(name string, data any) *Builder {
	if b.err != nil {
		return b
	}
	if err := errors.ValidateColumnName(name); err != nil {
		b.err = errors.Wrap(errors.ErrCodeInvalidInput, err, "column")
		return b
	}

	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice || !isNumeric(v.Type().Elem().Kind()) {
		b.err = errors.New(errors.ErrCodeInvalidInput, "column %q: %T is not a numeric slice", name, data)
		return b
	}
	if b.n >= 0 && v.Len() != b.n {
		b.err = errors.New(errors.ErrCodeInvalidInput, "column %q has %d rows, want %d", name, v.Len(), b.n)
		return b
	}
	b.n = v.Len()
	b.b.Add(name, data)
	return b
}

// Done returns the built table.
func (b *Builder) Done() (*Table, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &Table{t: b.b.Done()}, nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// FromColumns builds a table from float64 columns. Columns are stored in
// name order.
func FromColumns(cols map[string][]float64) (*Table, error) {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	b := NewBuilder()
	for _, name := range names {
		b.Add(name, cols[name])
	}
	return b.Done()
}

// Column returns the named column converted to float64.
func (t *Table) Column(name string) ([]float64, error) {
	var col slice.T
	if t != nil && t.t != nil {
		col = t.t.Column(name)
	}
	if col == nil {
		return nil, errors.New(errors.ErrCodeColumnNotFound,
			"column %q not found (have: %s)", name, strings.Join(t.Columns(), ", "))
	}

	var out []float64
	slice.Convert(&out, col)
	return append([]float64(nil), out...), nil
}

// Columns returns the column names in storage order.
func (t *Table) Columns() []string {
	if t == nil || t.t == nil {
		return nil
	}
	return append([]string(nil), t.t.Columns()...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil || t.t == nil {
		return 0
	}
	return t.t.Len()
}

// Fprint writes the table in aligned text form.
func (t *Table) Fprint(w io.Writer) error {
	if t == nil || t.t == nil {
		return nil
	}
	return table.Fprint(w, t.t)
}
