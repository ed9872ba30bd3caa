package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/stackplot/pkg/errors"
)

// fromRecords builds a table from a header row and string cells. Blank cells
// and rows shorter than the header become NaN.
func fromRecords(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "missing header row")
	}

	cols := make([][]float64, len(header))
	for i := range cols {
		cols[i] = make([]float64, len(rows))
	}
	for r, row := range rows {
		if len(row) > len(header) {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"row %d has %d cells, header has %d", r+2, len(row), len(header))
		}
		for c := range header {
			if c >= len(row) {
				cols[c][r] = math.NaN()
				continue
			}
			v, err := parseCell(row[c])
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "row %d, column %q", r+2, header[c])
			}
			cols[c][r] = v
		}
	}

	b := NewBuilder()
	for i, name := range header {
		b.Add(strings.TrimSpace(name), cols[i])
	}
	return b.Done()
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
