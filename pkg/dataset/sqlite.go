package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/stackplot/pkg/errors"
)

// LoadSQLite reads every row of a table in the SQLite database at path. The
// table name must be a plain identifier. NULL becomes NaN.
func LoadSQLite(ctx context.Context, path, tableName string) (*Table, error) {
	if err := errors.ValidateIdentifier(tableName); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "database %s", path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "open %s", path)
	}
	defer db.Close()

	return querySQL(ctx, db, fmt.Sprintf(`SELECT * FROM "%s"`, tableName))
}

// querySQL runs query and returns its result set as a table.
func querySQL(ctx context.Context, db *sql.DB, query string) (*Table, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "query")
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "columns")
	}

	cols := make([][]float64, len(names))
	cells := make([]any, len(names))
	ptrs := make([]any, len(names))
	for i := range cells {
		ptrs[i] = &cells[i]
	}

	for row := 1; rows.Next(); row++ {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "scan row %d", row)
		}
		for i, cell := range cells {
			v, err := sqlValue(cell)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "row %d, column %q", row, names[i])
			}
			cols[i] = append(cols[i], v)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "read rows")
	}

	b := NewBuilder()
	for i, name := range names {
		if cols[i] == nil {
			cols[i] = []float64{}
		}
		b.Add(name, cols[i])
	}
	return b.Done()
}

func sqlValue(cell any) (float64, error) {
	switch v := cell.(type) {
	case nil:
		return math.NaN(), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return parseCell(string(v))
	case string:
		return parseCell(v)
	}
	return 0, fmt.Errorf("unsupported value %v (%T)", cell, cell)
}
