package dataset

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/matzehuels/stackplot/pkg/errors"
)

// Kind identifies a dataset loader.
type Kind string

const (
	KindCSV    Kind = "csv"
	KindXLSX   Kind = "xlsx"
	KindSQLite Kind = "sqlite"
	KindMongo  Kind = "mongo"
)

// Source locates a dataset.
//
// Path is a file for csv, xlsx and sqlite, and a connection URI for mongo.
// Table names the sheet (xlsx), table (sqlite) or collection (mongo).
// Database is only used by mongo.
type Source struct {
	Kind     Kind   `json:"kind"`
	Path     string `json:"path"`
	Table    string `json:"table,omitempty"`
	Database string `json:"database,omitempty"`
}

// KindFromPath infers the loader from a path or URI.
func KindFromPath(path string) (Kind, error) {
	if strings.HasPrefix(path, "mongodb://") || strings.HasPrefix(path, "mongodb+srv://") {
		return KindMongo, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return KindCSV, nil
	case ".xlsx", ".xlsm":
		return KindXLSX, nil
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite, nil
	}
	return "", errors.New(errors.ErrCodeInvalidSource, "cannot infer dataset kind from %q", path)
}

// Open loads the dataset described by src. An empty Kind is inferred from
// Path.
func Open(ctx context.Context, src Source) (*Table, error) {
	kind := src.Kind
	if kind == "" {
		var err error
		if kind, err = KindFromPath(src.Path); err != nil {
			return nil, err
		}
	}

	switch kind {
	case KindCSV:
		return LoadCSV(src.Path)
	case KindXLSX:
		return LoadXLSX(src.Path, src.Table)
	case KindSQLite:
		return LoadSQLite(ctx, src.Path, src.Table)
	case KindMongo:
		return LoadMongo(ctx, src.Path, src.Database, src.Table)
	}
	return nil, errors.New(errors.ErrCodeInvalidSource, "unsupported dataset kind %q", kind)
}
