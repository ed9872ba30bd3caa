package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateColumnName validates a dataset column name referenced by a template.
//
// The rules are intentionally loose since simulation outputs use all kinds of
// headers ("Alt (m)", "v_x", "RCS dBsm"):
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateColumnName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTemplate, "column name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidTemplate, "column name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTemplate, "column name %q contains invalid control characters", name)
		}
	}

	return nil
}

// identifierRegex matches plain SQL identifiers.
var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier validates a SQL table or document collection name.
// Loaders interpolate these names into queries, so only plain identifiers are
// accepted.
func ValidateIdentifier(name string) error {
	if name == "" {
		return New(ErrCodeInvalidSource, "identifier cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidSource, "identifier too long (max 128 characters)")
	}
	if !identifierRegex.MatchString(name) {
		return New(ErrCodeInvalidSource, "invalid identifier: %q", name)
	}
	return nil
}

// ValidatePath validates an output file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateMongoURI validates a MongoDB connection string.
// It ensures the URI uses the mongodb or mongodb+srv scheme.
func ValidateMongoURI(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidSource, "URI cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "mongodb://") && !strings.HasPrefix(rawURL, "mongodb+srv://") {
		return New(ErrCodeInvalidSource, "URI must use mongodb or mongodb+srv scheme")
	}

	return nil
}
