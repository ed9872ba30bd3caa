// Package cache stores rendered figure artifacts.
//
// Artifacts are keyed by the figure ID and the render options, so a cached
// entry is only reused for the exact same template, data and output settings.
// The composition packages never touch the cache; only the pipeline runner
// does.
//
// Three backends are provided:
//   - [FileCache] for the CLI, one JSON file per entry
//   - [MemoryCache] for the HTTP server
//   - [NullCache] when caching is disabled
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long a rendered artifact stays cached.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// ArtifactKeyOpts holds the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Indent bool   `json:"indent,omitempty"`
	Title  string `json:"title,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	ArtifactKey(figureID string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the render options next to the figure ID.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey generates the key of one rendered artifact.
func (DefaultKeyer) ArtifactKey(figureID string, opts ArtifactKeyOpts) string {
	return artifactKey(figureID, opts)
}
