package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// artifactKey is "artifact:<figureID>:<digest of opts>". Options marshal
// with omitempty, so the zero value of a new field keeps old keys stable.
func artifactKey(figureID string, opts ArtifactKeyOpts) string {
	b, _ := json.Marshal(opts) // strings and bools only
	return "artifact:" + figureID + ":" + Digest(b)
}

// Digest is the lowercase hex SHA-256 of b.
func Digest(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
