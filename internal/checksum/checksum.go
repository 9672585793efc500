// Package checksum fingerprints note content for change detection and
// optimistic concurrency.
package checksum

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Match reports whether sum is the digest of data. Comparison is constant
// time so checksums can double as weak ETags.
func Match(sum string, data []byte) bool {
	return subtle.ConstantTimeCompare([]byte(sum), []byte(Sum(data))) == 1
}
