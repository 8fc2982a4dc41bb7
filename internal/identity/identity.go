package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Algorithm derives a digest from normalized document text. Algorithms are
// compared by version tag, never by instance: two values carrying the same
// tag must behave identically, and changing digest behavior without a new
// tag silently poisons persisted manifests.
type Algorithm interface {
	Version() string
	Sum(normalized string) string
}

// Identity names one operation document: the digest plus the version tag
// of the algorithm that produced it.
type Identity struct {
	AlgorithmVersion string
	Digest           string
}

// SHA256 is the default algorithm: lowercase hex over the normalized
// UTF-8 bytes.
var SHA256 Algorithm = algorithm{version: "sha256", sum: func(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}}

// XXHash64 trades collision resistance for speed. Suitable for local
// build caches, not for server-side allowlists.
var XXHash64 Algorithm = algorithm{version: "xxhash64", sum: func(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}}

// Func adapts a digest function plus a version tag into an Algorithm.
func Func(version string, fn func(string) string) Algorithm {
	return algorithm{version: version, sum: fn}
}

type algorithm struct {
	version string
	sum     func(string) string
}

func (a algorithm) Version() string              { return a.version }
func (a algorithm) Sum(normalized string) string { return a.sum(normalized) }
