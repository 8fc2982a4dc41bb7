package identity

import (
	"sync"

	"github.com/hanpama/wiregraph/internal/language"
)

// Normalize canonicalizes document text so identity stays stable under
// insignificant whitespace, comments and argument ordering. The result
// depends only on the input text.
func Normalize(document string) (string, error) {
	doc, err := language.ParseQuery(document)
	if err != nil {
		return "", err
	}
	return language.PrintDocument(doc), nil
}

// Engine computes operation identities, caching digests per (version,
// normalized text) pair. A cached digest is never served across differing
// version tags, even when the digests would collide.
type Engine struct {
	mu    sync.Mutex
	cache map[cacheKey]string
}

type cacheKey struct {
	version string
	text    string
}

func NewEngine() *Engine {
	return &Engine{cache: make(map[cacheKey]string)}
}

// Identify normalizes the document and digests it with the given algorithm.
func (e *Engine) Identify(document string, alg Algorithm) (Identity, error) {
	normalized, err := Normalize(document)
	if err != nil {
		return Identity{}, err
	}
	version := alg.Version()
	key := cacheKey{version: version, text: normalized}

	e.mu.Lock()
	digest, ok := e.cache[key]
	e.mu.Unlock()
	if !ok {
		digest = alg.Sum(normalized)
		e.mu.Lock()
		e.cache[key] = digest
		e.mu.Unlock()
	}
	return Identity{AlgorithmVersion: version, Digest: digest}, nil
}
