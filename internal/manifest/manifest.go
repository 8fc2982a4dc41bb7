package manifest

import (
	"fmt"
	"sync"

	"github.com/hanpama/wiregraph/internal/identity"
	"github.com/hanpama/wiregraph/internal/language"
)

// Format selects how a resolved manifest is serialized. The zero value
// Unset means the configuration did not request a format at all, which is
// distinct from an explicit None.
type Format int

const (
	Unset Format = iota
	None
	OperationList
	PersistedQueryMap
)

func (f Format) String() string {
	switch f {
	case None:
		return "none"
	case OperationList:
		return "operation-list"
	case PersistedQueryMap:
		return "persisted-query-map"
	default:
		return "unset"
	}
}

// ParseFormat maps a configuration string to a Format. The empty string
// parses to Unset so callers can pass flag values through unchanged.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "":
		return Unset, nil
	case "none":
		return None, nil
	case "operation-list":
		return OperationList, nil
	case "persisted-query-map":
		return PersistedQueryMap, nil
	default:
		return Unset, fmt.Errorf("unknown manifest format %q (want none, operation-list or persisted-query-map)", s)
	}
}

// Entry is one operation in a manifest. On input to Resolve the Identity
// field is ignored and Document holds the text as declared; on a resolved
// manifest Identity is filled in and Document holds the normalized text.
type Entry struct {
	Identity identity.Identity
	Name     string
	Type     language.Operation
	Document string
}

// Manifest is the resolved, ordered set of operations for one compilation
// unit.
//
// Invariants and boundaries:
//   - Entries keep source-declaration order regardless of how identity
//     computation was scheduled.
//   - Identities are unique: entries whose normalized text collides are
//     collapsed, and colliding digests over differing text never resolve.
//   - Identities are present under every format, None included; the format
//     only governs what Render emits.
type Manifest struct {
	Format  Format
	Entries []Entry
}

// Config carries the manifest-relevant slice of the compiler configuration.
type Config struct {
	// Format is the explicitly requested serialization format, Unset when
	// the configuration left it out.
	Format Format
	// LegacyOperationList is the old single-boolean generation flag. It
	// only participates in defaulting and conflicts with an explicit
	// manifest-producing Format.
	LegacyOperationList bool
	// Engine caches digests across calls. Nil means a private engine.
	Engine *identity.Engine
	// Algorithm defaults to identity.SHA256.
	Algorithm identity.Algorithm
}

// EffectiveFormat applies the defaulting policy: an explicit format wins,
// an absent one falls back to None unless the legacy flag asks for the
// list format. An explicit manifest-producing format combined with the
// legacy flag is a conflict, not an override. Callers that want the
// conflict surfaced before other work can invoke this directly.
func EffectiveFormat(cfg Config) (Format, error) {
	if cfg.Format == Unset {
		if cfg.LegacyOperationList {
			return OperationList, nil
		}
		return None, nil
	}
	if cfg.Format != None && cfg.LegacyOperationList {
		return Unset, &ConfigurationConflictError{Format: cfg.Format}
	}
	return cfg.Format, nil
}

type identified struct {
	id         identity.Identity
	normalized string
	err        error
}

// Resolve computes one identity per entry and merges the results into a
// Manifest. Configuration conflicts surface before any identity work.
// Identity computation runs per entry in parallel; aggregation, duplicate
// detection and error reporting follow declaration order so the outcome is
// reproducible across runs.
func Resolve(entries []Entry, cfg Config) (*Manifest, error) {
	format, err := EffectiveFormat(cfg)
	if err != nil {
		return nil, err
	}
	engine := cfg.Engine
	if engine == nil {
		engine = identity.NewEngine()
	}
	alg := cfg.Algorithm
	if alg == nil {
		alg = identity.SHA256
	}

	results := make([]identified, len(entries))
	run := func(i int) {
		normalized, err := identity.Normalize(entries[i].Document)
		if err != nil {
			results[i] = identified{err: err}
			return
		}
		id, err := engine.Identify(entries[i].Document, alg)
		results[i] = identified{id: id, normalized: normalized, err: err}
	}

	if len(entries) > 1 {
		var wg sync.WaitGroup
		wg.Add(len(entries))
		for i := range entries {
			i := i // capture
			go func() {
				defer wg.Done()
				run(i)
			}()
		}
		wg.Wait()
	} else {
		for i := range entries {
			run(i)
		}
	}

	m := &Manifest{Format: format}
	byDigest := make(map[string]int, len(entries))
	for i, entry := range entries {
		res := results[i]
		if res.err != nil {
			return nil, fmt.Errorf("operation %q: %w", entry.Name, res.err)
		}
		if at, ok := byDigest[res.id.Digest]; ok {
			kept := m.Entries[at]
			if kept.Document != res.normalized {
				return nil, &DuplicateIdentityError{
					Digest: res.id.Digest,
					Names:  []string{kept.Name, entry.Name},
				}
			}
			// Same digest, same normalized text: one record suffices.
			continue
		}
		byDigest[res.id.Digest] = len(m.Entries)
		m.Entries = append(m.Entries, Entry{
			Identity: res.id,
			Name:     entry.Name,
			Type:     entry.Type,
			Document: res.normalized,
		})
	}
	return m, nil
}
