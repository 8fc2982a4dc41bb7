package manifest

import (
	"fmt"
	"strings"
)

// ConfigurationConflictError reports two configuration paths that both
// request manifest generation. It is returned before any identity work
// so a misconfigured build never produces a partial artifact.
type ConfigurationConflictError struct {
	Format Format
}

func (e *ConfigurationConflictError) Error() string {
	return fmt.Sprintf("manifest format %q and the legacy operation-list flag are mutually exclusive", e.Format)
}

// DuplicateIdentityError reports two operations that share a digest but
// differ after normalization. Identical normalized text is not an error
// and collapses into one manifest record instead.
type DuplicateIdentityError struct {
	Digest string
	Names  []string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("operations %s share identity %s but differ after normalization", strings.Join(e.Names, ", "), e.Digest)
}
