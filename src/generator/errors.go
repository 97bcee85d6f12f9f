package generator

import (
	"fmt"
	"strings"

	"github.com/please-build/xcodegen/src/core"
)

// A SerializationError means the object graph could not be encoded or the
// project file could not be written. The whole run aborts on one of these.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize project: %s", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// An AspectError means the rule graph query itself failed. Fatal.
type AspectError struct {
	Err error
}

func (e *AspectError) Error() string {
	return fmt.Sprintf("rule graph query failed: %s", e.Err)
}

func (e *AspectError) Unwrap() error { return e.Err }

// A ResolutionError means one or more requested labels didn't resolve to any
// rule. Raised before any output is written so a partially-unresolvable
// configuration never produces a broken bundle.
type ResolutionError struct {
	Labels core.BuildLabels
}

func (e *ResolutionError) Error() string {
	strs := make([]string, len(e.Labels))
	for i, label := range e.Labels {
		strs[i] = label.String()
	}
	return fmt.Sprintf("failed to resolve targets: %s", strings.Join(strs, ", "))
}

// An InvalidOutputPathError means the requested output location is unusable.
// Checked before any work begins.
type InvalidOutputPathError struct {
	Path   string
	Reason string
}

func (e *InvalidOutputPathError) Error() string {
	return fmt.Sprintf("invalid output path %s: %s", e.Path, e.Reason)
}
