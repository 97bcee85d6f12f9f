// Package query defines the boundary to the rule graph collaborator; the
// thing that actually knows how to interrogate the build system for rule
// metadata. The generator core only ever sees these interfaces.
package query

import (
	"github.com/please-build/xcodegen/src/core"
)

// ResolveOptions alter how the rule graph resolves labels.
type ResolveOptions struct {
	// BuildOptions are extra options passed through to the underlying query.
	BuildOptions []string
	// Configs restricts resolution to the given build configurations; empty means all.
	Configs []string
}

// A RuleGraph answers rule-metadata queries for build labels.
// Implementations are expected to be snapshots: two Resolve calls with the
// same arguments on the same instance return the same entries.
type RuleGraph interface {
	// Resolve returns the rule entries for the given labels. A label missing
	// from the returned map simply failed to resolve; that is not an error.
	// A non-nil error means the query itself failed.
	Resolve(labels []core.BuildLabel, opts ResolveOptions) (core.RuleEntryMap, error)
	// ExtractBuildFiles returns the build definition files covering the given labels.
	ExtractBuildFiles(labels []core.BuildLabel) ([]string, error)
	// HasQueuedMessages returns true if the graph has diagnostics waiting.
	HasQueuedMessages() bool
	// DrainMessages returns and clears any queued diagnostics.
	DrainMessages() []Message
}
