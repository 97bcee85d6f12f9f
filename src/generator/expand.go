package generator

import (
	logger "github.com/please-build/xcodegen/src/cli/logging"
	"github.com/please-build/xcodegen/src/core"
	"github.com/please-build/xcodegen/src/query"
)

var log = logger.Log

// An Expansion is the result of expanding the requested labels over the
// extension and test-suite relations.
type Expansion struct {
	// Targets is the buildable target set, closed under the extension relation.
	Targets *core.TargetSet
	// Suites maps each test suite encountered to its entry; suites are not
	// themselves buildable but their schemes are synthesized later.
	Suites map[core.BuildLabel]*core.RuleEntry
	// Unresolved are labels that had no entries in the rule graph.
	Unresolved core.BuildLabels
}

// Expand computes the transitive closure of the requested labels.
// A test suite contributes its members rather than itself; any other rule
// contributes itself plus, recursively, its extensions. Labels that fail to
// resolve are recorded and warned about but don't stop the expansion.
// Expansion is idempotent and visits each label at most once, so cyclic
// extension graphs terminate.
func Expand(entries core.RuleEntryMap, requested core.BuildLabels, notifier query.Notifier) *Expansion {
	e := &expander{
		entries:  entries,
		notifier: notifier,
		result: &Expansion{
			Targets: core.NewTargetSet(),
			Suites:  map[core.BuildLabel]*core.RuleEntry{},
		},
		visited: map[core.BuildLabel]struct{}{},
	}
	for _, label := range requested {
		e.expand(label)
	}
	return e.result
}

type expander struct {
	entries  core.RuleEntryMap
	notifier query.Notifier
	result   *Expansion
	visited  map[core.BuildLabel]struct{}
}

func (e *expander) expand(label core.BuildLabel) {
	if _, present := e.visited[label]; present {
		return // Already expanded; rediscovery is a no-op.
	}
	e.visited[label] = struct{}{}
	entry := e.entries.Preferred(label)
	if entry == nil {
		e.result.Unresolved = append(e.result.Unresolved, label)
		e.notifier.Emit(query.Message{
			Key:      "generator.unresolved_target",
			Template: "Target %s could not be resolved; skipping",
			Values:   []interface{}{label},
			Severity: query.Warning,
		})
		return
	}
	if entry.IsTestSuite() {
		// The suite itself is not buildable; record it for scheme synthesis
		// and expand its members in its place.
		e.result.Suites[label] = entry
		for _, member := range entry.SuiteMembers {
			e.expand(member)
		}
		return
	}
	e.result.Targets.Add(label)
	// Extensions may themselves have extensions (app -> watch app -> watch
	// extension), so recurse rather than just appending.
	for _, ext := range entry.Extensions {
		e.expand(ext)
	}
}
