package core

import (
	"sort"
	"strings"
)

// Rule type tags as they come back from the query aspect.
const (
	RuleTestSuite = "test_suite"
)

// Well-known attribute keys on a RuleEntry.
const (
	AttrExtensionPointIdentifier = "ext_point_id"
	AttrLanguageVersion          = "language_version"
	AttrIncludes                 = "includes"
	AttrFrameworkSearchPaths     = "framework_search_paths"
	AttrBinaryName               = "binary_name"
)

// A RuleEntry is the metadata record for one build rule as returned by the
// rule graph query. It is immutable once returned; nothing in this package
// or its consumers writes to one after construction.
type RuleEntry struct {
	// Type is the rule's type tag, eg. "ios_application" or "test_suite".
	Type string
	// Label identifies the rule.
	Label BuildLabel
	// Config is the build configuration this entry was resolved under.
	// A label can resolve to several entries across configurations.
	Config string
	// Attributes is the rule's attribute mapping.
	Attributes map[string]string
	// Extensions are rules bundled into and launched by this one
	// (eg. a watch app inside a phone app).
	Extensions BuildLabels
	// LinkedHosts are the host rules this one is an extension of.
	LinkedHosts BuildLabels
	// SuiteMembers are the members if this rule is a test suite.
	SuiteMembers BuildLabels
	// SDK is the rule's declared SDK requirement, eg. "iphoneos".
	SDK string
}

// IsTestSuite returns true if this rule aggregates other test rules and is not itself buildable.
func (e *RuleEntry) IsTestSuite() bool {
	return e.Type == RuleTestSuite
}

// IsExtension returns true for app-extension rule kinds.
func (e *RuleEntry) IsExtension() bool {
	return strings.HasSuffix(e.Type, "_extension")
}

// IsWatchApp returns true for watch application rule kinds.
func (e *RuleEntry) IsWatchApp() bool {
	return e.Type == "watchos_application" || e.Type == "watchos2_application"
}

// IsTest returns true for test rule kinds.
func (e *RuleEntry) IsTest() bool {
	return strings.HasSuffix(e.Type, "_test")
}

// IsApplication returns true for plain (non-watch) application rule kinds.
func (e *RuleEntry) IsApplication() bool {
	return strings.HasSuffix(e.Type, "_application") && !e.IsWatchApp()
}

// Attribute returns the named attribute, or the empty string if unset.
func (e *RuleEntry) Attribute(key string) string {
	if e.Attributes == nil {
		return ""
	}
	return e.Attributes[key]
}

// A RuleEntryMap maps a label to the set of entries it resolved to.
// A label may legitimately resolve to zero, one or several entries.
type RuleEntryMap map[BuildLabel][]*RuleEntry

// Add records another entry for its label.
func (m RuleEntryMap) Add(entry *RuleEntry) {
	m[entry.Label] = append(m[entry.Label], entry)
}

// Entries returns all entries for the given label, which may be empty.
func (m RuleEntryMap) Entries(label BuildLabel) []*RuleEntry {
	return m[label]
}

// Preferred returns the single entry callers should use when a label resolves
// ambiguously. The upstream convention was "last one wins" over an unordered
// collection; we make that deterministic by ordering entries by configuration
// key first, so the same inputs always pick the same entry.
func (m RuleEntryMap) Preferred(label BuildLabel) *RuleEntry {
	entries := m[label]
	if len(entries) == 0 {
		return nil
	}
	sorted := make([]*RuleEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Config < sorted[j].Config })
	return sorted[len(sorted)-1]
}

// Labels returns all labels present in the map, sorted.
func (m RuleEntryMap) Labels() BuildLabels {
	ret := make(BuildLabels, 0, len(m))
	for label := range m {
		ret = append(ret, label)
	}
	sort.Sort(ret)
	return ret
}
