package generator

import (
	"github.com/please-build/xcodegen/src/core"
	"github.com/please-build/xcodegen/src/query"
)

// recordingNotifier captures emitted messages so tests can assert on them.
type recordingNotifier struct {
	messages []query.Message
}

func (n *recordingNotifier) Emit(m query.Message) {
	n.messages = append(n.messages, m)
}

func (n *recordingNotifier) StartSpan(name string) query.SpanToken { return 0 }
func (n *recordingNotifier) EndSpan(token query.SpanToken)         {}

func (n *recordingNotifier) warnings() []query.Message {
	var ret []query.Message
	for _, m := range n.messages {
		if m.Severity == query.Warning {
			ret = append(ret, m)
		}
	}
	return ret
}

func (n *recordingNotifier) warningsWithKey(key string) []query.Message {
	var ret []query.Message
	for _, m := range n.warnings() {
		if m.Key == key {
			ret = append(ret, m)
		}
	}
	return ret
}

// fakeGraph is a map-backed RuleGraph for pipeline tests.
type fakeGraph struct {
	entries    core.RuleEntryMap
	buildFiles []string
	err        error
}

func (g *fakeGraph) Resolve(labels []core.BuildLabel, opts query.ResolveOptions) (core.RuleEntryMap, error) {
	return g.entries, g.err
}

func (g *fakeGraph) ExtractBuildFiles(labels []core.BuildLabel) ([]string, error) {
	return g.buildFiles, nil
}

func (g *fakeGraph) HasQueuedMessages() bool        { return false }
func (g *fakeGraph) DrainMessages() []query.Message { return nil }

func label(s string) core.BuildLabel {
	return core.ParseBuildLabel(s)
}

func app(s string, extensions ...string) *core.RuleEntry {
	return &core.RuleEntry{
		Type:       "ios_application",
		Label:      label(s),
		SDK:        SDKiPhoneOS,
		Extensions: labels(extensions),
		Attributes: map[string]string{"srcs": "main.m"},
	}
}

func watchApp(s string, extensions ...string) *core.RuleEntry {
	return &core.RuleEntry{
		Type:       "watchos_application",
		Label:      label(s),
		SDK:        SDKWatchOS,
		Extensions: labels(extensions),
		Attributes: map[string]string{"srcs": "watch.m"},
	}
}

func extension(s, host string) *core.RuleEntry {
	return &core.RuleEntry{
		Type:        "ios_extension",
		Label:       label(s),
		SDK:         SDKiPhoneOS,
		LinkedHosts: core.BuildLabels{label(host)},
		Attributes: map[string]string{
			"srcs":                            "ext.m",
			core.AttrExtensionPointIdentifier: "com.apple.widget-extension",
		},
	}
}

func test(s, host string) *core.RuleEntry {
	return &core.RuleEntry{
		Type:        "ios_unit_test",
		Label:       label(s),
		SDK:         SDKiPhoneOS,
		LinkedHosts: core.BuildLabels{label(host)},
		Attributes:  map[string]string{"srcs": "test.m"},
	}
}

func suite(s string, members ...string) *core.RuleEntry {
	return &core.RuleEntry{
		Type:         core.RuleTestSuite,
		Label:        label(s),
		SuiteMembers: labels(members),
	}
}

func labels(strs []string) core.BuildLabels {
	var ret core.BuildLabels
	for _, s := range strs {
		ret = append(ret, label(s))
	}
	return ret
}

func entryMap(entries ...*core.RuleEntry) core.RuleEntryMap {
	m := core.RuleEntryMap{}
	for _, entry := range entries {
		m.Add(entry)
	}
	return m
}
