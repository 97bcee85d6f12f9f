package generator

import (
	"bytes"
	"path/filepath"
	"sort"

	"github.com/please-build/xcodegen/src/core"
	"github.com/please-build/xcodegen/src/fs"
	"github.com/please-build/xcodegen/src/query"
	"github.com/please-build/xcodegen/src/scheme"
)

type schemeSynthesizer struct {
	info      *GeneratedProjectInfo
	entries   core.RuleEntryMap
	options   *core.TargetOptions
	notifier  query.Notifier
	gids      map[string]string
	container string
	dir       string
}

// SynthesizeSchemes writes one scheme per generated target plus one per test
// suite with at least one valid member. Individual failures degrade only
// that scheme; the rest of the run continues.
func SynthesizeSchemes(info *GeneratedProjectInfo, entries core.RuleEntryMap, options *core.TargetOptions, notifier query.Notifier, container, dir string) {
	s := &schemeSynthesizer{
		info:      info,
		entries:   entries,
		options:   options,
		notifier:  notifier,
		gids:      info.Project.TargetGIDs(),
		container: container,
		dir:       dir,
	}
	for _, entry := range info.Entries {
		s.targetScheme(entry)
	}
	s.suiteSchemes()
}

func (s *schemeSynthesizer) reference(targetName string) scheme.BuildableReference {
	return scheme.NewBuildableReference(targetName, s.gids[targetName], s.container)
}

func (s *schemeSynthesizer) warn(key, template string, values ...interface{}) {
	s.notifier.Emit(query.Message{Key: key, Template: template, Values: values, Severity: query.Warning})
}

func (s *schemeSynthesizer) targetScheme(entry *core.RuleEntry) {
	name := s.info.TargetNames[entry.Label]
	opts := scheme.Options{}
	switch {
	case entry.IsExtension():
		// An extension is launched by its host, so the host has to build too.
		host, resolved := s.resolveHost(entry.Label)
		if !resolved {
			s.warn("generator.unresolved_host", "No resolvable host for extension %s; skipping its scheme", entry.Label)
			return
		}
		opts.LaunchStyle = scheme.LaunchStyleExtension
		opts.ExtensionPointIdentifier = entry.Attribute(core.AttrExtensionPointIdentifier)
		opts.AdditionalBuildTargets = []scheme.BuildableReference{s.reference(host)}
	case entry.IsWatchApp():
		// The watch app can't be launched by the generating device directly.
		opts.DebuggingMode = scheme.DebuggingRemote
	}
	args, err := s.options.Arguments(entry.Label)
	if err != nil {
		s.warn("generator.bad_arguments", "Can't parse command line arguments for %s: %s", entry.Label, err)
	}
	opts.Arguments = args
	opts.Environment = s.options.Environment(entry.Label)
	if opt := s.options.Get(entry.Label); opt != nil {
		opts.PreActionScript = opt.PreActionScript
		opts.PostActionScript = opt.PostActionScript
	}
	s.write(name+".xcscheme", scheme.NewScheme(s.reference(name), opts))
}

// resolveHost returns the generated target name of the given extension's host.
func (s *schemeSynthesizer) resolveHost(extension core.BuildLabel) (string, bool) {
	hostLabel, present := s.info.Hosts[extension]
	if !present {
		return "", false
	}
	name, present := s.info.TargetNames[hostLabel]
	return name, present
}

func (s *schemeSynthesizer) suiteSchemes() {
	// Suites sharing a short name get fully qualified file names instead.
	shortNames := map[string]int{}
	labels := make(core.BuildLabels, 0, len(s.info.Suites))
	for label := range s.info.Suites {
		shortNames[label.Name]++
		labels = append(labels, label)
	}
	sort.Sort(labels)
	for _, label := range labels {
		name := label.Name
		if shortNames[label.Name] > 1 {
			name = label.FullName()
		}
		s.suiteScheme(label, s.info.Suites[label], name)
	}
}

func (s *schemeSynthesizer) suiteScheme(label core.BuildLabel, suite *core.RuleEntry, name string) {
	members := s.suiteMembers(suite, map[core.BuildLabel]struct{}{})
	hostName := ""
	var refs []scheme.BuildableReference
	for _, member := range members {
		targetName, present := s.info.TargetNames[member.Label]
		if !present {
			s.warn("generator.suite_unresolved_member", "Test suite %s member %s did not resolve to a target; skipping it", label, member.Label)
			continue
		}
		if member.IsApplication() {
			s.warn("generator.suite_non_test_member", "Test suite %s member %s is not a test; skipping it", label, member.Label)
			continue
		}
		memberHost, resolved := s.memberHost(member)
		if !resolved {
			s.warn("generator.suite_unresolved_host", "No resolvable test host for %s in suite %s; skipping it", member.Label, label)
			continue
		}
		if hostName == "" {
			// First resolved member's host hosts the whole suite.
			hostName = memberHost
		}
		refs = append(refs, s.reference(targetName))
	}
	if len(refs) == 0 {
		s.warn("generator.empty_suite", "Test suite %s has no valid members; not generating a scheme for it", label)
		return
	}
	s.write(name+"_Suite.xcscheme", scheme.NewTestSuiteScheme(s.reference(hostName), refs))
}

// suiteMembers extracts the leaf test members; nested suites are recursed
// into rather than included themselves.
func (s *schemeSynthesizer) suiteMembers(suite *core.RuleEntry, visiting map[core.BuildLabel]struct{}) []*core.RuleEntry {
	if _, present := visiting[suite.Label]; present {
		return nil
	}
	visiting[suite.Label] = struct{}{}
	var members []*core.RuleEntry
	for _, label := range suite.SuiteMembers {
		entry := s.entries.Preferred(label)
		if entry == nil {
			s.warn("generator.suite_unresolved_member", "Test suite %s member %s could not be resolved; skipping it", suite.Label, label)
			continue
		}
		if entry.IsTestSuite() {
			members = append(members, s.suiteMembers(entry, visiting)...)
		} else {
			members = append(members, entry)
		}
	}
	return members
}

// memberHost returns the generated target name of a test's host target.
func (s *schemeSynthesizer) memberHost(member *core.RuleEntry) (string, bool) {
	for _, host := range member.LinkedHosts {
		if name, present := s.info.TargetNames[host]; present {
			return name, true
		}
	}
	return "", false
}

func (s *schemeSynthesizer) write(filename string, doc *scheme.Scheme) {
	buf := &bytes.Buffer{}
	if err := doc.WriteXML(buf); err != nil {
		s.warn("generator.scheme_write_failed", "Can't encode scheme %s: %s", filename, err)
		return
	}
	if err := fs.WriteFileAtomic(filepath.Join(s.dir, filename), buf.Bytes(), 0644); err != nil {
		s.warn("generator.scheme_write_failed", "Can't write scheme %s: %s", filename, err)
	}
}
