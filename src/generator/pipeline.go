// Package generator contains the project-construction pipeline; the piece
// that turns requested labels plus a queried rule graph into a generated
// Xcode project bundle.
package generator

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/please-build/xcodegen/src/core"
	"github.com/please-build/xcodegen/src/fs"
	"github.com/please-build/xcodegen/src/install"
	"github.com/please-build/xcodegen/src/query"
	"github.com/please-build/xcodegen/src/xcodeproj"
)

// A Generator owns one generation run. Nothing here is shared between
// instances, so independent runs may proceed in parallel as long as their
// output directories are disjoint; callers guarantee that themselves.
type Generator struct {
	Config   *core.Configuration
	Layout   core.Layout
	Graph    query.RuleGraph
	Options  *core.TargetOptions
	Notifier query.Notifier
}

// New returns a Generator over the given collaborators.
func New(config *core.Configuration, layout core.Layout, graph query.RuleGraph, options *core.TargetOptions, notifier query.Notifier) *Generator {
	if options == nil {
		options = core.NewTargetOptions()
	}
	if notifier == nil {
		notifier = query.NewLogNotifier()
	}
	return &Generator{
		Config:   config,
		Layout:   layout,
		Graph:    graph,
		Options:  options,
		Notifier: notifier,
	}
}

// Generate runs the whole pipeline for the requested labels.
// Failures that would make the entire bundle unusable return an error
// immediately; failures that only degrade one target, scheme or resource are
// logged and the rest of the generation proceeds.
func (g *Generator) Generate(requested core.BuildLabels) (*GeneratedProjectInfo, error) {
	if err := g.ValidateOutputPath(g.Config.Project.OutputDir); err != nil {
		return nil, err
	}
	bundleDir := g.Layout.BundleDir(g.Config.Project.OutputDir, g.Config.Project.Name)

	span := g.Notifier.StartSpan("resolve")
	entries, err := g.Graph.Resolve(requested, query.ResolveOptions{BuildOptions: g.Config.Build.Options})
	g.drainMessages()
	g.Notifier.EndSpan(span)
	if err != nil {
		return nil, &AspectError{Err: err}
	}
	// Any requested label the aspect couldn't resolve is fatal, and checked
	// before anything is written so a bad configuration never produces a
	// half-usable bundle.
	var unresolved core.BuildLabels
	for _, label := range requested {
		if len(entries.Entries(label)) == 0 {
			unresolved = append(unresolved, label)
		}
	}
	if len(unresolved) > 0 {
		return nil, &ResolutionError{Labels: unresolved}
	}

	span = g.Notifier.StartSpan("expand")
	expansion := Expand(entries, requested, g.Notifier)
	g.Notifier.EndSpan(span)

	span = g.Notifier.StartSpan("settings")
	expandedEntries := make([]*core.RuleEntry, 0, expansion.Targets.Len())
	for _, label := range expansion.Targets.Labels() {
		if entry := entries.Preferred(label); entry != nil {
			expandedEntries = append(expandedEntries, entry)
		}
	}
	settings := AggregateSettings(expandedEntries, g.Config, nil)
	g.Notifier.EndSpan(span)

	project := xcodeproj.NewProject(g.Config.Project.Name, settings)
	tg := newTargetGenerator(entries, g.Config, g.Options, project, g.Notifier)
	tg.info.Suites = expansion.Suites

	span = g.Notifier.StartSpan("indexer-targets")
	tg.GenerateIndexerTargets(expansion.Targets)
	g.Notifier.EndSpan(span)

	span = g.Notifier.StartSpan("build-targets")
	tg.GenerateBuildTargets(expansion.Targets)
	g.Notifier.EndSpan(span)

	span = g.Notifier.StartSpan("build-files")
	if files, err := g.Graph.ExtractBuildFiles(expansion.Targets.Labels()); err != nil {
		log.Warning("Can't extract build definition files: %s", err)
	} else {
		tg.AddBuildFileReferences(files)
	}
	g.Notifier.EndSpan(span)
	info := tg.info

	span = g.Notifier.StartSpan("serialize")
	buf := &bytes.Buffer{}
	if err := xcodeproj.Serialize(project, buf); err != nil {
		g.Notifier.EndSpan(span)
		return nil, &SerializationError{Err: err}
	}
	if err := fs.WriteFileAtomic(g.Layout.ProjectFilePath(bundleDir), buf.Bytes(), 0644); err != nil {
		g.Notifier.EndSpan(span)
		return nil, &SerializationError{Err: err}
	}
	g.Notifier.EndSpan(span)

	span = g.Notifier.StartSpan("install")
	if err := install.Install(g.Config, g.Layout, bundleDir, info.Entries); err != nil {
		log.Warning("Some support files could not be installed: %s", err)
	}
	g.Notifier.EndSpan(span)

	span = g.Notifier.StartSpan("schemes")
	container := g.Config.Project.Name + ".xcodeproj"
	SynthesizeSchemes(info, entries, g.Options, g.Notifier, container, g.Layout.SharedSchemesDir(bundleDir))
	g.Notifier.EndSpan(span)

	span = g.Notifier.StartSpan("artifact-folders")
	folders := PlanArtifactFolders(project)
	if err := CreateArtifactFolders(g.Config.Project.OutputDir, folders); err != nil {
		log.Warning("Some artifact folders could not be created: %s", err)
	}
	g.Notifier.EndSpan(span)

	return info, nil
}

// ValidateOutputPath rejects output locations considered unsafe. Matching is
// case-insensitive because the filesystems this output typically lands on are.
func (g *Generator) ValidateOutputPath(outputDir string) error {
	if outputDir == "" {
		return &InvalidOutputPathError{Path: outputDir, Reason: "no output directory given"}
	}
	clean := filepath.Clean(outputDir)
	if clean == "." {
		// Generation runs from the workspace root; dumping the bundle straight
		// into it would mix generated output with checked-in sources.
		return &InvalidOutputPathError{Path: outputDir, Reason: "is the workspace root"}
	}
	for _, component := range strings.Split(filepath.ToSlash(clean), "/") {
		for _, reserved := range g.Layout.ReservedDirNames {
			if strings.EqualFold(component, reserved) {
				return &InvalidOutputPathError{Path: outputDir, Reason: "inside reserved directory " + reserved}
			}
		}
		if strings.HasSuffix(strings.ToLower(component), ".xcodeproj") {
			return &InvalidOutputPathError{Path: outputDir, Reason: "inside an existing project bundle"}
		}
	}
	return nil
}

func (g *Generator) drainMessages() {
	if g.Graph.HasQueuedMessages() {
		for _, msg := range g.Graph.DrainMessages() {
			g.Notifier.Emit(msg)
		}
	}
}
