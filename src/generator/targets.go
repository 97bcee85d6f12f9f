package generator

import (
	"path"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/please-build/xcodegen/src/core"
	"github.com/please-build/xcodegen/src/query"
	"github.com/please-build/xcodegen/src/xcodeproj"
)

// indexerPrefix names the synthetic code-intelligence targets.
const indexerPrefix = "_idx_"

// GeneratedProjectInfo is the output bundle of one generation run.
// It is immutable once Generate returns it.
type GeneratedProjectInfo struct {
	// Project is the full object graph.
	Project *xcodeproj.Project
	// Entries are the rule entries actually materialized as build targets.
	Entries []*core.RuleEntry
	// Suites maps each test suite label to its entry.
	Suites map[core.BuildLabel]*core.RuleEntry
	// Targets maps generated target name to target.
	Targets map[string]xcodeproj.XcodeTarget
	// TargetNames maps a rule's label to its generated build target name.
	TargetNames map[core.BuildLabel]string
	// Hosts maps an extension's label to the host that declared it.
	Hosts map[core.BuildLabel]core.BuildLabel
}

// TargetFor returns the build target generated for a label, or nil.
func (info *GeneratedProjectInfo) TargetFor(label core.BuildLabel) xcodeproj.XcodeTarget {
	if name, present := info.TargetNames[label]; present {
		return info.Targets[name]
	}
	return nil
}

type targetGenerator struct {
	entries  core.RuleEntryMap
	config   *core.Configuration
	options  *core.TargetOptions
	project  *xcodeproj.Project
	notifier query.Notifier
	memo     *lru.Cache[core.BuildLabel, []string]
	info     *GeneratedProjectInfo
	// hostEdges records, in discovery order, each extension -> host
	// relationship found while gathering indexer sources.
	hostEdges []hostEdge
}

type hostEdge struct {
	extension core.BuildLabel
	host      core.BuildLabel
}

func newTargetGenerator(entries core.RuleEntryMap, config *core.Configuration, options *core.TargetOptions, project *xcodeproj.Project, notifier query.Notifier) *targetGenerator {
	size := config.Generator.IndexerMemoSize
	if size <= 0 {
		size = 1024
	}
	memo, _ := lru.New[core.BuildLabel, []string](size)
	return &targetGenerator{
		entries:  entries,
		config:   config,
		options:  options,
		project:  project,
		notifier: notifier,
		memo:     memo,
		info: &GeneratedProjectInfo{
			Project:     project,
			Suites:      map[core.BuildLabel]*core.RuleEntry{},
			Targets:     map[string]xcodeproj.XcodeTarget{},
			TargetNames: map[core.BuildLabel]string{},
			Hosts:       map[core.BuildLabel]core.BuildLabel{},
		},
	}
}

// GenerateIndexerTargets walks the expanded set and creates one synthetic
// indexer target per distinct source-gathering unit.
func (g *targetGenerator) GenerateIndexerTargets(expanded *core.TargetSet) {
	for _, label := range expanded.Labels() {
		entry := g.entries.Preferred(label)
		if entry == nil {
			continue // Warned about during expansion.
		}
		if entry.IsExtension() || entry.IsTest() {
			// Tests are hosted the same way extensions are; both need their
			// host recovered later if it wasn't requested.
			for _, host := range entry.LinkedHosts {
				g.hostEdges = append(g.hostEdges, hostEdge{extension: label, host: host})
				if _, present := g.info.Hosts[label]; !present {
					g.info.Hosts[label] = host
				}
			}
		}
		name := indexerPrefix + entry.Label.Name
		if g.project.Target(name) != nil {
			// Another package's rule took the short name; qualify ours the same
			// way build targets do so these sources still get indexed.
			name = indexerPrefix + entry.Label.FullName()
			if g.project.Target(name) != nil {
				continue
			}
		}
		searchPaths, _ := g.searchPaths(entry, map[core.BuildLabel]struct{}{})
		sources := g.sourceReferences(entry)
		if len(sources) == 0 {
			continue // Nothing to index.
		}
		settings := map[string]string{
			"PRODUCT_NAME": name,
		}
		if len(searchPaths) > 0 {
			settings["HEADER_SEARCH_PATHS"] = strings.Join(searchPaths, " ")
			settings["FRAMEWORK_SEARCH_PATHS"] = strings.Join(searchPaths, " ")
		}
		target := &xcodeproj.NativeTarget{
			Name:        name,
			ProductType: "com.apple.product-type.library.static",
			Sources:     sources,
			Configs:     xcodeproj.NewConfigurationList(settings),
		}
		if err := g.project.AddTarget(target); err != nil {
			log.Warning("Skipping indexer target for %s: %s", label, err)
			continue
		}
		g.info.Targets[name] = target
	}
}

// searchPaths accumulates the transitive preprocessor / framework search
// paths for one entry: its own, then its extensions' and hosts', in
// discovery order without duplicates. Complete results are memoized per
// label with a bounded cache to keep peak memory in check on large graphs;
// a result truncated by a cycle is incomplete from another starting point,
// so those are never cached.
func (g *targetGenerator) searchPaths(entry *core.RuleEntry, visiting map[core.BuildLabel]struct{}) (paths []string, truncated bool) {
	if paths, present := g.memo.Get(entry.Label); present {
		return paths, false
	}
	if _, present := visiting[entry.Label]; present {
		return nil, true // Cycle; the first visit owns these paths.
	}
	visiting[entry.Label] = struct{}{}
	defer delete(visiting, entry.Label)

	seen := map[string]struct{}{}
	var ordered []string
	add := func(p string) {
		if p == "" {
			return
		}
		if _, present := seen[p]; !present {
			seen[p] = struct{}{}
			ordered = append(ordered, p)
		}
	}
	for _, p := range strings.Fields(entry.Attribute(core.AttrIncludes)) {
		add(p)
	}
	for _, p := range strings.Fields(entry.Attribute(core.AttrFrameworkSearchPaths)) {
		add(p)
	}
	deps := append(append(core.BuildLabels{}, entry.Extensions...), entry.LinkedHosts...)
	for _, dep := range deps {
		if depEntry := g.entries.Preferred(dep); depEntry != nil {
			depPaths, depTruncated := g.searchPaths(depEntry, visiting)
			truncated = truncated || depTruncated
			for _, p := range depPaths {
				add(p)
			}
		}
	}
	if !truncated {
		g.memo.Add(entry.Label, ordered)
	}
	return ordered, truncated
}

// sourceReferences returns file references for the entry's sources, filed
// into the group tree by package.
func (g *targetGenerator) sourceReferences(entry *core.RuleEntry) []*xcodeproj.FileReference {
	srcs := strings.Fields(entry.Attribute("srcs"))
	if len(srcs) == 0 {
		return nil
	}
	group := g.groupForPackage(entry.Label.PackageName)
	refs := make([]*xcodeproj.FileReference, 0, len(srcs))
	for _, src := range srcs {
		full := path.Join(entry.Label.PackageName, src)
		refs = append(refs, group.AddFileReference(&xcodeproj.FileReference{
			Name:        path.Base(src),
			Path:        full,
			SourceTree:  xcodeproj.SourceTreeRoot,
			IsInputFile: true,
		}))
	}
	return refs
}

// AddBuildFileReferences files the build definition files covering the
// generated targets into the group tree, so they are editable in the project
// alongside the sources they define.
func (g *targetGenerator) AddBuildFileReferences(files []string) {
	for _, file := range files {
		pkg := path.Dir(file)
		if pkg == "." {
			pkg = ""
		}
		g.groupForPackage(pkg).AddFileReference(&xcodeproj.FileReference{
			Name:        path.Base(file),
			Path:        file,
			SourceTree:  xcodeproj.SourceTreeRoot,
			IsInputFile: true,
		})
	}
}

func (g *targetGenerator) groupForPackage(pkg string) *xcodeproj.Group {
	group := g.project.MainGroup
	if pkg == "" {
		return group
	}
	for _, component := range strings.Split(pkg, "/") {
		group = group.ChildGroup(component)
	}
	return group
}

// GenerateBuildTargets creates one real build target per entry in the
// expanded set, then recovers hosts referenced by extensions but never
// requested themselves.
func (g *targetGenerator) GenerateBuildTargets(expanded *core.TargetSet) {
	for _, label := range expanded.Labels() {
		if entry := g.entries.Preferred(label); entry != nil {
			g.buildTarget(entry)
		}
	}
	// Host recovery: an extension can't launch without its host, so pull in
	// hosts the caller didn't ask for. Unresolvable ones were already warned
	// about, so they're silently skipped here.
	for _, edge := range g.hostEdges {
		if expanded.Contains(edge.host) {
			continue
		}
		if _, present := g.info.TargetNames[edge.host]; present {
			continue
		}
		if entry := g.entries.Preferred(edge.host); entry != nil {
			g.buildTarget(entry)
		}
	}
	g.wireHostDependencies()
}

func (g *targetGenerator) buildTarget(entry *core.RuleEntry) {
	if _, present := g.info.TargetNames[entry.Label]; present {
		return
	}
	name := entry.Label.Name
	if g.project.Target(name) != nil {
		name = entry.Label.FullName()
	}
	args := append([]string{"build"}, g.config.Build.Options...)
	args = append(args, entry.Label.String())
	settings := map[string]string{"PRODUCT_NAME": name}
	if entry.SDK != "" {
		settings["SDKROOT"] = entry.SDK
	}
	if opt := g.options.Get(entry.Label); opt != nil {
		for k, v := range opt.BuildSettings {
			settings[k] = v
		}
	}
	target := &xcodeproj.LegacyTarget{
		Name:             name,
		BuildToolPath:    g.config.Build.Tool,
		BuildArguments:   strings.Join(args, " "),
		WorkingDirectory: "$(SRCROOT)",
		Configs:          xcodeproj.NewConfigurationList(settings),
		Product:          g.productReference(entry),
	}
	if err := g.project.AddTarget(target); err != nil {
		log.Warning("Skipping build target for %s: %s", entry.Label, err)
		return
	}
	g.info.Targets[name] = target
	g.info.TargetNames[entry.Label] = name
	g.info.Entries = append(g.info.Entries, entry)
}

// productReference files the artifact the build produces under the Products
// group. These are the "not an input file" references the artifact folder
// planner later derives its directory set from.
func (g *targetGenerator) productReference(entry *core.RuleEntry) *xcodeproj.FileReference {
	artifact := entry.Attribute(core.AttrBinaryName)
	if artifact == "" {
		artifact = entry.Label.Name
	}
	artifact += productExtension(entry)
	products := g.project.MainGroup.ChildGroup("Products")
	return products.AddFileReference(&xcodeproj.FileReference{
		Name:        artifact,
		Path:        path.Join("build-output", entry.Label.PackageName, artifact),
		SourceTree:  xcodeproj.SourceTreeRoot,
		FileType:    "wrapper.application",
		IsInputFile: false,
	})
}

func productExtension(entry *core.RuleEntry) string {
	switch {
	case entry.IsExtension():
		return ".appex"
	case entry.IsTest():
		return ".xctest"
	case entry.IsApplication() || entry.IsWatchApp():
		return ".app"
	}
	return ""
}

// wireHostDependencies adds the extension -> host cross-references to the
// object graph once both ends exist.
func (g *targetGenerator) wireHostDependencies() {
	for _, edge := range g.hostEdges {
		ext, _ := g.info.TargetFor(edge.extension).(*xcodeproj.LegacyTarget)
		host := g.info.TargetFor(edge.host)
		if ext != nil && host != nil {
			ext.AddDependency(host)
		}
	}
}
