package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/please-build/xcodegen/src/core"
	"github.com/please-build/xcodegen/src/xcodeproj"
)

func generate(t *testing.T, entries core.RuleEntryMap, requested ...string) (*GeneratedProjectInfo, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	expansion := Expand(entries, labels(requested), n)
	project := xcodeproj.NewProject("Test", nil)
	tg := newTargetGenerator(entries, core.DefaultConfiguration(), core.NewTargetOptions(), project, n)
	tg.info.Suites = expansion.Suites
	tg.GenerateIndexerTargets(expansion.Targets)
	tg.GenerateBuildTargets(expansion.Targets)
	return tg.info, n
}

func TestGeneratesBuildAndIndexerTargets(t *testing.T) {
	info, _ := generate(t, entryMap(app("//app:app")), "//app:app")
	require.Contains(t, info.Targets, "app")
	require.Contains(t, info.Targets, "_idx_app")
	_, isLegacy := info.Targets["app"].(*xcodeproj.LegacyTarget)
	assert.True(t, isLegacy)
	_, isNative := info.Targets["_idx_app"].(*xcodeproj.NativeTarget)
	assert.True(t, isNative)
	assert.Equal(t, "app", info.TargetNames[label("//app:app")])
	assert.Len(t, info.Entries, 1)
}

func TestHostRecovery(t *testing.T) {
	// The extension's host was never requested; it gets pulled in anyway so
	// the extension can launch.
	entries := entryMap(
		app("//app:app", "//app:ext"),
		extension("//app:ext", "//app:app"),
	)
	info, _ := generate(t, entries, "//app:ext")
	assert.Contains(t, info.Targets, "ext")
	assert.Contains(t, info.Targets, "app")
	assert.Equal(t, label("//app:app"), info.Hosts[label("//app:ext")])
}

func TestHostRecoverySkipsUnresolvableHosts(t *testing.T) {
	entries := entryMap(extension("//app:ext", "//app:missing"))
	info, _ := generate(t, entries, "//app:ext")
	assert.Contains(t, info.Targets, "ext")
	assert.NotContains(t, info.TargetNames, label("//app:missing"))
}

func TestExtensionDependsOnHost(t *testing.T) {
	entries := entryMap(
		app("//app:app", "//app:ext"),
		extension("//app:ext", "//app:app"),
	)
	info, _ := generate(t, entries, "//app:app")
	ext := info.Targets["ext"].(*xcodeproj.LegacyTarget)
	require.Len(t, ext.Dependencies, 1)
	assert.Equal(t, "app", ext.Dependencies[0].TargetName())
}

func TestSearchPathPropagation(t *testing.T) {
	host := app("//app:app", "//app:ext")
	host.Attributes[core.AttrIncludes] = "app/includes"
	ext := extension("//app:ext", "//app:app")
	ext.Attributes[core.AttrIncludes] = "ext/includes"
	info, _ := generate(t, entryMap(host, ext), "//app:app")
	idx := info.Targets["_idx_ext"].(*xcodeproj.NativeTarget)
	paths := idx.Configs.Configurations[0].Settings["HEADER_SEARCH_PATHS"]
	// The extension sees its own paths first, then its host's, without dupes.
	assert.Equal(t, "ext/includes app/includes", paths)
}

func TestDuplicateTargetNamesAreQualified(t *testing.T) {
	entries := entryMap(app("//one:app"), app("//two:app"))
	info, _ := generate(t, entries, "//one:app", "//two:app")
	assert.Contains(t, info.Targets, "app")
	assert.Contains(t, info.Targets, "two_app")
}

func TestDuplicateIndexerNamesAreQualified(t *testing.T) {
	entries := entryMap(app("//one:app"), app("//two:app"))
	info, _ := generate(t, entries, "//one:app", "//two:app")
	require.Contains(t, info.Targets, "_idx_app")
	require.Contains(t, info.Targets, "_idx_two_app")
	// Both packages' sources are indexed, not just the first one's.
	first := info.Targets["_idx_app"].(*xcodeproj.NativeTarget)
	second := info.Targets["_idx_two_app"].(*xcodeproj.NativeTarget)
	require.Len(t, first.Sources, 1)
	require.Len(t, second.Sources, 1)
	assert.Equal(t, "one/main.m", first.Sources[0].Path)
	assert.Equal(t, "two/main.m", second.Sources[0].Path)
}

func TestBuildFileReferencesAreFiledByPackage(t *testing.T) {
	info, _ := generate(t, entryMap(app("//app:app")), "//app:app")
	tg := newTargetGenerator(entryMap(app("//app:app")), core.DefaultConfiguration(), core.NewTargetOptions(), info.Project, &recordingNotifier{})
	tg.AddBuildFileReferences([]string{"app/BUILD", "BUILD"})

	var group *xcodeproj.Group
	for _, child := range info.Project.MainGroup.Groups {
		if child.Name == "app" {
			group = child
		}
	}
	require.NotNil(t, group)
	paths := make([]string, len(group.Files))
	for i, file := range group.Files {
		paths[i] = file.Path
		assert.True(t, file.IsInputFile)
	}
	assert.Contains(t, paths, "app/BUILD")
	// The top-level build file lands in the main group itself.
	require.NotEmpty(t, info.Project.MainGroup.Files)
	assert.Equal(t, "BUILD", info.Project.MainGroup.Files[0].Path)
}

func TestBuildTargetShellsOutToBuildTool(t *testing.T) {
	info, _ := generate(t, entryMap(app("//app:app")), "//app:app")
	target := info.Targets["app"].(*xcodeproj.LegacyTarget)
	assert.Equal(t, "bazel", target.BuildToolPath)
	assert.True(t, strings.HasSuffix(target.BuildArguments, "//app:app"))
	require.NotNil(t, target.Product)
	assert.False(t, target.Product.IsInputFile)
	assert.Equal(t, "build-output/app/app.app", target.Product.Path)
}
