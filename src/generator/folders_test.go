package generator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/please-build/xcodegen/src/xcodeproj"
)

func projectWithArtifacts(paths ...string) *xcodeproj.Project {
	p := xcodeproj.NewProject("Test", nil)
	products := p.MainGroup.ChildGroup("Products")
	for _, path := range paths {
		products.AddFileReference(&xcodeproj.FileReference{
			Name:       filepath.Base(path),
			Path:       path,
			SourceTree: xcodeproj.SourceTreeRoot,
		})
	}
	return p
}

func TestPlanCollapsesAncestors(t *testing.T) {
	p := projectWithArtifacts(
		"out/app/App.app",
		"out/app/deep/Ext.appex",
		"out/tests/Tests.xctest",
	)
	folders := PlanArtifactFolders(p)
	assert.Equal(t, []string{"out/app/deep", "out/tests"}, folders)
	// No emitted path may be an ancestor of another.
	for _, a := range folders {
		for _, b := range folders {
			if a != b {
				assert.False(t, strings.HasPrefix(b, a+"/"))
			}
		}
	}
}

func TestPlanIgnoresInputFiles(t *testing.T) {
	p := xcodeproj.NewProject("Test", nil)
	p.MainGroup.AddFileReference(&xcodeproj.FileReference{
		Name:        "main.m",
		Path:        "src/main.m",
		IsInputFile: true,
	})
	assert.Empty(t, PlanArtifactFolders(p))
}

func TestPlanIgnoresTopLevelArtifacts(t *testing.T) {
	p := projectWithArtifacts("App.app")
	assert.Empty(t, PlanArtifactFolders(p))
}

func TestCreateArtifactFolders(t *testing.T) {
	root := t.TempDir()
	p := projectWithArtifacts("out/app/App.app", "out/tests/Tests.xctest")
	require.NoError(t, CreateArtifactFolders(root, PlanArtifactFolders(p)))
	for _, dir := range []string{"out/app", "out/tests"} {
		info, err := os.Stat(filepath.Join(root, dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestCreateArtifactFoldersCollectsFailures(t *testing.T) {
	root := t.TempDir()
	// Make a file where a directory needs to be nested under; EnsureDir can
	// replace a file at the exact path but not a file used as a parent.
	require.NoError(t, os.WriteFile(filepath.Join(root, "blocked"), []byte("x"), 0644))
	p := projectWithArtifacts("blocked/sub/App.app", "ok/App.app")
	err := CreateArtifactFolders(root, PlanArtifactFolders(p))
	assert.Error(t, err)
	// The healthy directory is still created.
	info, statErr := os.Stat(filepath.Join(root, "ok"))
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}
