package install

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/please-build/xcodegen/src/core"
)

func read(t *testing.T, filename string) string {
	t.Helper()
	b, err := os.ReadFile(filename)
	require.NoError(t, err)
	return string(b)
}

func TestInstallWritesWorkspaceSettings(t *testing.T) {
	bundleDir := t.TempDir()
	layout := core.DefaultLayout()
	config := core.DefaultConfiguration()
	config.Project.User = "alice"

	require.NoError(t, Install(config, layout, bundleDir, nil))

	shared := read(t, layout.SharedWorkspaceSettingsPath(bundleDir))
	assert.Contains(t, shared, "BuildSystemType")
	assert.Contains(t, shared, "IDEWorkspaceSharedSettings_AutocreateContextsIfNeeded")

	user := read(t, layout.UserWorkspaceSettingsPath(bundleDir, "alice"))
	assert.Contains(t, user, "LiveSourceIssuesEnabled")
}

func TestInstallSkipsUserSettingsWithoutUser(t *testing.T) {
	bundleDir := t.TempDir()
	layout := core.DefaultLayout()
	config := core.DefaultConfiguration()
	config.Project.User = ""

	require.NoError(t, Install(config, layout, bundleDir, nil))

	userDir := filepath.Join(bundleDir, layout.WorkspaceDirName, layout.UserDataDirName)
	_, err := os.Stat(userDir)
	assert.True(t, os.IsNotExist(err))
}

func TestInstallCopiesSupportFiles(t *testing.T) {
	bundleDir := t.TempDir()
	supportDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(supportDir, "build.sh"), []byte("#!/bin/sh\n"), 0755))

	layout := core.DefaultLayout()
	config := core.DefaultConfiguration()
	config.Project.User = ""
	config.Build.SupportDir = supportDir

	require.NoError(t, Install(config, layout, bundleDir, nil))
	assert.FileExists(t, filepath.Join(layout.SupportScriptsDir(bundleDir), "build.sh"))
}

func TestInstallStampsExtensionPlists(t *testing.T) {
	bundleDir := t.TempDir()
	layout := core.DefaultLayout()
	config := core.DefaultConfiguration()
	config.Project.User = ""

	entries := []*core.RuleEntry{
		{
			Type:  "ios_application",
			Label: core.BuildLabel{PackageName: "app", Name: "app"},
		},
		{
			Type:       "ios_extension",
			Label:      core.BuildLabel{PackageName: "app", Name: "widget"},
			Attributes: map[string]string{core.AttrExtensionPointIdentifier: "com.apple.widget-extension"},
		},
	}
	require.NoError(t, Install(config, layout, bundleDir, entries))

	plist := read(t, filepath.Join(bundleDir, "StubInfoPlists", "app_widget-Info.plist"))
	assert.Contains(t, plist, "<string>com.apple.widget-extension</string>")
	// Only extensions get a stub plist.
	files, err := os.ReadDir(filepath.Join(bundleDir, "StubInfoPlists"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestInstallWritesExecRootMarker(t *testing.T) {
	bundleDir := t.TempDir()
	layout := core.DefaultLayout()
	config := core.DefaultConfiguration()
	config.Project.User = ""

	require.NoError(t, Install(config, layout, bundleDir, nil))

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd+"\n", read(t, filepath.Join(bundleDir, layout.ExecRootMarkerName)))
}
