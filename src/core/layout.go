package core

import (
	"path/filepath"
)

// A Layout holds the fixed file names and subdirectory structure of the
// generated bundle. It is built once and passed into the pipeline; nothing
// mutates it afterwards.
type Layout struct {
	// ProjectFileName is the serialized object graph, normally project.pbxproj.
	ProjectFileName string
	// WorkspaceDirName is the embedded workspace dir, normally project.xcworkspace.
	WorkspaceDirName string
	// SharedDataDirName is the shared-settings subdir, normally xcshareddata.
	SharedDataDirName string
	// UserDataDirName is the per-user settings subdir, normally xcuserdata.
	UserDataDirName string
	// SchemesDirName is the schemes subdir under shared data, normally xcschemes.
	SchemesDirName string
	// WorkspaceSettingsFileName is the settings document name in both shared and user dirs.
	WorkspaceSettingsFileName string
	// SupportScriptsDirName holds the installed scripts, normally .tulsi/Scripts equivalent.
	SupportScriptsDirName string
	// ConfigSnapshotName / UserConfigSnapshotName are the generator config snapshots.
	ConfigSnapshotName     string
	UserConfigSnapshotName string
	// ExecRootMarkerName caches the build execution root path.
	ExecRootMarkerName string
	// ReservedDirNames are workspace directory names the bundle must never be
	// generated into; matched case-insensitively.
	ReservedDirNames []string
}

// DefaultLayout returns the standard bundle layout.
func DefaultLayout() Layout {
	return Layout{
		ProjectFileName:           "project.pbxproj",
		WorkspaceDirName:          "project.xcworkspace",
		SharedDataDirName:         "xcshareddata",
		UserDataDirName:           "xcuserdata",
		SchemesDirName:            "xcschemes",
		WorkspaceSettingsFileName: "WorkspaceSettings.xcsettings",
		SupportScriptsDirName:     "Scripts",
		ConfigSnapshotName:        "config.xcodegenconf",
		UserConfigSnapshotName:    "config.xcodegenconf.user",
		ExecRootMarkerName:        ".exec_root",
		ReservedDirNames:          []string{"bazel-bin", "bazel-out", "bazel-genfiles", "bazel-testlogs", "plz-out"},
	}
}

// BundleDir returns the bundle root for the given output dir and project name.
func (l Layout) BundleDir(outputDir, projectName string) string {
	return filepath.Join(outputDir, projectName+".xcodeproj")
}

// ProjectFilePath returns the path of the serialized project file.
func (l Layout) ProjectFilePath(bundleDir string) string {
	return filepath.Join(bundleDir, l.ProjectFileName)
}

// SharedSchemesDir returns the directory scheme files are written into.
func (l Layout) SharedSchemesDir(bundleDir string) string {
	return filepath.Join(bundleDir, l.SharedDataDirName, l.SchemesDirName)
}

// SharedWorkspaceSettingsPath returns the shared workspace settings document path.
func (l Layout) SharedWorkspaceSettingsPath(bundleDir string) string {
	return filepath.Join(bundleDir, l.WorkspaceDirName, l.SharedDataDirName, l.WorkspaceSettingsFileName)
}

// UserWorkspaceSettingsPath returns the per-user workspace settings document path.
func (l Layout) UserWorkspaceSettingsPath(bundleDir, user string) string {
	return filepath.Join(bundleDir, l.WorkspaceDirName, l.UserDataDirName, user+".xcuserdatad", l.WorkspaceSettingsFileName)
}

// SupportScriptsDir returns where the support scripts get installed.
func (l Layout) SupportScriptsDir(bundleDir string) string {
	return filepath.Join(bundleDir, l.SupportScriptsDirName)
}
