// Package install copies the fixed support-file tree into the generated
// bundle and writes the small settings documents Xcode expects to find there.
package install

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"

	logger "github.com/please-build/xcodegen/src/cli/logging"
	"github.com/please-build/xcodegen/src/core"
	"github.com/please-build/xcodegen/src/fs"
)

var log = logger.Log

// sharedWorkspaceSettings is the fixed-key shared settings document. Turning
// off autocreated schemes matters; we generate all schemes ourselves.
const sharedWorkspaceSettings = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>BuildSystemType</key>
	<string>Original</string>
	<key>IDEWorkspaceSharedSettings_AutocreateContextsIfNeeded</key>
	<false/>
</dict>
</plist>
`

// userWorkspaceSettings is the per-user settings document.
const userWorkspaceSettings = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>LiveSourceIssuesEnabled</key>
	<true/>
</dict>
</plist>
`

// extensionPlistTemplate is the stub property list for one app extension;
// the extension point identifier is substituted at the marked key.
const extensionPlistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>NSExtension</key>
	<dict>
		<key>NSExtensionPointIdentifier</key>
		<string>%EXTENSION_POINT_IDENTIFIER%</string>
	</dict>
</dict>
</plist>
`

// Install writes the settings documents, copies the support tree and stamps
// the per-extension stub property lists. Individual failures are collected
// and returned together; none of them is fatal to the run.
func Install(config *core.Configuration, layout core.Layout, bundleDir string, entries []*core.RuleEntry) error {
	var merr *multierror.Error
	report := func(err error) {
		if err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	report(fs.WriteFileAtomic(layout.SharedWorkspaceSettingsPath(bundleDir), []byte(sharedWorkspaceSettings), 0644))
	if user := config.Project.User; user != "" {
		report(fs.WriteFileAtomic(layout.UserWorkspaceSettingsPath(bundleDir, user), []byte(userWorkspaceSettings), 0644))
	}

	if supportDir := config.Build.SupportDir; supportDir != "" {
		dest := layout.SupportScriptsDir(bundleDir)
		if err := fs.RecursiveCopy(supportDir, dest); err != nil {
			report(fmt.Errorf("can't install support files from %s: %w", supportDir, err))
		} else {
			log.Info("Installed support files (%s)", humanize.Bytes(treeSize(dest)))
		}
	}

	report(installExecRootMarker(layout, bundleDir))
	report(installConfigSnapshot(layout, bundleDir, core.ConfigFileName, layout.ConfigSnapshotName))
	report(installConfigSnapshot(layout, bundleDir, core.LocalConfigFileName, layout.UserConfigSnapshotName))

	for _, entry := range entries {
		if !entry.IsExtension() {
			continue
		}
		plist := strings.ReplaceAll(extensionPlistTemplate, "%EXTENSION_POINT_IDENTIFIER%", entry.Attribute(core.AttrExtensionPointIdentifier))
		filename := filepath.Join(bundleDir, "StubInfoPlists", entry.Label.FullName()+"-Info.plist")
		report(fs.WriteFileAtomic(filename, []byte(plist), 0644))
	}
	return merr.ErrorOrNil()
}

// installExecRootMarker caches where generation last ran from so the install
// scripts can find the build execution root without re-querying.
func installExecRootMarker(layout core.Layout, bundleDir string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	return fs.WriteFileAtomic(filepath.Join(bundleDir, layout.ExecRootMarkerName), []byte(wd+"\n"), 0644)
}

// installConfigSnapshot copies a config file into the bundle if it exists.
func installConfigSnapshot(layout core.Layout, bundleDir, source, destName string) error {
	if _, err := os.Stat(source); os.IsNotExist(err) {
		return nil
	}
	return fs.CopyFile(source, filepath.Join(bundleDir, destName), 0644)
}

func treeSize(dir string) uint64 {
	var total uint64
	filepath.Walk(dir, func(name string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			total += uint64(info.Size())
		}
		return nil
	})
	return total
}
