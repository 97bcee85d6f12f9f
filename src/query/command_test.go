package query

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/please-build/xcodegen/src/core"
)

// fakeTool writes a shell script that plays the part of the build tool.
func fakeTool(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test tool stub requires a shell")
	}
	name := filepath.Join(t.TempDir(), "fake-tool")
	require.NoError(t, os.WriteFile(name, []byte("#!/bin/sh\n"+script), 0755))
	return name
}

func TestResolveDecodesEntries(t *testing.T) {
	tool := fakeTool(t, `cat <<EOF
{"type": "ios_application", "label": "//app:app", "sdk": "iphoneos", "extensions": ["//app:widget"]}
{"type": "ios_extension", "label": "//app:widget", "attributes": {"ext_point_id": "com.apple.widget-extension"}}
EOF`)
	g := NewCommandGraph(tool, nil)
	entries, err := g.Resolve([]core.BuildLabel{{PackageName: "app", Name: "app"}}, ResolveOptions{})
	require.NoError(t, err)

	app := entries.Preferred(core.BuildLabel{PackageName: "app", Name: "app"})
	require.NotNil(t, app)
	assert.Equal(t, "ios_application", app.Type)
	assert.Equal(t, "iphoneos", app.SDK)
	require.Len(t, app.Extensions, 1)
	assert.Equal(t, "//app:widget", app.Extensions[0].String())

	widget := entries.Preferred(core.BuildLabel{PackageName: "app", Name: "widget"})
	require.NotNil(t, widget)
	assert.Equal(t, "com.apple.widget-extension", widget.Attribute(core.AttrExtensionPointIdentifier))
}

func TestResolveQueuesStderrMessages(t *testing.T) {
	tool := fakeTool(t, `echo "Loading packages..." >&2
echo '{"type": "ios_application", "label": "//app:app"}'`)
	g := NewCommandGraph(tool, nil)
	_, err := g.Resolve(nil, ResolveOptions{})
	require.NoError(t, err)

	require.True(t, g.HasQueuedMessages())
	msgs := g.DrainMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "query.stderr", msgs[0].Key)
	assert.Equal(t, "Loading packages...", msgs[0].String())
	assert.False(t, g.HasQueuedMessages())
}

func TestResolveToolFailure(t *testing.T) {
	tool := fakeTool(t, "exit 1")
	g := NewCommandGraph(tool, nil)
	_, err := g.Resolve(nil, ResolveOptions{})
	assert.Error(t, err)
}

func TestResolveBadJSON(t *testing.T) {
	tool := fakeTool(t, "echo 'not json'")
	g := NewCommandGraph(tool, nil)
	_, err := g.Resolve(nil, ResolveOptions{})
	assert.Error(t, err)
}

func TestExtractBuildFiles(t *testing.T) {
	tool := fakeTool(t, `echo "app/BUILD"
echo ""
echo "lib/BUILD"`)
	g := NewCommandGraph(tool, nil)
	files, err := g.ExtractBuildFiles([]core.BuildLabel{{PackageName: "app", Name: "app"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"app/BUILD", "lib/BUILD"}, files)
}
