package scheme

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, s *Scheme) string {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, s.WriteXML(buf))
	return buf.String()
}

func ref(name string) BuildableReference {
	return NewBuildableReference(name, "0123456789ABCDEF01234567", "Test.xcodeproj")
}

func TestNormalScheme(t *testing.T) {
	out := render(t, NewScheme(ref("app"), Options{}))
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `launchStyle="0"`)
	assert.Contains(t, out, `debuggingMode="default"`)
	assert.Contains(t, out, `BlueprintName="app"`)
	assert.Contains(t, out, `ReferencedContainer="container:Test.xcodeproj"`)
	assert.NotContains(t, out, "askForAppToLaunch")
}

func TestExtensionScheme(t *testing.T) {
	out := render(t, NewScheme(ref("ext"), Options{
		LaunchStyle:              LaunchStyleExtension,
		ExtensionPointIdentifier: "com.apple.widget-extension",
		AdditionalBuildTargets:   []BuildableReference{ref("app")},
	}))
	assert.Contains(t, out, `launchStyle="2"`)
	assert.Contains(t, out, `askForAppToLaunch="YES"`)
	assert.Contains(t, out, `launchAutomaticallySubstyle="com.apple.widget-extension"`)
	// Both the extension and its host are in the build action.
	assert.Contains(t, out, `BlueprintName="ext"`)
	assert.Contains(t, out, `BlueprintName="app"`)
}

func TestRemoteDebuggingScheme(t *testing.T) {
	out := render(t, NewScheme(ref("watch"), Options{DebuggingMode: DebuggingRemote}))
	assert.Contains(t, out, `debuggingMode="remote"`)
	assert.Contains(t, out, `runnableDebuggingMode="2"`)
}

func TestArgumentsEnvironmentAndActions(t *testing.T) {
	out := render(t, NewScheme(ref("app"), Options{
		Arguments:        []string{"--flag", "value"},
		Environment:      map[string]string{"B": "2", "A": "1"},
		PreActionScript:  "echo pre",
		PostActionScript: "echo post",
	}))
	assert.Contains(t, out, `argument="--flag"`)
	assert.Contains(t, out, `key="A"`)
	// Environment variables come out in key order.
	assert.Less(t, strings.Index(out, `key="A"`), strings.Index(out, `key="B"`))
	assert.Contains(t, out, `scriptText="echo pre"`)
	assert.Contains(t, out, `scriptText="echo post"`)
}

func TestTestSuiteScheme(t *testing.T) {
	out := render(t, NewTestSuiteScheme(ref("host"), []BuildableReference{ref("t1"), ref("t2")}))
	assert.Contains(t, out, "<TestableReference")
	assert.Contains(t, out, `BlueprintName="t1"`)
	assert.Contains(t, out, `BlueprintName="t2"`)
	assert.Contains(t, out, `BlueprintName="host"`)
}
