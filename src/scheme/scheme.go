// Package scheme models Xcode's xcscheme documents; the run/debug/test
// configurations bound to generated targets. The format is fixed by Xcode,
// so the structs here mirror it rather than redesigning it.
package scheme

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
)

// Launch styles for the launch action.
const (
	// LaunchStyleNormal launches the runnable directly.
	LaunchStyleNormal = "0"
	// LaunchStyleExtension waits for the host to launch the extension.
	LaunchStyleExtension = "2"
)

// Debugger / launcher identifiers Xcode understands.
const (
	DebuggerLLDB     = "Xcode.DebuggerFoundation.Debugger.LLDB"
	LauncherLLDB     = "Xcode.DebuggerFoundation.Launcher.LLDB"
	LauncherPOSIX    = "Xcode.IDEFoundation.Launcher.PosixSpawn"
	DebuggingDefault = "default"
	DebuggingRemote  = "remote"
)

// A BuildableReference points one action at a target in the project.
type BuildableReference struct {
	XMLName             xml.Name `xml:"BuildableReference"`
	BuildableIdentifier string   `xml:"BuildableIdentifier,attr"`
	BlueprintIdentifier string   `xml:"BlueprintIdentifier,attr"`
	BuildableName       string   `xml:"BuildableName,attr"`
	BlueprintName       string   `xml:"BlueprintName,attr"`
	ReferencedContainer string   `xml:"ReferencedContainer,attr"`
}

// NewBuildableReference points at the named target inside the given container.
func NewBuildableReference(targetName, targetGID, container string) BuildableReference {
	return BuildableReference{
		BuildableIdentifier: "primary",
		BlueprintIdentifier: targetGID,
		BuildableName:       targetName,
		BlueprintName:       targetName,
		ReferencedContainer: "container:" + container,
	}
}

type BuildActionEntry struct {
	XMLName            xml.Name `xml:"BuildActionEntry"`
	BuildForTesting    string   `xml:"buildForTesting,attr"`
	BuildForRunning    string   `xml:"buildForRunning,attr"`
	BuildForProfiling  string   `xml:"buildForProfiling,attr"`
	BuildForArchiving  string   `xml:"buildForArchiving,attr"`
	BuildForAnalyzing  string   `xml:"buildForAnalyzing,attr"`
	BuildableReference BuildableReference
}

func newBuildActionEntry(ref BuildableReference) BuildActionEntry {
	return BuildActionEntry{
		BuildForTesting:    "YES",
		BuildForRunning:    "YES",
		BuildForProfiling:  "YES",
		BuildForArchiving:  "YES",
		BuildForAnalyzing:  "YES",
		BuildableReference: ref,
	}
}

type ExecutionAction struct {
	XMLName       xml.Name      `xml:"ExecutionAction"`
	ActionType    string        `xml:"ActionType,attr"`
	ActionContent ActionContent `xml:"ActionContent"`
}

type ActionContent struct {
	Title      string `xml:"title,attr"`
	ScriptText string `xml:"scriptText,attr"`
}

// NewShellScriptAction wraps a script into a pre/post execution action.
func NewShellScriptAction(title, script string) ExecutionAction {
	return ExecutionAction{
		ActionType:    "Xcode.IDEStandardExecutionActionsCore.ExecutionActionType.ShellScriptAction",
		ActionContent: ActionContent{Title: title, ScriptText: script},
	}
}

type BuildAction struct {
	XMLName                   xml.Name           `xml:"BuildAction"`
	ParallelizeBuildables     string             `xml:"parallelizeBuildables,attr"`
	BuildImplicitDependencies string             `xml:"buildImplicitDependencies,attr"`
	PreActions                []ExecutionAction  `xml:"PreActions>ExecutionAction,omitempty"`
	PostActions               []ExecutionAction  `xml:"PostActions>ExecutionAction,omitempty"`
	Entries                   []BuildActionEntry `xml:"BuildActionEntries>BuildActionEntry"`
}

type TestableReference struct {
	XMLName            xml.Name `xml:"TestableReference"`
	Skipped            string   `xml:"skipped,attr"`
	BuildableReference BuildableReference
}

type TestAction struct {
	XMLName                      xml.Name            `xml:"TestAction"`
	BuildConfiguration           string              `xml:"buildConfiguration,attr"`
	SelectedDebuggerIdentifier   string              `xml:"selectedDebuggerIdentifier,attr"`
	SelectedLauncherIdentifier   string              `xml:"selectedLauncherIdentifier,attr"`
	ShouldUseLaunchSchemeArgsEnv string              `xml:"shouldUseLaunchSchemeArgsEnv,attr"`
	Testables                    []TestableReference `xml:"Testables>TestableReference,omitempty"`
	MacroExpansion               *MacroExpansion     `xml:"MacroExpansion,omitempty"`
}

type MacroExpansion struct {
	BuildableReference BuildableReference
}

type CommandLineArgument struct {
	XMLName   xml.Name `xml:"CommandLineArgument"`
	Argument  string   `xml:"argument,attr"`
	IsEnabled string   `xml:"isEnabled,attr"`
}

type EnvironmentVariable struct {
	XMLName   xml.Name `xml:"EnvironmentVariable"`
	Key       string   `xml:"key,attr"`
	Value     string   `xml:"value,attr"`
	IsEnabled string   `xml:"isEnabled,attr"`
}

type LaunchAction struct {
	XMLName                        xml.Name              `xml:"LaunchAction"`
	BuildConfiguration             string                `xml:"buildConfiguration,attr"`
	SelectedDebuggerIdentifier     string                `xml:"selectedDebuggerIdentifier,attr"`
	SelectedLauncherIdentifier     string                `xml:"selectedLauncherIdentifier,attr"`
	LaunchStyle                    string                `xml:"launchStyle,attr"`
	DebuggingMode                  string                `xml:"debuggingMode,attr"`
	AskForAppToLaunch              string                `xml:"askForAppToLaunch,attr,omitempty"`
	UseCustomWorkingDirectory      string                `xml:"useCustomWorkingDirectory,attr"`
	IgnoresPersistentStateOnLaunch string                `xml:"ignoresPersistentStateOnLaunch,attr"`
	DebugDocumentVersioning        string                `xml:"debugDocumentVersioning,attr"`
	ExtensionPointIdentifier       string                `xml:"launchAutomaticallySubstyle,attr,omitempty"`
	Runnable                       *BuildableProductRunnable
	CommandLineArguments           []CommandLineArgument `xml:"CommandLineArguments>CommandLineArgument,omitempty"`
	EnvironmentVariables           []EnvironmentVariable `xml:"EnvironmentVariables>EnvironmentVariable,omitempty"`
}

type BuildableProductRunnable struct {
	XMLName               xml.Name `xml:"BuildableProductRunnable"`
	RunnableDebuggingMode string   `xml:"runnableDebuggingMode,attr"`
	BuildableReference    BuildableReference
}

type ProfileAction struct {
	XMLName                      xml.Name `xml:"ProfileAction"`
	BuildConfiguration           string   `xml:"buildConfiguration,attr"`
	ShouldUseLaunchSchemeArgsEnv string   `xml:"shouldUseLaunchSchemeArgsEnv,attr"`
	SavedToolIdentifier          string   `xml:"savedToolIdentifier,attr"`
	UseCustomWorkingDirectory    string   `xml:"useCustomWorkingDirectory,attr"`
	DebugDocumentVersioning      string   `xml:"debugDocumentVersioning,attr"`
}

type AnalyzeAction struct {
	XMLName            xml.Name `xml:"AnalyzeAction"`
	BuildConfiguration string   `xml:"buildConfiguration,attr"`
}

type ArchiveAction struct {
	XMLName                  xml.Name `xml:"ArchiveAction"`
	BuildConfiguration       string   `xml:"buildConfiguration,attr"`
	RevealArchiveInOrganizer string   `xml:"revealArchiveInOrganizer,attr"`
}

// A Scheme is one complete run/debug/test configuration document.
type Scheme struct {
	XMLName            xml.Name `xml:"Scheme"`
	LastUpgradeVersion string   `xml:"LastUpgradeVersion,attr"`
	Version            string   `xml:"version,attr"`
	BuildAction        BuildAction
	TestAction         TestAction
	LaunchAction       LaunchAction
	ProfileAction      ProfileAction
	AnalyzeAction      AnalyzeAction
	ArchiveAction      ArchiveAction
}

// Options configure scheme construction for one target.
type Options struct {
	// LaunchStyle is one of the LaunchStyle constants above.
	LaunchStyle string
	// DebuggingMode is DebuggingDefault or DebuggingRemote.
	DebuggingMode string
	// ExtensionPointIdentifier is carried through for app extensions.
	ExtensionPointIdentifier string
	// Arguments / Environment come from caller-supplied per-target options.
	Arguments   []string
	Environment map[string]string
	// PreActionScript / PostActionScript wrap the build action.
	PreActionScript  string
	PostActionScript string
	// AdditionalBuildTargets are built before the primary target; for an
	// extension this carries its host.
	AdditionalBuildTargets []BuildableReference
}

// NewScheme builds a scheme for the given primary target.
func NewScheme(primary BuildableReference, opts Options) *Scheme {
	entries := []BuildActionEntry{newBuildActionEntry(primary)}
	for _, extra := range opts.AdditionalBuildTargets {
		entries = append(entries, newBuildActionEntry(extra))
	}
	build := BuildAction{
		ParallelizeBuildables:     "YES",
		BuildImplicitDependencies: "YES",
		Entries:                   entries,
	}
	if opts.PreActionScript != "" {
		build.PreActions = []ExecutionAction{NewShellScriptAction("Pre-build", opts.PreActionScript)}
	}
	if opts.PostActionScript != "" {
		build.PostActions = []ExecutionAction{NewShellScriptAction("Post-build", opts.PostActionScript)}
	}
	launchStyle := opts.LaunchStyle
	if launchStyle == "" {
		launchStyle = LaunchStyleNormal
	}
	debuggingMode := opts.DebuggingMode
	if debuggingMode == "" {
		debuggingMode = DebuggingDefault
	}
	launch := LaunchAction{
		BuildConfiguration:             "Debug",
		SelectedDebuggerIdentifier:     DebuggerLLDB,
		SelectedLauncherIdentifier:     LauncherLLDB,
		LaunchStyle:                    launchStyle,
		DebuggingMode:                  debuggingMode,
		UseCustomWorkingDirectory:      "NO",
		IgnoresPersistentStateOnLaunch: "NO",
		DebugDocumentVersioning:        "YES",
		Runnable: &BuildableProductRunnable{
			RunnableDebuggingMode: runnableDebuggingMode(debuggingMode),
			BuildableReference:    primary,
		},
	}
	if launchStyle == LaunchStyleExtension {
		launch.AskForAppToLaunch = "YES"
		launch.ExtensionPointIdentifier = opts.ExtensionPointIdentifier
	}
	for _, arg := range opts.Arguments {
		launch.CommandLineArguments = append(launch.CommandLineArguments, CommandLineArgument{Argument: arg, IsEnabled: "YES"})
	}
	launch.EnvironmentVariables = environmentVariables(opts.Environment)
	return &Scheme{
		LastUpgradeVersion: "1000",
		Version:            "1.3",
		BuildAction:        build,
		TestAction: TestAction{
			BuildConfiguration:           "Debug",
			SelectedDebuggerIdentifier:   DebuggerLLDB,
			SelectedLauncherIdentifier:   LauncherLLDB,
			ShouldUseLaunchSchemeArgsEnv: "YES",
		},
		LaunchAction: launch,
		ProfileAction: ProfileAction{
			BuildConfiguration:           "Release",
			ShouldUseLaunchSchemeArgsEnv: "YES",
			UseCustomWorkingDirectory:    "NO",
			DebugDocumentVersioning:      "YES",
		},
		AnalyzeAction: AnalyzeAction{BuildConfiguration: "Debug"},
		ArchiveAction: ArchiveAction{BuildConfiguration: "Release", RevealArchiveInOrganizer: "YES"},
	}
}

// NewTestSuiteScheme builds an aggregated scheme testing all the given
// members, hosted by the given host target.
func NewTestSuiteScheme(host BuildableReference, members []BuildableReference) *Scheme {
	s := NewScheme(host, Options{})
	for _, member := range members {
		s.TestAction.Testables = append(s.TestAction.Testables, TestableReference{
			Skipped:            "NO",
			BuildableReference: member,
		})
		s.BuildAction.Entries = append(s.BuildAction.Entries, newBuildActionEntry(member))
	}
	return s
}

func runnableDebuggingMode(debuggingMode string) string {
	if debuggingMode == DebuggingRemote {
		return "2"
	}
	return "0"
}

func environmentVariables(env map[string]string) []EnvironmentVariable {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	vars := make([]EnvironmentVariable, len(keys))
	for i, k := range keys {
		vars[i] = EnvironmentVariable{Key: k, Value: env[k], IsEnabled: "YES"}
	}
	return vars
}

// WriteXML writes the scheme document to the given writer.
func (s *Scheme) WriteXML(w io.Writer) error {
	if _, err := fmt.Fprint(w, xml.Header); err != nil {
		return err
	}
	content, err := xml.MarshalIndent(s, "", "   ")
	if err != nil {
		return err
	}
	_, err = w.Write(content)
	return err
}
