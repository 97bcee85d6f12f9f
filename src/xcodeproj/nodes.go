// Package xcodeproj models the generated project's object graph and
// serializes it to the pbxproj format. Nodes carry no identity of their own;
// identifiers are assigned by the serializer when the graph is written out.
package xcodeproj

import (
	"fmt"
)

// Source tree roots for file references.
const (
	SourceTreeGroup    = "<group>"
	SourceTreeRoot     = "SOURCE_ROOT"
	SourceTreeBuiltDir = "BUILT_PRODUCTS_DIR"
)

// A FileReference is one file in the project, either a workspace source file
// or an artifact the build is expected to produce.
type FileReference struct {
	Name       string
	Path       string
	SourceTree string
	// FileType is the explicit Xcode file type, if known.
	FileType string
	// IsInputFile is true for files read from the workspace; false means the
	// file is produced by the build and its directory may not exist yet.
	IsInputFile bool
}

// A Group is a named container of groups and file references.
type Group struct {
	Name     string
	Groups   []*Group
	Files    []*FileReference
	children map[string]*Group
}

// NewGroup returns a new empty group.
func NewGroup(name string) *Group {
	return &Group{Name: name, children: map[string]*Group{}}
}

// ChildGroup returns the named child group, creating it if needed.
func (g *Group) ChildGroup(name string) *Group {
	if child, present := g.children[name]; present {
		return child
	}
	child := NewGroup(name)
	g.children[name] = child
	g.Groups = append(g.Groups, child)
	return child
}

// AddFileReference adds a file reference to this group, deduplicating by path.
func (g *Group) AddFileReference(ref *FileReference) *FileReference {
	for _, existing := range g.Files {
		if existing.Path == ref.Path {
			return existing
		}
	}
	g.Files = append(g.Files, ref)
	return ref
}

// A BuildConfiguration is one named flat settings map.
type BuildConfiguration struct {
	Name     string
	Settings map[string]string
}

// A ConfigurationList holds a target's (or the project's) configurations.
type ConfigurationList struct {
	Configurations []*BuildConfiguration
	DefaultName    string
}

// NewConfigurationList builds the standard Debug/Release pair over one settings map.
func NewConfigurationList(settings map[string]string) *ConfigurationList {
	debug := map[string]string{}
	release := map[string]string{}
	for k, v := range settings {
		debug[k] = v
		release[k] = v
	}
	return &ConfigurationList{
		Configurations: []*BuildConfiguration{
			{Name: "Debug", Settings: debug},
			{Name: "Release", Settings: release},
		},
		DefaultName: "Debug",
	}
}

// An XcodeTarget is either a real build target or a synthetic indexer target.
type XcodeTarget interface {
	TargetName() string
	ConfigurationList() *ConfigurationList
	TargetDependencies() []XcodeTarget
}

// A NativeTarget is a synthetic target that compiles sources purely so the
// editor's code intelligence can see them; it is never built for real.
type NativeTarget struct {
	Name         string
	ProductType  string
	Sources      []*FileReference
	Configs      *ConfigurationList
	Dependencies []XcodeTarget
}

func (t *NativeTarget) TargetName() string                    { return t.Name }
func (t *NativeTarget) ConfigurationList() *ConfigurationList { return t.Configs }
func (t *NativeTarget) TargetDependencies() []XcodeTarget     { return t.Dependencies }

// A LegacyTarget shells out to the build tool to produce its artifact.
type LegacyTarget struct {
	Name             string
	BuildToolPath    string
	BuildArguments   string
	WorkingDirectory string
	Configs          *ConfigurationList
	Dependencies     []XcodeTarget
	// Product is the artifact the build tool produces, if known.
	Product *FileReference
}

func (t *LegacyTarget) TargetName() string                    { return t.Name }
func (t *LegacyTarget) ConfigurationList() *ConfigurationList { return t.Configs }
func (t *LegacyTarget) TargetDependencies() []XcodeTarget     { return t.Dependencies }

// AddDependency records that this target must be built after the other one.
func (t *LegacyTarget) AddDependency(other XcodeTarget) {
	for _, dep := range t.Dependencies {
		if dep == other {
			return
		}
	}
	t.Dependencies = append(t.Dependencies, other)
}

// A Project is the root of the object graph.
type Project struct {
	Name      string
	MainGroup *Group
	Configs   *ConfigurationList
	targets   []XcodeTarget
	byName    map[string]XcodeTarget
}

// NewProject returns a new empty project with the given project-wide settings.
func NewProject(name string, settings map[string]string) *Project {
	return &Project{
		Name:      name,
		MainGroup: NewGroup("mainGroup"),
		Configs:   NewConfigurationList(settings),
		byName:    map[string]XcodeTarget{},
	}
}

// AddTarget registers a target with the project. Target names must be unique.
func (p *Project) AddTarget(t XcodeTarget) error {
	if _, present := p.byName[t.TargetName()]; present {
		return fmt.Errorf("duplicate target name: %s", t.TargetName())
	}
	p.byName[t.TargetName()] = t
	p.targets = append(p.targets, t)
	return nil
}

// Target returns the named target, or nil.
func (p *Project) Target(name string) XcodeTarget {
	return p.byName[name]
}

// Targets returns all targets in registration order.
func (p *Project) Targets() []XcodeTarget {
	return p.targets
}
