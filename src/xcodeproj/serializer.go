package xcodeproj

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// objectVersion is the pbxproj format version we emit; this corresponds to Xcode 9.
const objectVersion = 46

type gidRef struct {
	gid     string
	comment string
}

type field struct {
	key   string
	value interface{} // string, gidRef, []gidRef or map[string]string
}

type pbxObject struct {
	gid     string
	isa     string
	comment string
	fields  []field
}

type serializer struct {
	gids       *GIDGenerator
	objects    []*pbxObject
	groupGIDs  map[*Group]string
	fileGIDs   map[*FileReference]string
	targetGIDs map[XcodeTarget]string
}

// Serialize walks the project graph once, assigns every node a stable
// identifier and writes the pbxproj form. It returns an error if the graph
// is malformed; a group cycle or a dependency on an unregistered target.
func Serialize(p *Project, w io.Writer) error {
	s := &serializer{
		gids:       NewGIDGenerator(),
		groupGIDs:  map[*Group]string{},
		fileGIDs:   map[*FileReference]string{},
		targetGIDs: map[XcodeTarget]string{},
	}
	// Targets need their identifiers up front so dependencies can refer to them.
	for _, target := range p.Targets() {
		s.targetGIDs[target] = s.gids.Generate(isaForTarget(target), "target:"+target.TargetName())
	}
	for _, target := range p.Targets() {
		for _, dep := range target.TargetDependencies() {
			if p.Target(dep.TargetName()) != dep {
				return fmt.Errorf("target %s depends on %s which is not part of the project", target.TargetName(), dep.TargetName())
			}
		}
	}
	mainGroup, err := s.addGroup(p.MainGroup, "", map[*Group]struct{}{})
	if err != nil {
		return err
	}
	for _, target := range p.Targets() {
		s.addTarget(target)
	}
	configs := s.addConfigurationList(p.Configs, "project:"+p.Name)
	projectGID := s.gids.Generate("PBXProject", "project:"+p.Name)
	s.add(&pbxObject{
		gid:     projectGID,
		isa:     "PBXProject",
		comment: "Project object",
		fields: []field{
			{"buildConfigurationList", gidRef{configs, "Build configuration list for PBXProject " + quote(p.Name)}},
			{"compatibilityVersion", "Xcode 3.2"},
			{"mainGroup", gidRef{mainGroup, ""}},
			{"projectDirPath", ""},
			{"projectRoot", ""},
			{"targets", s.targetRefs(p.Targets())},
		},
	})
	return s.write(w, projectGID)
}

func isaForTarget(target XcodeTarget) string {
	if _, ok := target.(*LegacyTarget); ok {
		return "PBXLegacyTarget"
	}
	return "PBXNativeTarget"
}

func (s *serializer) add(obj *pbxObject) string {
	s.objects = append(s.objects, obj)
	return obj.gid
}

func (s *serializer) addGroup(group *Group, path string, visiting map[*Group]struct{}) (string, error) {
	if _, present := visiting[group]; present {
		return "", fmt.Errorf("cycle in group graph at %s", group.Name)
	}
	if gid, present := s.groupGIDs[group]; present {
		return gid, nil
	}
	visiting[group] = struct{}{}
	defer delete(visiting, group)
	path = path + "/" + group.Name
	var children []gidRef
	for _, child := range group.Groups {
		gid, err := s.addGroup(child, path, visiting)
		if err != nil {
			return "", err
		}
		children = append(children, gidRef{gid, child.Name})
	}
	for _, file := range group.Files {
		children = append(children, gidRef{s.addFileReference(file, path), file.Name})
	}
	gid := s.gids.Generate("PBXGroup", "group:"+path)
	s.groupGIDs[group] = gid
	fields := []field{{"children", children}}
	if group.Name != "" {
		fields = append(fields, field{"name", group.Name})
	}
	fields = append(fields, field{"sourceTree", SourceTreeGroup})
	s.add(&pbxObject{gid: gid, isa: "PBXGroup", comment: group.Name, fields: fields})
	return gid, nil
}

func (s *serializer) addFileReference(file *FileReference, path string) string {
	if gid, present := s.fileGIDs[file]; present {
		return gid
	}
	gid := s.gids.Generate("PBXFileReference", "file:"+path+"/"+file.Path)
	s.fileGIDs[file] = gid
	fields := []field{}
	if file.FileType != "" {
		fields = append(fields, field{"explicitFileType", file.FileType})
	}
	if !file.IsInputFile {
		fields = append(fields, field{"includeInIndex", "0"})
	}
	if file.Name != "" && file.Name != file.Path {
		fields = append(fields, field{"name", file.Name})
	}
	fields = append(fields, field{"path", file.Path}, field{"sourceTree", file.SourceTree})
	s.add(&pbxObject{gid: gid, isa: "PBXFileReference", comment: file.Name, fields: fields})
	return gid
}

func (s *serializer) addConfigurationList(list *ConfigurationList, owner string) string {
	var refs []gidRef
	for _, config := range list.Configurations {
		gid := s.gids.Generate("XCBuildConfiguration", "config:"+owner+":"+config.Name)
		s.add(&pbxObject{
			gid:     gid,
			isa:     "XCBuildConfiguration",
			comment: config.Name,
			fields: []field{
				{"buildSettings", config.Settings},
				{"name", config.Name},
			},
		})
		refs = append(refs, gidRef{gid, config.Name})
	}
	gid := s.gids.Generate("XCConfigurationList", "configlist:"+owner)
	s.add(&pbxObject{
		gid:     gid,
		isa:     "XCConfigurationList",
		comment: "Build configuration list for " + owner,
		fields: []field{
			{"buildConfigurations", refs},
			{"defaultConfigurationIsVisible", "0"},
			{"defaultConfigurationName", list.DefaultName},
		},
	})
	return gid
}

func (s *serializer) addTarget(target XcodeTarget) {
	gid := s.targetGIDs[target]
	name := target.TargetName()
	configs := s.addConfigurationList(target.ConfigurationList(), "target:"+name)
	var deps []gidRef
	for _, dep := range target.TargetDependencies() {
		depGID := s.gids.Generate("PBXTargetDependency", "dep:"+name+"->"+dep.TargetName())
		s.add(&pbxObject{
			gid:     depGID,
			isa:     "PBXTargetDependency",
			comment: "PBXTargetDependency",
			fields:  []field{{"target", gidRef{s.targetGIDs[dep], dep.TargetName()}}},
		})
		deps = append(deps, gidRef{depGID, "PBXTargetDependency"})
	}
	switch t := target.(type) {
	case *NativeTarget:
		var files []gidRef
		for _, src := range t.Sources {
			fileGID := s.fileGIDs[src]
			if fileGID == "" {
				fileGID = s.addFileReference(src, "target:"+name)
			}
			buildGID := s.gids.Generate("PBXBuildFile", "buildfile:"+name+":"+src.Path)
			s.add(&pbxObject{
				gid:     buildGID,
				isa:     "PBXBuildFile",
				comment: src.Name + " in Sources",
				fields:  []field{{"fileRef", gidRef{fileGID, src.Name}}},
			})
			files = append(files, gidRef{buildGID, src.Name + " in Sources"})
		}
		phaseGID := s.gids.Generate("PBXSourcesBuildPhase", "sources:"+name)
		s.add(&pbxObject{
			gid:     phaseGID,
			isa:     "PBXSourcesBuildPhase",
			comment: "Sources",
			fields: []field{
				{"buildActionMask", "2147483647"},
				{"files", files},
				{"runOnlyForDeploymentPostprocessing", "0"},
			},
		})
		s.add(&pbxObject{
			gid:     gid,
			isa:     "PBXNativeTarget",
			comment: name,
			fields: []field{
				{"buildConfigurationList", gidRef{configs, "Build configuration list for target:" + name}},
				{"buildPhases", []gidRef{{phaseGID, "Sources"}}},
				{"buildRules", []gidRef{}},
				{"dependencies", deps},
				{"name", name},
				{"productName", name},
				{"productType", t.ProductType},
			},
		})
	case *LegacyTarget:
		s.add(&pbxObject{
			gid:     gid,
			isa:     "PBXLegacyTarget",
			comment: name,
			fields: []field{
				{"buildArgumentsString", t.BuildArguments},
				{"buildConfigurationList", gidRef{configs, "Build configuration list for target:" + name}},
				{"buildPhases", []gidRef{}},
				{"buildToolPath", t.BuildToolPath},
				{"buildWorkingDirectory", t.WorkingDirectory},
				{"dependencies", deps},
				{"name", name},
				{"passBuildSettingsInEnvironment", "1"},
			},
		})
	}
}

func (s *serializer) targetRefs(targets []XcodeTarget) []gidRef {
	refs := make([]gidRef, len(targets))
	for i, target := range targets {
		refs[i] = gidRef{s.targetGIDs[target], target.TargetName()}
	}
	return refs
}

// Anything outside this charset needs quoting in the OpenStep dialect.
var unquotedValue = regexp.MustCompile(`^[A-Za-z0-9_$./]+$`)

var valueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`)

func quote(s string) string {
	if s != "" && unquotedValue.MatchString(s) {
		return s
	}
	return `"` + valueEscaper.Replace(s) + `"`
}

func comment(c string) string {
	if c == "" {
		return ""
	}
	return " /* " + c + " */"
}

func (s *serializer) write(w io.Writer, rootGID string) error {
	buf := &strings.Builder{}
	buf.WriteString("// !$*UTF8*$!\n{\n")
	fmt.Fprintf(buf, "\tarchiveVersion = 1;\n\tclasses = {\n\t};\n\tobjectVersion = %d;\n\tobjects = {\n", objectVersion)

	sections := map[string][]*pbxObject{}
	for _, obj := range s.objects {
		sections[obj.isa] = append(sections[obj.isa], obj)
	}
	isas := make([]string, 0, len(sections))
	for isa := range sections {
		isas = append(isas, isa)
	}
	sort.Strings(isas)
	for _, isa := range isas {
		objs := sections[isa]
		sort.Slice(objs, func(i, j int) bool { return objs[i].gid < objs[j].gid })
		fmt.Fprintf(buf, "\n/* Begin %s section */\n", isa)
		for _, obj := range objs {
			fmt.Fprintf(buf, "\t\t%s%s = {\n\t\t\tisa = %s;\n", obj.gid, comment(obj.comment), isa)
			for _, f := range obj.fields {
				writeField(buf, f)
			}
			buf.WriteString("\t\t};\n")
		}
		fmt.Fprintf(buf, "/* End %s section */\n", isa)
	}
	fmt.Fprintf(buf, "\t};\n\trootObject = %s /* Project object */;\n}\n", rootGID)
	_, err := io.WriteString(w, buf.String())
	return err
}

func writeField(buf *strings.Builder, f field) {
	switch v := f.value.(type) {
	case string:
		fmt.Fprintf(buf, "\t\t\t%s = %s;\n", f.key, quote(v))
	case gidRef:
		fmt.Fprintf(buf, "\t\t\t%s = %s%s;\n", f.key, v.gid, comment(v.comment))
	case []gidRef:
		fmt.Fprintf(buf, "\t\t\t%s = (\n", f.key)
		for _, ref := range v {
			fmt.Fprintf(buf, "\t\t\t\t%s%s,\n", ref.gid, comment(ref.comment))
		}
		buf.WriteString("\t\t\t);\n")
	case map[string]string:
		fmt.Fprintf(buf, "\t\t\t%s = {\n", f.key)
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(buf, "\t\t\t\t%s = %s;\n", quote(k), quote(v[k]))
		}
		buf.WriteString("\t\t\t};\n")
	}
}
