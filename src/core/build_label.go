package core

import (
	"fmt"
	"regexp"
	"strings"

	logger "github.com/please-build/xcodegen/src/cli/logging"
)

var log = logger.Log

// A BuildLabel is the canonical identifier of one build rule, eg. //spam/eggs:ham
// corresponds to BuildLabel{PackageName: "spam/eggs", Name: "ham"}.
// Labels are always absolute; value equality is identity.
type BuildLabel struct {
	PackageName string
	Name        string
}

const packagePart = "[A-Za-z0-9\\._\\+-]+"
const packageName = "(" + packagePart + "(?:/" + packagePart + ")*)"
const targetName = "([A-Za-z0-9\\._\\+-]+)"

// Fully specified labels, e.g. //src/core:core
var absoluteTarget = regexp.MustCompile(fmt.Sprintf("^//(?:%s)?:%s$", packageName, targetName))

// Targets with an implicit target name, e.g. //src/core (expands to //src/core:core)
var implicitTarget = regexp.MustCompile(fmt.Sprintf("^//(?:%s/)?(%s)$", packageName, packagePart))

func (label BuildLabel) String() string {
	return "//" + label.PackageName + ":" + label.Name
}

// NewBuildLabel constructs a new build label from the given components. Panics on failure.
func NewBuildLabel(pkgName, name string) BuildLabel {
	label, err := TryParseBuildLabel("//" + pkgName + ":" + name)
	if err != nil {
		panic(err)
	}
	return label
}

// ParseBuildLabel parses a single build label from a string. Panics on failure.
func ParseBuildLabel(target string) BuildLabel {
	label, err := TryParseBuildLabel(target)
	if err != nil {
		panic(err)
	}
	return label
}

// TryParseBuildLabel attempts to parse a single build label from a string.
func TryParseBuildLabel(target string) (BuildLabel, error) {
	if matches := absoluteTarget.FindStringSubmatch(target); matches != nil {
		return BuildLabel{PackageName: matches[1], Name: matches[2]}, nil
	}
	if matches := implicitTarget.FindStringSubmatch(target); matches != nil {
		if matches[1] != "" {
			return BuildLabel{PackageName: matches[1] + "/" + matches[2], Name: matches[2]}, nil
		}
		return BuildLabel{PackageName: matches[2], Name: matches[2]}, nil
	}
	return BuildLabel{}, fmt.Errorf("Invalid build label: %s", target)
}

// Less defines a total order over build labels, by package then name.
func (label BuildLabel) Less(that BuildLabel) bool {
	if label.PackageName == that.PackageName {
		return label.Name < that.Name
	}
	return label.PackageName < that.PackageName
}

// FullName returns a filesystem-safe fully qualified form of the label,
// eg. //spam/eggs:ham becomes spam_eggs_ham.
func (label BuildLabel) FullName() string {
	name := label.PackageName + "_" + label.Name
	name = strings.ReplaceAll(name, "/", "_")
	return strings.TrimLeft(name, "_")
}

// UnmarshalFlag unmarshals a build label from a command line flag. Implementation of flags.Unmarshaler interface.
func (label *BuildLabel) UnmarshalFlag(value string) error {
	l, err := TryParseBuildLabel(value)
	if err != nil {
		// This has to be fatal because of the way we're using the flags package;
		// we lose incoming flags if we return errors.
		log.Fatalf("%s", err)
	}
	*label = l
	return nil
}

// LooksLikeABuildLabel returns true if the string appears to be a build label, false if not.
func LooksLikeABuildLabel(str string) bool {
	return strings.HasPrefix(str, "//") || strings.HasPrefix(str, ":")
}

// Make slices of these guys sortable.
type BuildLabels []BuildLabel

func (slice BuildLabels) Len() int {
	return len(slice)
}
func (slice BuildLabels) Less(i, j int) bool {
	return slice[i].Less(slice[j])
}
func (slice BuildLabels) Swap(i, j int) {
	slice[i], slice[j] = slice[j], slice[i]
}
