package core

import (
	"strings"

	"github.com/google/shlex"
)

// A TargetOption holds the caller-supplied overrides for one label.
type TargetOption struct {
	// CommandLineArguments is the raw argument string for the target's scheme.
	CommandLineArguments string
	// EnvironmentVariables is a KEY=value per line block for the scheme.
	EnvironmentVariables string
	// PreActionScript / PostActionScript run around the scheme's build action.
	PreActionScript  string
	PostActionScript string
	// BuildSettings are extra per-target build settings.
	BuildSettings map[string]string
}

// TargetOptions maps labels to their caller-supplied overrides.
type TargetOptions struct {
	options map[BuildLabel]*TargetOption
}

// NewTargetOptions returns an empty set of per-target options.
func NewTargetOptions() *TargetOptions {
	return &TargetOptions{options: map[BuildLabel]*TargetOption{}}
}

// Set records the overrides for one label, replacing any previous ones.
func (to *TargetOptions) Set(label BuildLabel, option *TargetOption) {
	to.options[label] = option
}

// Get returns the overrides for one label, or nil if none were supplied.
func (to *TargetOptions) Get(label BuildLabel) *TargetOption {
	if to == nil {
		return nil
	}
	return to.options[label]
}

// Arguments returns the target's command line arguments, split shell-style.
func (to *TargetOptions) Arguments(label BuildLabel) ([]string, error) {
	opt := to.Get(label)
	if opt == nil || opt.CommandLineArguments == "" {
		return nil, nil
	}
	return shlex.Split(opt.CommandLineArguments)
}

// Environment returns the target's environment overrides. Each nonempty line
// is KEY=value; only the first = separates, so values may themselves contain =.
// Lines without any = are ignored.
func (to *TargetOptions) Environment(label BuildLabel) map[string]string {
	opt := to.Get(label)
	if opt == nil || opt.EnvironmentVariables == "" {
		return nil
	}
	env := map[string]string{}
	for _, line := range strings.Split(opt.EnvironmentVariables, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			log.Warning("Ignoring malformed environment line for %s: %s", label, line)
			continue
		}
		env[parts[0]] = parts[1]
	}
	return env
}
