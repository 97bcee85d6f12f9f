// Utilities for reading the generator config files.

package core

import (
	"os"

	"github.com/please-build/gcfg"
)

// ConfigFileName is the typical repo config - this is normally checked in.
const ConfigFileName = ".xcodegenconfig"

// LocalConfigFileName is the local repo config - not normally checked in,
// used to override settings on the local machine.
const LocalConfigFileName = ".xcodegenconfig.local"

// A Configuration holds all the settings the generator reads from config
// files and flags. Flags override file values where both are given.
type Configuration struct {
	Project struct {
		// Name of the generated project (the X in X.xcodeproj).
		Name string `gcfg:"name"`
		// OutputDir is where the bundle is written.
		OutputDir string `gcfg:"outputdir"`
		// User is the workspace user for per-user settings documents.
		User string `gcfg:"user"`
	} `gcfg:"project"`
	Build struct {
		// Tool is the path to the build tool the legacy targets shell out to.
		Tool string `gcfg:"tool"`
		// Options are extra options passed to every build invocation.
		Options []string `gcfg:"options"`
		// SupportDir is the source of the support-file tree installed into the bundle.
		SupportDir string `gcfg:"supportdir"`
	} `gcfg:"build"`
	Generator struct {
		// IndexerMemoSize bounds the memo used while gathering indexer search paths.
		IndexerMemoSize int `gcfg:"indexermemosize"`
	} `gcfg:"generator"`
	Metrics struct {
		// PushGatewayURL is the prometheus push gateway to report metrics to, if any.
		PushGatewayURL string `gcfg:"pushgatewayurl"`
	} `gcfg:"metrics"`
}

// DefaultConfiguration returns a configuration with default values filled in.
func DefaultConfiguration() *Configuration {
	config := &Configuration{}
	config.Project.Name = "Project"
	config.Build.Tool = "bazel"
	config.Generator.IndexerMemoSize = 1024
	if u := os.Getenv("USER"); u != "" {
		config.Project.User = u
	}
	return config
}

func readConfigFile(config *Configuration, filename string) error {
	if err := gcfg.ReadFileInto(config, filename); err != nil && os.IsNotExist(err) {
		return nil // It's not an error to not have the file at all.
	} else if err != nil {
		return err
	}
	log.Debug("Read config from %s", filename)
	return nil
}

// ReadConfigFiles reads config from the given locations, in order.
// Values are filled in by defaults initially and then overridden by each file in turn.
func ReadConfigFiles(filenames []string) (*Configuration, error) {
	config := DefaultConfiguration()
	for _, filename := range filenames {
		if err := readConfigFile(config, filename); err != nil {
			return config, err
		}
	}
	return config, nil
}
