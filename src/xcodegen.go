// Xcodegen generates an Xcode project bundle from a set of build targets,
// letting you work on targets of a Bazel-compatible build tool in Xcode with
// working code intelligence, run/debug schemes and test suites.
package main

import (
	"encoding/json"
	"os"

	"github.com/peterebden/go-cli-init/v5/flags"
	clilogging "github.com/peterebden/go-cli-init/v5/logging"

	logger "github.com/please-build/xcodegen/src/cli/logging"
	"github.com/please-build/xcodegen/src/core"
	"github.com/please-build/xcodegen/src/generator"
	"github.com/please-build/xcodegen/src/metrics"
	"github.com/please-build/xcodegen/src/query"
)

var log = logger.Log

var opts = struct {
	Usage         string
	Verbosity     clilogging.Verbosity `short:"v" long:"verbosity" default:"warning" description:"Verbosity of output (higher number = more output)"`
	Config        []string             `short:"c" long:"config" description:"Config file to read (can be repeated; later files override earlier ones)"`
	OutputDir     string               `short:"o" long:"output_dir" description:"Directory to write the project bundle into"`
	ProjectName   string               `short:"n" long:"project_name" description:"Name of the generated project"`
	BuildTool     string               `long:"build_tool" description:"Path to the build tool binary to query and shell out to"`
	BuildOptions  []string             `long:"build_option" description:"Extra option passed to every build tool invocation (can be repeated)"`
	TargetOptions string               `long:"target_options" description:"JSON file of per-target scheme overrides"`
	Args          struct {
		Targets []core.BuildLabel `positional-arg-name:"targets" required:"true" description:"Build targets to generate the project for"`
	} `positional-args:"true" required:"true"`
}{
	Usage: `
Xcodegen turns a set of build targets into an Xcode project: indexer targets
for code intelligence, shell-out build targets, per-target schemes and
aggregated test suite schemes.
`,
}

func main() {
	flags.ParseFlagsOrDie("Xcodegen", &opts, nil)
	clilogging.InitLogging(opts.Verbosity)

	configFiles := opts.Config
	if len(configFiles) == 0 {
		configFiles = []string{core.ConfigFileName, core.LocalConfigFileName}
	}
	config, err := core.ReadConfigFiles(configFiles)
	if err != nil {
		log.Fatalf("Error reading config: %s", err)
	}
	if opts.OutputDir != "" {
		config.Project.OutputDir = opts.OutputDir
	}
	if opts.ProjectName != "" {
		config.Project.Name = opts.ProjectName
	}
	if opts.BuildTool != "" {
		config.Build.Tool = opts.BuildTool
	}
	config.Build.Options = append(config.Build.Options, opts.BuildOptions...)

	metrics.InitFromConfig(config.Metrics.PushGatewayURL)

	g := generator.New(
		config,
		core.DefaultLayout(),
		query.NewCommandGraph(config.Build.Tool, config.Build.Options),
		readTargetOptions(opts.TargetOptions),
		metrics.NewNotifier(),
	)
	_, err = g.Generate(opts.Args.Targets)
	metrics.Push()
	if err != nil {
		log.Error("%s", err)
		os.Exit(1)
	}
	log.Notice("Generated %s in %s", config.Project.Name+".xcodeproj", config.Project.OutputDir)
}

// readTargetOptions loads the per-target scheme overrides file, if given.
func readTargetOptions(filename string) *core.TargetOptions {
	options := core.NewTargetOptions()
	if filename == "" {
		return options
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		log.Fatalf("Can't read target options file: %s", err)
	}
	raw := map[string]*core.TargetOption{}
	if err := json.Unmarshal(b, &raw); err != nil {
		log.Fatalf("Can't parse target options file: %s", err)
	}
	for labelStr, option := range raw {
		label, err := core.TryParseBuildLabel(labelStr)
		if err != nil {
			log.Fatalf("Invalid label in target options file: %s", err)
		}
		options.Set(label, option)
	}
	return options
}
