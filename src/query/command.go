package query

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/please-build/xcodegen/src/core"
)

// A CommandGraph is the thin adapter over the build tool's query interface.
// It shells out once per call and decodes the tool's JSON output; all the
// interesting metadata extraction happens on the other side of that exec.
type CommandGraph struct {
	tool     string
	options  []string
	messages []Message
}

// NewCommandGraph returns a RuleGraph backed by the given build tool binary.
func NewCommandGraph(tool string, options []string) *CommandGraph {
	return &CommandGraph{tool: tool, options: options}
}

// jsonEntry is the wire form of one rule entry as the tool emits it.
type jsonEntry struct {
	Type         string            `json:"type"`
	Label        string            `json:"label"`
	Config       string            `json:"config"`
	Attributes   map[string]string `json:"attributes"`
	Extensions   []string          `json:"extensions"`
	LinkedHosts  []string          `json:"linked_hosts"`
	SuiteMembers []string          `json:"suite_members"`
	SDK          string            `json:"sdk"`
}

// Resolve implements the RuleGraph interface.
func (g *CommandGraph) Resolve(labels []core.BuildLabel, opts ResolveOptions) (core.RuleEntryMap, error) {
	args := append([]string{"query", "--output=json"}, g.options...)
	args = append(args, opts.BuildOptions...)
	for _, config := range opts.Configs {
		args = append(args, "--config="+config)
	}
	for _, label := range labels {
		args = append(args, label.String())
	}
	out, err := g.run(args)
	if err != nil {
		return nil, err
	}
	entries := core.RuleEntryMap{}
	decoder := json.NewDecoder(bytes.NewReader(out))
	for decoder.More() {
		je := jsonEntry{}
		if err := decoder.Decode(&je); err != nil {
			return nil, fmt.Errorf("can't decode query output: %w", err)
		}
		label, err := core.TryParseBuildLabel(je.Label)
		if err != nil {
			return nil, err
		}
		entries.Add(&core.RuleEntry{
			Type:         je.Type,
			Label:        label,
			Config:       je.Config,
			Attributes:   je.Attributes,
			Extensions:   parseLabels(je.Extensions),
			LinkedHosts:  parseLabels(je.LinkedHosts),
			SuiteMembers: parseLabels(je.SuiteMembers),
			SDK:          je.SDK,
		})
	}
	return entries, nil
}

// ExtractBuildFiles implements the RuleGraph interface.
func (g *CommandGraph) ExtractBuildFiles(labels []core.BuildLabel) ([]string, error) {
	args := append([]string{"query", "--output=buildfiles"}, g.options...)
	for _, label := range labels {
		args = append(args, label.String())
	}
	out, err := g.run(args)
	if err != nil {
		return nil, err
	}
	var files []string
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// HasQueuedMessages implements the RuleGraph interface.
func (g *CommandGraph) HasQueuedMessages() bool {
	return len(g.messages) > 0
}

// DrainMessages implements the RuleGraph interface.
func (g *CommandGraph) DrainMessages() []Message {
	msgs := g.messages
	g.messages = nil
	return msgs
}

func (g *CommandGraph) run(args []string) ([]byte, error) {
	log.Debug("Running %s %s", g.tool, strings.Join(args, " "))
	cmd := exec.Command(g.tool, args...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	out, err := cmd.Output()
	// The tool chats on stderr regardless of success; keep it for the caller.
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			g.messages = append(g.messages, Message{
				Key:      "query.stderr",
				Template: "%s",
				Values:   []interface{}{line},
				Severity: Info,
			})
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", g.tool, err)
	}
	return out, nil
}

func parseLabels(strs []string) core.BuildLabels {
	var ret core.BuildLabels
	for _, s := range strs {
		if label, err := core.TryParseBuildLabel(s); err == nil {
			ret = append(ret, label)
		} else {
			log.Warning("Dropping unparseable label in query output: %s", s)
		}
	}
	return ret
}
