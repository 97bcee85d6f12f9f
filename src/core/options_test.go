package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArguments(t *testing.T) {
	label := NewBuildLabel("app", "app")
	options := NewTargetOptions()
	options.Set(label, &TargetOption{CommandLineArguments: `--flag "two words" plain`})
	args, err := options.Arguments(label)
	assert.NoError(t, err)
	assert.Equal(t, []string{"--flag", "two words", "plain"}, args)
}

func TestArgumentsOfUnknownLabel(t *testing.T) {
	args, err := NewTargetOptions().Arguments(NewBuildLabel("app", "app"))
	assert.NoError(t, err)
	assert.Nil(t, args)
}

func TestEnvironment(t *testing.T) {
	label := NewBuildLabel("app", "app")
	options := NewTargetOptions()
	options.Set(label, &TargetOption{EnvironmentVariables: "A=1\nB=x=y\n\nmalformed line\nC=\n"})
	env := options.Environment(label)
	// Only the first = separates, so B keeps its embedded one.
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y", "C": ""}, env)
}
