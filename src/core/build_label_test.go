package core

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAbsoluteLabel(t *testing.T) {
	label, err := TryParseBuildLabel("//src/core:core")
	assert.NoError(t, err)
	assert.Equal(t, "src/core", label.PackageName)
	assert.Equal(t, "core", label.Name)
}

func TestParseImplicitLabel(t *testing.T) {
	label, err := TryParseBuildLabel("//src/core")
	assert.NoError(t, err)
	assert.Equal(t, BuildLabel{PackageName: "src/core", Name: "core"}, label)
}

func TestParseInvalidLabel(t *testing.T) {
	_, err := TryParseBuildLabel("not a label")
	assert.Error(t, err)
	_, err = TryParseBuildLabel("//src:core:extra")
	assert.Error(t, err)
}

func TestString(t *testing.T) {
	assert.Equal(t, "//src/core:core", BuildLabel{PackageName: "src/core", Name: "core"}.String())
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "src_core_core", BuildLabel{PackageName: "src/core", Name: "core"}.FullName())
	assert.Equal(t, "top", BuildLabel{PackageName: "", Name: "top"}.FullName())
}

func TestLabelOrdering(t *testing.T) {
	labels := BuildLabels{
		{PackageName: "b", Name: "b"},
		{PackageName: "a", Name: "z"},
		{PackageName: "a", Name: "a"},
	}
	sort.Sort(labels)
	assert.Equal(t, BuildLabels{
		{PackageName: "a", Name: "a"},
		{PackageName: "a", Name: "z"},
		{PackageName: "b", Name: "b"},
	}, labels)
}
