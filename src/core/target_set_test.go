package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddPreservesInsertionOrder(t *testing.T) {
	ts := NewTargetSet()
	b := NewBuildLabel("pkg", "b")
	a := NewBuildLabel("pkg", "a")
	assert.True(t, ts.Add(b))
	assert.True(t, ts.Add(a))
	assert.False(t, ts.Add(b))
	assert.Equal(t, BuildLabels{b, a}, ts.Labels())
	assert.Equal(t, 2, ts.Len())
}

func TestContains(t *testing.T) {
	ts := NewTargetSet()
	label := NewBuildLabel("pkg", "target")
	assert.False(t, ts.Contains(label))
	ts.Add(label)
	assert.True(t, ts.Contains(label))
}

func TestSorted(t *testing.T) {
	ts := NewTargetSet()
	ts.Add(NewBuildLabel("z", "z"))
	ts.Add(NewBuildLabel("a", "a"))
	assert.Equal(t, BuildLabels{NewBuildLabel("a", "a"), NewBuildLabel("z", "z")}, ts.Sorted())
	// Sorting mustn't disturb insertion order.
	assert.Equal(t, BuildLabels{NewBuildLabel("z", "z"), NewBuildLabel("a", "a")}, ts.Labels())
}
