package core

import (
	"sort"
)

// A TargetSet contains a series of build labels and supports efficiently
// checking for membership. Unlike a plain map it preserves insertion order,
// which the indexer search-path accumulation relies on.
// The zero value is not safe for use.
type TargetSet struct {
	labels  map[BuildLabel]struct{}
	ordered BuildLabels
}

// NewTargetSet returns a new TargetSet.
func NewTargetSet() *TargetSet {
	return &TargetSet{labels: map[BuildLabel]struct{}{}}
}

// Add adds a new label to this set. It returns true if the label was not already present.
func (ts *TargetSet) Add(label BuildLabel) bool {
	if _, present := ts.labels[label]; present {
		return false
	}
	ts.labels[label] = struct{}{}
	ts.ordered = append(ts.ordered, label)
	return true
}

// Contains returns true if the label has been added to this set.
func (ts *TargetSet) Contains(label BuildLabel) bool {
	_, present := ts.labels[label]
	return present
}

// Labels returns a copy of the set's contents in insertion order.
func (ts *TargetSet) Labels() BuildLabels {
	ret := make(BuildLabels, len(ts.ordered))
	copy(ret, ts.ordered)
	return ret
}

// Sorted returns a copy of the set's contents in label order.
func (ts *TargetSet) Sorted() BuildLabels {
	ret := ts.Labels()
	sort.Sort(ret)
	return ret
}

// Len returns the number of labels in the set.
func (ts *TargetSet) Len() int {
	return len(ts.ordered)
}
