package plan

import (
	"slices"

	"scenebind/bind"
	"scenebind/internal/descriptor"
)

// Order returns descs in evaluation order:
//
//  1. source=self first, since only self may create a missing component
//     and later fields must be able to see it;
//  2. then strict before non-strict;
//  3. otherwise discovery order.
//
// The input slice is not modified.
func Order(descs []descriptor.Descriptor) []descriptor.Descriptor {
	ordered := slices.Clone(descs)
	slices.SortStableFunc(ordered, Compare)

	return ordered
}

// Compare orders two descriptors by the keys (source != self, !strict).
func Compare(a, b descriptor.Descriptor) int {
	return sortKey(a) - sortKey(b)
}

func sortKey(d descriptor.Descriptor) int {
	key := 0
	if d.Source != bind.Self {
		key += 2
	}

	if !d.Strict {
		key++
	}

	return key
}
