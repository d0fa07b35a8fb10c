package ndrtree

import "sort"

// splitNode splits node n into two nodes. The entries are ordered along the
// axis with the least overlap between them and cut in half. The first half
// stays in n, and the second half goes to a newly created node. The return
// value is the index of the new node, which has the same parent as n.
func (t *RTree) splitNode(n int) int {
	entries := t.nodes[n].entries
	axis := chooseSplitAxis(entries, t.dims)

	// Sort a permutation rather than the entries themselves, so that the
	// original slice is untouched until both halves are built.
	perm := make([]int, len(entries))
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		return entries[perm[i]].rect.min[axis] < entries[perm[j]].rect.min[axis]
	})

	split := len(perm) / 2
	if split < 1 {
		split = 1
	}
	if split > len(perm)-1 {
		split = len(perm) - 1
	}

	entriesA := make([]entry, 0, split)
	for _, i := range perm[:split] {
		entriesA = append(entriesA, entries[i])
	}
	entriesB := make([]entry, 0, len(perm)-split)
	for _, i := range perm[split:] {
		entriesB = append(entriesB, entries[i])
	}

	// Use the existing node for A, and create a new node for B.
	t.nodes[n].entries = entriesA
	t.nodes = append(t.nodes, node{
		isLeaf:  t.nodes[n].isLeaf,
		entries: entriesB,
		parent:  t.nodes[n].parent,
	})
	nn := len(t.nodes) - 1
	if !t.nodes[n].isLeaf {
		for _, e := range entriesB {
			t.nodes[e.child].parent = nn
		}
	}
	t.nodes[n].rect = t.calculateBound(n)
	t.nodes[nn].rect = t.calculateBound(nn)
	return nn
}

// chooseSplitAxis finds the axis along which the entries' projections
// overlap each other the least. Ties go to the lowest axis.
func chooseSplitAxis(entries []entry, dims int) int {
	bestAxis := 0
	var bestOverlap float64
	intervals := make([]interval, len(entries))
	for axis := 0; axis < dims; axis++ {
		for i, e := range entries {
			intervals[i] = interval{e.rect.min[axis], e.rect.max[axis]}
		}
		overlap := totalOverlap(intervals)
		if axis == 0 || overlap < bestOverlap {
			bestAxis, bestOverlap = axis, overlap
		}
	}
	return bestAxis
}

type interval struct {
	lo, hi float64
}

// totalOverlap sorts the intervals by lower bound and sums the overlapping
// length of every pair.
func totalOverlap(intervals []interval) float64 {
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].lo < intervals[j].lo
	})
	var sum float64
	for i := range intervals {
		for j := i + 1; j < len(intervals); j++ {
			// Later intervals start even further right, so can't overlap i either.
			if intervals[j].lo > intervals[i].hi {
				break
			}
			sum += intervals[i].hi - intervals[j].lo
		}
	}
	return sum
}
