package ndrtree

// Insert adds a new rectangle to the RTree.
func (t *RTree) Insert(r Rect) error {
	if err := t.checkDims(r); err != nil {
		return err
	}
	if t.root == nilNode {
		t.nodes = append(t.nodes, node{isLeaf: true, parent: nilNode})
		t.root = len(t.nodes) - 1
	}

	leaf := t.chooseLeafNode(r)
	t.nodes[leaf].entries = append(t.nodes[leaf].entries, entry{rect: r, child: nilNode})
	t.size++

	sibling := nilNode
	if len(t.nodes[leaf].entries) > t.maxEntries {
		sibling = t.splitNode(leaf)
	} else {
		t.nodes[leaf].rect = t.calculateBound(leaf)
	}
	root1, root2 := t.adjustTree(leaf, sibling)
	if root2 != nilNode {
		t.joinRoots(root1, root2)
	}
	return nil
}

// chooseLeafNode descends from the root to a leaf, at each level picking the
// child needing the least enlargement to accommodate r.
func (t *RTree) chooseLeafNode(r Rect) int {
	n := t.root
	for {
		nd := &t.nodes[n]
		if nd.isLeaf {
			return n
		}
		bestEntry := 0
		bestDelta := nd.entries[0].rect.Enlargement(r)
		bestVolume := nd.entries[0].rect.Volume()
		for i := 1; i < len(nd.entries); i++ {
			e := nd.entries[i]
			delta := e.rect.Enlargement(r)
			if delta > bestDelta {
				continue
			}
			// Volume is used as a tie breaker if the enlargements are the same.
			vol := e.rect.Volume()
			if delta < bestDelta || vol < bestVolume {
				bestEntry, bestDelta, bestVolume = i, delta, vol
			}
		}
		n = nd.entries[bestEntry].child
	}
}

// adjustTree walks from node n up to the root, refreshing the bounding
// rectangles held by each parent. If nn is not nilNode, it is a new sibling
// of n that must be added to n's parent, possibly splitting the parent in
// turn. The returned pair is the root and, if the root itself split, its new
// sibling (otherwise nilNode).
func (t *RTree) adjustTree(n, nn int) (int, int) {
	for {
		parent := t.nodes[n].parent
		if parent == nilNode {
			return n, nn
		}
		t.nodes[parent].entries[t.entryOf(parent, n)].rect = t.nodes[n].rect

		pp := nilNode
		if nn != nilNode {
			t.nodes[nn].parent = parent
			t.nodes[parent].entries = append(t.nodes[parent].entries, entry{
				rect:  t.nodes[nn].rect,
				child: nn,
			})
			if len(t.nodes[parent].entries) > t.maxEntries {
				pp = t.splitNode(parent)
			}
		}
		if pp == nilNode {
			t.nodes[parent].rect = t.calculateBound(parent)
		}
		n, nn = parent, pp
	}
}

// joinRoots grows the tree by one level, creating a new root above r1 and r2.
func (t *RTree) joinRoots(r1, r2 int) {
	t.nodes = append(t.nodes, node{
		isLeaf: false,
		entries: []entry{
			{rect: t.nodes[r1].rect, child: r1},
			{rect: t.nodes[r2].rect, child: r2},
		},
		parent: nilNode,
	})
	root := len(t.nodes) - 1
	t.nodes[root].rect = t.calculateBound(root)
	t.nodes[r1].parent = root
	t.nodes[r2].parent = root
	t.root = root
}

// entryOf finds the index of the entry in parent that refers to child.
func (t *RTree) entryOf(parent, child int) int {
	for i, e := range t.nodes[parent].entries {
		if e.child == child {
			return i
		}
	}
	panic("could not find child in parent")
}

// calculateBound calculates the smallest bounding box that fits a node's
// entries.
func (t *RTree) calculateBound(n int) Rect {
	bb := emptyBound(t.dims)
	for _, e := range t.nodes[n].entries {
		bb = bb.Merge(e.rect)
	}
	return bb
}
