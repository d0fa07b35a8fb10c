// Package ndrtree implements an in-memory R-Tree over N-dimensional
// axis-aligned rectangles.
package ndrtree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned by New when the tree parameters
	// cannot produce a valid R-Tree.
	ErrInvalidConfiguration = errors.New("ndrtree: invalid configuration")

	// ErrDimensionMismatch is returned when a rectangle's dimensionality
	// differs from the tree's.
	ErrDimensionMismatch = errors.New("ndrtree: dimension mismatch")

	// ErrInvalidRectangle is returned for rectangles with min > max on some
	// axis, NaN coordinates, or mismatched corners.
	ErrInvalidRectangle = errors.New("ndrtree: invalid rectangle")
)

// nilNode is the handle of a node that doesn't exist.
const nilNode = -1

// node is a node in an R-Tree. Nodes can either be leaf nodes holding data
// rectangles, or internal nodes holding entries for more nodes.
type node struct {
	isLeaf  bool
	entries []entry
	rect    Rect
	parent  int
}

// entry is an entry under a node. For leaves, rect is the data rectangle and
// child is nilNode. For internal nodes, rect is the bounding rectangle of the
// node referenced by child.
type entry struct {
	rect  Rect
	child int
}

// RTree is an in-memory R-Tree. Nodes are stored in an arena and refer to each
// other by index.
//
// An RTree is not safe for concurrent use. Concurrent calls to Insert, or an
// Insert concurrent with a Search, must be serialized by the caller (see
// Locked).
type RTree struct {
	dims       int
	maxEntries int
	root       int
	nodes      []node
	size       int
}

// New creates an empty R-Tree over rectangles with dims dimensions. Nodes
// split once they hold more than maxEntries entries.
func New(dims, maxEntries int) (*RTree, error) {
	if dims < 1 {
		return nil, fmt.Errorf("%w: dims must be at least 1, got %d", ErrInvalidConfiguration, dims)
	}
	if maxEntries < 2 {
		return nil, fmt.Errorf("%w: max entries must be at least 2, got %d", ErrInvalidConfiguration, maxEntries)
	}
	return &RTree{
		dims:       dims,
		maxEntries: maxEntries,
		root:       nilNode,
	}, nil
}

// Dims is the dimensionality of the rectangles stored in the tree.
func (t *RTree) Dims() int {
	return t.dims
}

// MaxEntries is the fan-out threshold of the tree.
func (t *RTree) MaxEntries() int {
	return t.maxEntries
}

// Len is the number of rectangles stored in the tree.
func (t *RTree) Len() int {
	return t.size
}

// Height is the number of levels in the tree. An empty tree has height 0, and
// a tree with only a root leaf has height 1.
func (t *RTree) Height() int {
	h := 0
	for n := t.root; n != nilNode; h++ {
		nd := &t.nodes[n]
		if nd.isLeaf {
			return h + 1
		}
		n = nd.entries[0].child
	}
	return h
}

// Bounds gives the bounding rectangle of everything in the tree. The boolean
// is false if the tree is empty.
func (t *RTree) Bounds() (Rect, bool) {
	if t.root == nilNode || t.size == 0 {
		return Rect{}, false
	}
	return t.nodes[t.root].rect, true
}

// Reset removes all rectangles from the tree.
func (t *RTree) Reset() {
	t.nodes = nil
	t.root = nilNode
	t.size = 0
}

func (t *RTree) checkDims(r Rect) error {
	if r.Dims() != t.dims {
		return fmt.Errorf("%w: tree has %d dims, rectangle has %d", ErrDimensionMismatch, t.dims, r.Dims())
	}
	return nil
}

// Search finds all rectangles in the tree that intersect with q.
func (t *RTree) Search(q Rect) ([]Rect, error) {
	var found []Rect
	err := t.SearchFunc(q, func(r Rect) bool {
		found = append(found, r)
		return true
	})
	return found, err
}

// SearchFunc looks for any rectangles in the tree that intersect with q. The
// callback is called with each rectangle found. The search stops early if the
// callback returns false.
func (t *RTree) SearchFunc(q Rect, callback func(Rect) bool) error {
	if err := t.checkDims(q); err != nil {
		return err
	}
	if t.root == nilNode {
		return nil
	}
	var recurse func(int) bool
	recurse = func(n int) bool {
		nd := &t.nodes[n]
		if !nd.rect.Intersects(q) {
			return true
		}
		for _, e := range nd.entries {
			if !e.rect.Intersects(q) {
				continue
			}
			if nd.isLeaf {
				if !callback(e.rect) {
					return false
				}
			} else if !recurse(e.child) {
				return false
			}
		}
		return true
	}
	recurse(t.root)
	return nil
}
