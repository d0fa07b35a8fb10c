package dataset

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/peterstace/ndrtree"
)

// Reference is an independent R-Tree implementation used to cross-check and
// time ndrtree.RTree.
type Reference struct {
	dims int
	tree *rtreego.Rtree
}

type refItem struct {
	rect   ndrtree.Rect
	bounds rtreego.Rect
}

func (it *refItem) Bounds() rtreego.Rect {
	return it.bounds
}

// NewReference creates an empty reference index with the same fan-out as an
// RTree created with New(dims, maxEntries).
func NewReference(dims, maxEntries int) *Reference {
	minChildren := maxEntries / 2
	if minChildren < 1 {
		minChildren = 1
	}
	return &Reference{
		dims: dims,
		tree: rtreego.NewTree(dims, minChildren, maxEntries),
	}
}

// Len is the number of rectangles in the index.
func (ref *Reference) Len() int {
	return ref.tree.Size()
}

// Insert adds r to the index.
func (ref *Reference) Insert(r ndrtree.Rect) error {
	if r.Dims() != ref.dims {
		return ndrtree.ErrDimensionMismatch
	}
	min, max := corners(r, 0)
	bounds, err := rtreego.NewRectFromPoints(min, max)
	if err != nil {
		return err
	}
	ref.tree.Insert(&refItem{rect: r, bounds: bounds})
	return nil
}

// Search finds all rectangles in the index that intersect with q, treating
// boundaries as closed.
func (ref *Reference) Search(q ndrtree.Rect) ([]ndrtree.Rect, error) {
	if q.Dims() != ref.dims {
		return nil, ndrtree.ErrDimensionMismatch
	}
	// Widen the query slightly so that touching rectangles are candidates
	// regardless of how rtreego treats boundaries, then filter exactly.
	min, max := corners(q, 1e-9)
	bounds, err := rtreego.NewRectFromPoints(min, max)
	if err != nil {
		return nil, err
	}
	var found []ndrtree.Rect
	for _, s := range ref.tree.SearchIntersect(bounds) {
		it := s.(*refItem)
		if it.rect.Intersects(q) {
			found = append(found, it.rect)
		}
	}
	return found, nil
}

// corners returns the corners of r, pushed outwards by pad relative to the
// magnitude of each coordinate.
func corners(r ndrtree.Rect, pad float64) (rtreego.Point, rtreego.Point) {
	min := make(rtreego.Point, r.Dims())
	max := make(rtreego.Point, r.Dims())
	for i := range min {
		min[i] = r.Min(i) - pad*(1+math.Abs(r.Min(i)))
		max[i] = r.Max(i) + pad*(1+math.Abs(r.Max(i)))
	}
	return min, max
}
