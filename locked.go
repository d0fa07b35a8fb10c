package ndrtree

import "sync"

// Locked wraps an RTree with a read/write lock, allowing a single writer or
// many concurrent readers.
type Locked struct {
	mu   sync.RWMutex
	tree *RTree
}

// NewLocked creates an empty R-Tree that is safe for concurrent use.
func NewLocked(dims, maxEntries int) (*Locked, error) {
	t, err := New(dims, maxEntries)
	if err != nil {
		return nil, err
	}
	return &Locked{tree: t}, nil
}

// Insert adds a new rectangle to the tree.
func (l *Locked) Insert(r Rect) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tree.Insert(r)
}

// Search finds all rectangles in the tree that intersect with q.
func (l *Locked) Search(q Rect) ([]Rect, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Search(q)
}

// SearchFunc is like RTree.SearchFunc. The callback runs while the read lock
// is held, so it must not insert into the tree.
func (l *Locked) SearchFunc(q Rect, callback func(Rect) bool) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.SearchFunc(q, callback)
}

// Len is the number of rectangles stored in the tree.
func (l *Locked) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tree.Len()
}

// Reset removes all rectangles from the tree.
func (l *Locked) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tree.Reset()
}
