package ndrtree

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rect is an axis-aligned hyper-rectangle. Rects are immutable once
// constructed: operations such as Merge return new values.
type Rect struct {
	min, max []float64
}

// NewRect creates a rectangle from its minimum and maximum corners. The
// coordinates are copied. An error wrapping ErrInvalidRectangle is returned if
// the corners have different (or zero) dimensionality, contain NaN or
// infinite coordinates, or if min[i] > max[i] for any axis.
func NewRect(min, max []float64) (Rect, error) {
	if len(min) == 0 || len(min) != len(max) {
		return Rect{}, fmt.Errorf("%w: corners have %d and %d coordinates", ErrInvalidRectangle, len(min), len(max))
	}
	for i := range min {
		if math.IsNaN(min[i]) || math.IsNaN(max[i]) {
			return Rect{}, fmt.Errorf("%w: NaN coordinate on axis %d", ErrInvalidRectangle, i)
		}
		if math.IsInf(min[i], 0) || math.IsInf(max[i], 0) {
			return Rect{}, fmt.Errorf("%w: infinite coordinate on axis %d", ErrInvalidRectangle, i)
		}
		if min[i] > max[i] {
			return Rect{}, fmt.Errorf("%w: min %v > max %v on axis %d", ErrInvalidRectangle, min[i], max[i], i)
		}
	}
	r := Rect{
		min: make([]float64, len(min)),
		max: make([]float64, len(max)),
	}
	copy(r.min, min)
	copy(r.max, max)
	return r, nil
}

// MustRect is like NewRect, but panics if the corners are invalid.
func MustRect(min, max []float64) Rect {
	r, err := NewRect(min, max)
	if err != nil {
		panic(err)
	}
	return r
}

// PointRect creates a zero volume rectangle covering the single point p.
func PointRect(p []float64) (Rect, error) {
	return NewRect(p, p)
}

// Dims is the dimensionality of the rectangle. The zero Rect has no
// dimensions.
func (r Rect) Dims() int {
	return len(r.min)
}

// Min is the lower bound of the rectangle along axis i.
func (r Rect) Min(i int) float64 {
	return r.min[i]
}

// Max is the upper bound of the rectangle along axis i.
func (r Rect) Max(i int) float64 {
	return r.max[i]
}

// Volume is the product of the rectangle's extents. Degenerate rectangles
// have zero volume.
func (r Rect) Volume() float64 {
	v := 1.0
	for i := range r.min {
		v *= r.max[i] - r.min[i]
	}
	return v
}

// Merge gives the smallest rectangle containing both r and o. Both must have
// the same dimensionality.
func (r Rect) Merge(o Rect) Rect {
	m := Rect{
		min: make([]float64, len(r.min)),
		max: make([]float64, len(r.max)),
	}
	for i := range r.min {
		m.min[i] = math.Min(r.min[i], o.min[i])
		m.max[i] = math.Max(r.max[i], o.max[i])
	}
	return m
}

// Enlargement returns how much additional volume r would have to grow by to
// accommodate o. Both must have the same dimensionality. Volumes beyond the
// range of float64 overflow to +Inf, giving a NaN enlargement.
func (r Rect) Enlargement(o Rect) float64 {
	return r.Merge(o).Volume() - r.Volume()
}

// Intersects reports whether r and o overlap. Boundaries are closed, so
// rectangles that only touch are considered to intersect. Rectangles of
// different dimensionality never intersect.
func (r Rect) Intersects(o Rect) bool {
	if len(r.min) != len(o.min) {
		return false
	}
	for i := range r.min {
		if r.min[i] > o.max[i] || o.min[i] > r.max[i] {
			return false
		}
	}
	return true
}

// Contains reports whether o lies entirely within r. Rectangles of different
// dimensionality never contain each other.
func (r Rect) Contains(o Rect) bool {
	if len(r.min) != len(o.min) {
		return false
	}
	for i := range r.min {
		if o.min[i] < r.min[i] || o.max[i] > r.max[i] {
			return false
		}
	}
	return true
}

// Equal reports whether r and o have identical corners.
func (r Rect) Equal(o Rect) bool {
	if len(r.min) != len(o.min) {
		return false
	}
	for i := range r.min {
		if r.min[i] != o.min[i] || r.max[i] != o.max[i] {
			return false
		}
	}
	return true
}

// String formats the rectangle as "[min...],[max...]", the form accepted by
// github.com/tidwall/grect.
func (r Rect) String() string {
	var sb strings.Builder
	writeCoords(&sb, r.min)
	sb.WriteByte(',')
	writeCoords(&sb, r.max)
	return sb.String()
}

func writeCoords(sb *strings.Builder, coords []float64) {
	sb.WriteByte('[')
	for i, c := range coords {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatFloat(c, 'f', -1, 64))
	}
	sb.WriteByte(']')
}

// emptyBound returns the identity element for Merge: +Inf lower bounds and
// -Inf upper bounds.
func emptyBound(dims int) Rect {
	r := Rect{
		min: make([]float64, dims),
		max: make([]float64, dims),
	}
	for i := 0; i < dims; i++ {
		r.min[i] = math.Inf(+1)
		r.max[i] = math.Inf(-1)
	}
	return r
}
