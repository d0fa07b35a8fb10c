// Package dataset provides rectangle data sets for exercising an R-Tree:
// random generation, a plain text interchange format, and parsing of query
// rectangles.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strconv"

	"github.com/peterstace/ndrtree"
	"github.com/tidwall/grect"
)

// GenConfig controls random data generation.
type GenConfig struct {
	Dims      int // dimensionality of each rectangle
	Rounds    int // number of clusters
	PerRound  int // rectangles per cluster
	MaxRange  int // max extent of a cluster along each axis
	MaxOffset int // max offset of a cluster from the origin along each axis
}

// DefaultGenConfig generates 100000 three dimensional rectangles in 10
// clusters.
var DefaultGenConfig = GenConfig{
	Dims:      3,
	Rounds:    10,
	PerRound:  10000,
	MaxRange:  47,
	MaxOffset: 97,
}

// Generate creates clustered rectangles with integer coordinates. Each round
// picks a random range and offset per axis, then draws PerRound rectangles
// whose corners fall in [offset, offset+range), redrawing each axis until its
// lower corner is at most its upper corner.
func Generate(rnd *rand.Rand, cfg GenConfig) []ndrtree.Rect {
	if cfg.Dims < 1 || cfg.Rounds < 1 || cfg.PerRound < 1 {
		return nil
	}
	maxRange := cfg.MaxRange
	if maxRange < 1 {
		maxRange = 1
	}
	maxOffset := cfg.MaxOffset
	if maxOffset < 1 {
		maxOffset = 1
	}

	rects := make([]ndrtree.Rect, 0, cfg.Rounds*cfg.PerRound)
	ranges := make([]int, cfg.Dims)
	offsets := make([]int, cfg.Dims)
	min := make([]float64, cfg.Dims)
	max := make([]float64, cfg.Dims)
	for round := 0; round < cfg.Rounds; round++ {
		for k := range ranges {
			ranges[k] = rnd.Intn(maxRange) + 1
			offsets[k] = rnd.Intn(maxOffset)
		}
		for i := 0; i < cfg.PerRound; i++ {
			for k := range min {
				a, b := drawInterval(rnd, ranges[k], offsets[k])
				min[k], max[k] = float64(a), float64(b)
			}
			rects = append(rects, ndrtree.MustRect(min, max))
		}
	}
	return rects
}

// drawInterval draws two values in [offset, offset+rng) until they come out
// in order. Inverted pairs are redrawn rather than swapped, so every ordered
// pair is equally likely.
func drawInterval(rnd *rand.Rand, rng, offset int) (int, int) {
	for {
		a := rnd.Intn(rng) + offset
		b := rnd.Intn(rng) + offset
		if a <= b {
			return a, b
		}
	}
}

// Write encodes rectangles in the text format understood by Read: a count,
// followed by one line per rectangle holding its min coordinates and then its
// max coordinates.
func Write(w io.Writer, rects []ndrtree.Rect) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, len(rects))
	var buf []byte
	for _, r := range rects {
		buf = buf[:0]
		for i := 0; i < r.Dims(); i++ {
			buf = strconv.AppendFloat(buf, r.Min(i), 'f', -1, 64)
			buf = append(buf, ' ')
		}
		for i := 0; i < r.Dims(); i++ {
			buf = strconv.AppendFloat(buf, r.Max(i), 'f', -1, 64)
			if i < r.Dims()-1 {
				buf = append(buf, ' ')
			}
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ErrMalformed is returned by Read for input that isn't in the expected
// format.
var ErrMalformed = errors.New("dataset: malformed input")

// Read decodes rectangles of the given dimensionality written by Write. Any
// whitespace may separate the numbers.
func Read(r io.Reader, dims int) ([]ndrtree.Rect, error) {
	if dims < 1 {
		return nil, fmt.Errorf("%w: dims must be at least 1", ndrtree.ErrInvalidConfiguration)
	}
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: missing count", ErrMalformed)
	}
	count, err := strconv.Atoi(sc.Text())
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: bad count %q", ErrMalformed, sc.Text())
	}

	rects := make([]ndrtree.Rect, 0, count)
	coords := make([]float64, 2*dims)
	for n := 1; n <= count; n++ {
		for i := range coords {
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return nil, err
				}
				return nil, fmt.Errorf("%w: rectangle %d: expected %d rectangles, input ended", ErrMalformed, n, count)
			}
			coords[i], err = strconv.ParseFloat(sc.Text(), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: rectangle %d: %v", ErrMalformed, n, err)
			}
		}
		rect, err := ndrtree.NewRect(coords[:dims], coords[dims:])
		if err != nil {
			return nil, fmt.Errorf("rectangle %d: %w", n, err)
		}
		rects = append(rects, rect)
	}
	return rects, nil
}

// ParseRect parses a rectangle written as "[min...],[max...]", as WKT, or as
// GeoJSON, and checks that it has the given dimensionality. A single point
// such as "[1 2]" gives a zero volume rectangle.
func ParseRect(s string, dims int) (ndrtree.Rect, error) {
	gr := grect.Get(s)
	if len(gr.Min) == 0 {
		return ndrtree.Rect{}, fmt.Errorf("%w: cannot parse %q", ndrtree.ErrInvalidRectangle, s)
	}
	if len(gr.Min) != dims {
		return ndrtree.Rect{}, fmt.Errorf("%w: %q has %d dims, want %d", ndrtree.ErrDimensionMismatch, s, len(gr.Min), dims)
	}
	return ndrtree.NewRect(gr.Min, gr.Max)
}
