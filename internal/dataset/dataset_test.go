package dataset

import (
	"bytes"
	"errors"
	"math/rand"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/peterstace/ndrtree"
)

func TestGenerate(t *testing.T) {
	cfg := GenConfig{Dims: 3, Rounds: 4, PerRound: 250, MaxRange: 47, MaxOffset: 97}
	rects := Generate(rand.New(rand.NewSource(0)), cfg)
	if len(rects) != 1000 {
		t.Fatalf("got %d rectangles, want 1000", len(rects))
	}
	for _, r := range rects {
		if r.Dims() != 3 {
			t.Fatalf("%v has %d dims", r, r.Dims())
		}
		for i := 0; i < 3; i++ {
			if r.Min(i) < 0 || r.Max(i) >= 97+47 || r.Min(i) > r.Max(i) {
				t.Fatalf("%v out of range on axis %d", r, i)
			}
		}
	}

	again := Generate(rand.New(rand.NewSource(0)), cfg)
	if !reflect.DeepEqual(rects, again) {
		t.Errorf("expected generation to be deterministic for a fixed seed")
	}

	if got := Generate(rand.New(rand.NewSource(0)), GenConfig{}); got != nil {
		t.Errorf("expected nothing for zero config, got %d rectangles", len(got))
	}
}

func TestDrawInterval(t *testing.T) {
	// Over [5, 7) the ordered pairs (5,5), (5,6) and (6,6) should be equally
	// likely, so two thirds of the draws are degenerate.
	rnd := rand.New(rand.NewSource(0))
	const draws = 30000
	var degenerate int
	for i := 0; i < draws; i++ {
		a, b := drawInterval(rnd, 2, 5)
		if a < 5 || b > 6 || a > b {
			t.Fatalf("bad interval [%d, %d]", a, b)
		}
		if a == b {
			degenerate++
		}
	}
	if frac := float64(degenerate) / draws; frac < 0.63 || frac > 0.70 {
		t.Errorf("degenerate fraction %.3f, want about 0.667", frac)
	}
}

func TestWriteRead(t *testing.T) {
	rects := []ndrtree.Rect{
		ndrtree.MustRect([]float64{1, 2, 3}, []float64{4, 5, 6}),
		ndrtree.MustRect([]float64{-1.5, 0, 0}, []float64{-1, 0, 0.25}),
	}
	var buf bytes.Buffer
	if err := Write(&buf, rects); err != nil {
		t.Fatal(err)
	}
	want := "2\n1 2 3 4 5 6\n-1.5 0 0 -1 0 0.25\n"
	if buf.String() != want {
		t.Fatalf("got %q want %q", buf.String(), want)
	}

	got, err := Read(&buf, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(rects) {
		t.Fatalf("got %d rectangles, want %d", len(got), len(rects))
	}
	for i := range rects {
		if !got[i].Equal(rects[i]) {
			t.Errorf("%d: got %v want %v", i, got[i], rects[i])
		}
	}
}

func TestReadFreeForm(t *testing.T) {
	got, err := Read(strings.NewReader("  2 0 0\n1 1 \t 5 5 6 6"), 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].String() != "[5 5],[6 6]" {
		t.Errorf("unexpected result: %v", got)
	}
}

func TestReadErrors(t *testing.T) {
	for _, tt := range []struct {
		input string
		want  error
	}{
		{"", ErrMalformed},
		{"x", ErrMalformed},
		{"-1", ErrMalformed},
		{"2\n0 0 1 1\n", ErrMalformed},
		{"1\n0 0 1 y\n", ErrMalformed},
		{"1\n2 0 1 1\n", ndrtree.ErrInvalidRectangle},
	} {
		if _, err := Read(strings.NewReader(tt.input), 2); !errors.Is(err, tt.want) {
			t.Errorf("%q: got %v want %v", tt.input, err, tt.want)
		}
	}
	if _, err := Read(strings.NewReader("0"), 0); !errors.Is(err, ndrtree.ErrInvalidConfiguration) {
		t.Errorf("expected invalid configuration for zero dims, got %v", err)
	}
}

func TestParseRect(t *testing.T) {
	for _, tt := range []struct {
		input string
		want  string
	}{
		{"[80 49 45],[86 50 71]", "[80 49 45],[86 50 71]"},
		{"[86 50 71],[80 49 45]", "[80 49 45],[86 50 71]"},
		{"[1 2 3]", "[1 2 3],[1 2 3]"},
		{"POINT(1 2 3)", "[1 2 3],[1 2 3]"},
	} {
		got, err := ParseRect(tt.input, 3)
		if err != nil {
			t.Errorf("%q: %v", tt.input, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("%q: got %v want %v", tt.input, got, tt.want)
		}
	}

	if _, err := ParseRect("[1 2],[3 4]", 3); !errors.Is(err, ndrtree.ErrDimensionMismatch) {
		t.Errorf("expected dimension mismatch, got %v", err)
	}
	if _, err := ParseRect("", 3); !errors.Is(err, ndrtree.ErrInvalidRectangle) {
		t.Errorf("expected invalid rectangle, got %v", err)
	}
}

func TestAgainstReference(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	rects := Generate(rnd, GenConfig{Dims: 3, Rounds: 5, PerRound: 400, MaxRange: 47, MaxOffset: 97})

	for _, maxEntries := range []int{2, 3, 8, 110} {
		rt, err := ndrtree.New(3, maxEntries)
		if err != nil {
			t.Fatal(err)
		}
		ref := NewReference(3, maxEntries)
		for _, r := range rects {
			if err := rt.Insert(r); err != nil {
				t.Fatal(err)
			}
			if err := ref.Insert(r); err != nil {
				t.Fatal(err)
			}
		}
		if rt.Len() != ref.Len() {
			t.Fatalf("max %d: len %d vs reference %d", maxEntries, rt.Len(), ref.Len())
		}

		for i := 0; i < 50; i++ {
			q := Generate(rnd, GenConfig{Dims: 3, Rounds: 1, PerRound: 1, MaxRange: 30, MaxOffset: 120})[0]
			got, err := rt.Search(q)
			if err != nil {
				t.Fatal(err)
			}
			want, err := ref.Search(q)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(sorted(got), sorted(want)) {
				t.Errorf("max %d: query %v: got %d results, reference has %d", maxEntries, q, len(got), len(want))
			}
		}
	}
}

func sorted(rs []ndrtree.Rect) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.String())
	}
	sort.Strings(out)
	return out
}
