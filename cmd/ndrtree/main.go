package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/peterstace/ndrtree"
	"github.com/peterstace/ndrtree/internal/dataset"
	"github.com/tidwall/redlog"
)

func main() {
	var dims int
	var maxEntries int
	var dataPath string
	var gen int
	var seed int64
	var outPath string
	var query string
	var compare bool
	var printResult bool
	var loglevel string

	flag.IntVar(&dims, "dims", 3, "Dimensionality of the rectangles")
	flag.IntVar(&maxEntries, "max", 110, "Max entries per node before it splits")
	flag.StringVar(&dataPath, "data", "data/data.txt", "Rectangle file to index, or '-' for stdin")
	flag.IntVar(&gen, "gen", 0, "Generate this many rectangles instead of reading -data")
	flag.Int64Var(&seed, "seed", 0, "Random seed for -gen (0 uses the current time)")
	flag.StringVar(&outPath, "out", "", "Write the generated rectangles to this file")
	flag.StringVar(&query, "query", "[80 49 45],[86 50 71]", "Query rectangle as '[min...],[max...]', WKT or GeoJSON")
	flag.BoolVar(&compare, "compare", false, "Also index with rtreego and compare results and timings")
	flag.BoolVar(&printResult, "print", true, "Print each matching rectangle")
	flag.StringVar(&loglevel, "loglevel", "notice", "Log level [quiet,warning,notice,verbose,debug]")
	flag.Parse()

	log := redlog.New(os.Stderr)
	switch strings.ToLower(loglevel) {
	default:
		log.Warningf("invalid loglevel '%v'", loglevel)
		os.Exit(1)
	case "quiet":
		log = redlog.New(ioutil.Discard)
	case "warning":
		log.SetLevel(3)
	case "notice":
		log.SetLevel(2)
	case "verbose":
		log.SetLevel(1)
	case "debug":
		log.SetLevel(0)
	}

	q, err := dataset.ParseRect(query, dims)
	if err != nil {
		log.Warningf("%v", err)
		os.Exit(1)
	}

	rects, err := loadRects(log, dataPath, gen, seed, dims, outPath)
	if err != nil {
		log.Warningf("%v", err)
		os.Exit(1)
	}

	rt, err := ndrtree.New(dims, maxEntries)
	if err != nil {
		log.Warningf("%v", err)
		os.Exit(1)
	}
	start := time.Now()
	for _, r := range rects {
		if err := rt.Insert(r); err != nil {
			log.Warningf("%v", err)
			os.Exit(1)
		}
	}
	log.Noticef("indexed %d rectangles in %v (height %d)", rt.Len(), time.Since(start), rt.Height())

	start = time.Now()
	result, err := rt.Search(q)
	if err != nil {
		log.Warningf("%v", err)
		os.Exit(1)
	}
	log.Noticef("query %v matched %d rectangles in %v", q, len(result), time.Since(start))

	if compare {
		if err := compareReference(log, rects, q, maxEntries, result); err != nil {
			log.Warningf("%v", err)
			os.Exit(1)
		}
	}

	if printResult {
		w := bufio.NewWriter(os.Stdout)
		writeResult(w, result)
		if err := w.Flush(); err != nil {
			log.Warningf("%v", err)
			os.Exit(1)
		}
	}
}

func loadRects(log *redlog.Logger, dataPath string, gen int, seed int64, dims int, outPath string) ([]ndrtree.Rect, error) {
	if gen > 0 {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		cfg := dataset.DefaultGenConfig
		cfg.Dims = dims
		cfg.PerRound = (gen + cfg.Rounds - 1) / cfg.Rounds
		rects := dataset.Generate(rand.New(rand.NewSource(seed)), cfg)
		if len(rects) > gen {
			rects = rects[:gen]
		}
		log.Verbosef("generated %d rectangles with seed %d", len(rects), seed)
		if outPath != "" {
			if err := writeFile(outPath, rects); err != nil {
				return nil, err
			}
			log.Noticef("wrote %d rectangles to %s", len(rects), outPath)
		}
		return rects, nil
	}

	var r io.Reader = os.Stdin
	if dataPath != "-" {
		f, err := os.Open(dataPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	start := time.Now()
	rects, err := dataset.Read(bufio.NewReader(r), dims)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dataPath, err)
	}
	log.Verbosef("read %d rectangles from %s in %v", len(rects), dataPath, time.Since(start))
	return rects, nil
}

func writeFile(path string, rects []ndrtree.Rect) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := dataset.Write(f, rects); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func compareReference(log *redlog.Logger, rects []ndrtree.Rect, q ndrtree.Rect, maxEntries int, want []ndrtree.Rect) error {
	ref := dataset.NewReference(q.Dims(), maxEntries)
	start := time.Now()
	for _, r := range rects {
		if err := ref.Insert(r); err != nil {
			return err
		}
	}
	log.Noticef("rtreego indexed %d rectangles in %v", ref.Len(), time.Since(start))

	start = time.Now()
	result, err := ref.Search(q)
	if err != nil {
		return err
	}
	log.Noticef("rtreego query matched %d rectangles in %v", len(result), time.Since(start))
	got, exp := sortedStrings(want), sortedStrings(result)
	if len(got) != len(exp) {
		return fmt.Errorf("result mismatch: ndrtree found %d, rtreego found %d", len(got), len(exp))
	}
	for i := range got {
		if got[i] != exp[i] {
			return fmt.Errorf("result mismatch: ndrtree found %s, rtreego found %s", got[i], exp[i])
		}
	}
	return nil
}

func sortedStrings(rects []ndrtree.Rect) []string {
	out := make([]string, 0, len(rects))
	for _, r := range rects {
		out = append(out, r.String())
	}
	sort.Strings(out)
	return out
}

func writeResult(w io.Writer, result []ndrtree.Rect) {
	fmt.Fprintln(w, "Search result:")
	for _, r := range result {
		fmt.Fprintf(w, "(%s) (%s)\n", joinCoords(r, r.Min), joinCoords(r, r.Max))
	}
}

func joinCoords(r ndrtree.Rect, coord func(int) float64) string {
	parts := make([]string, r.Dims())
	for i := range parts {
		parts[i] = fmt.Sprint(coord(i))
	}
	return strings.Join(parts, ",")
}
