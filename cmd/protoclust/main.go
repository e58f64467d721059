// Command protoclust runs minimax-linkage hierarchical clustering on a CSV
// file and writes the merge table, cluster prototypes and an optional flat
// cut as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"

	"github.com/schollz/progressbar/v2"

	"github.com/andgoldschmidt/protoclust"
)

var version = "dev"

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		if err := runCluster(os.Args[2:], os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version", "--version", "-v":
		fmt.Printf("protoclust %s\n", version)
	case "help", "--help", "-h":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `protoclust - minimax linkage hierarchical clustering

Usage:
  protoclust run [flags] <input.csv>
  protoclust version
  protoclust help

Run flags:
  -config <path>     YAML config file (flags override it)
  -input <kind>      "features" (one point per row) or "distances" (square matrix)
  -metric <name>     euclidean, manhattan, chebyshev, cosine, minkowski
  -p <float>         Minkowski exponent
  -workers <n>       worker goroutines (0 = all CPUs)
  -tolerance <f>     allowed asymmetry in a distance matrix
  -cut <k>           also report a flat cut into k clusters
  -progress          show a progress bar on stderr
  -o <path>          write JSON here instead of stdout
`)
}

func runCluster(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML config file")
	input := fs.String("input", "", "input kind: features or distances")
	metric := fs.String("metric", "", "distance metric")
	p := fs.Float64("p", 0, "Minkowski exponent")
	workers := fs.Int("workers", 0, "worker goroutines (0 = all CPUs)")
	tolerance := fs.Float64("tolerance", 0, "allowed asymmetry in a distance matrix")
	cut := fs.Int("cut", 0, "flat cut into k clusters")
	progress := fs.Bool("progress", false, "show progress bar")
	outPath := fs.String("o", "", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected exactly one input file, got %d", fs.NArg())
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "metric":
			cfg.Metric = *metric
		case "p":
			cfg.P = *p
		case "workers":
			cfg.Workers = *workers
		case "tolerance":
			cfg.Tolerance = *tolerance
		case "cut":
			cfg.Cut = *cut
		case "progress":
			cfg.Progress = *progress
		case "o":
			cfg.Output = *outPath
		}
	})
	if err := cfg.validate(); err != nil {
		return err
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return err
	}
	rows, err := readMatrix(f)
	f.Close()
	if err != nil {
		return err
	}

	out, err := cluster(cfg, rows, stderr)
	if err != nil {
		return err
	}

	if cfg.Output == "" {
		return writeOutput(stdout, out)
	}
	file, err := os.Create(cfg.Output)
	if err != nil {
		return err
	}
	if err := writeOutput(file, out); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", cfg.Output, err)
	}
	return nil
}

func writeOutput(w io.Writer, out *output) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func cluster(cfg fileConfig, rows [][]float64, stderr io.Writer) (*output, error) {
	ccfg, err := cfg.clusterConfig()
	if err != nil {
		return nil, err
	}

	n := len(rows)
	if cfg.Progress && n > 1 {
		bar := progressbar.NewOptions(n-1,
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("merging"),
			progressbar.OptionShowCount(),
		)
		ccfg.Observer = protoclust.ObserverFunc(func(int, protoclust.Merge) {
			_ = bar.Add(1)
		})
		defer func() {
			_ = bar.Finish()
			fmt.Fprintln(stderr)
		}()
	}

	var res *protoclust.Result
	switch cfg.Input {
	case inputDistances:
		flat, size, ferr := flattenSquare(rows)
		if ferr != nil {
			return nil, ferr
		}
		res, err = protoclust.ClusterPrecomputed(flat, size, ccfg)
	default:
		res, err = protoclust.Cluster(rows, ccfg)
	}
	if err != nil {
		if protoclust.IsInvariantViolation(err) {
			log.Printf("protoclust: internal error, please report: %v", err)
		}
		return nil, err
	}

	out := newOutput(res)
	if cfg.Cut > 0 {
		labels, prototypes, err := res.Cut(cfg.Cut)
		if err != nil {
			return nil, err
		}
		out.Labels = labels
		out.Prototypes = prototypes
	}
	return out, nil
}

// jsonFloat encodes infinite distances as the string "inf", which
// encoding/json cannot represent as a number.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 1) {
		return []byte(`"inf"`), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

type mergeRow struct {
	Left     int       `json:"left"`
	Right    int       `json:"right"`
	Distance jsonFloat `json:"distance"`
	Size     int       `json:"size"`
}

type output struct {
	N          int         `json:"n"`
	Merges     []mergeRow  `json:"merges"`
	Centers    []int       `json:"centers"`
	Radii      []jsonFloat `json:"radii"`
	Labels     []int       `json:"labels,omitempty"`
	Prototypes []int       `json:"prototypes,omitempty"`
}

func newOutput(res *protoclust.Result) *output {
	out := &output{
		N:       res.N(),
		Merges:  make([]mergeRow, len(res.Merges)),
		Centers: res.Centers,
		Radii:   make([]jsonFloat, len(res.Radii)),
	}
	for l, m := range res.Merges {
		out.Merges[l] = mergeRow{Left: m.Left, Right: m.Right, Distance: jsonFloat(m.Distance), Size: m.Size}
	}
	for i, r := range res.Radii {
		out.Radii[i] = jsonFloat(r)
	}
	return out
}
