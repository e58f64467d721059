package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andgoldschmidt/protoclust"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, defaultFileConfig(), cfg)
	assert.NoError(t, cfg.validate())
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeFile(t, "protoclust.yaml", `
input: distances
metric: minkowski
p: 3
workers: 2
tolerance: 1e-9
cut: 4
progress: true
`)
	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, inputDistances, cfg.Input)
	assert.Equal(t, "minkowski", cfg.Metric)
	assert.Equal(t, 3.0, cfg.P)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 1e-9, cfg.Tolerance)
	assert.Equal(t, 4, cfg.Cut)
	assert.True(t, cfg.Progress)

	ccfg, err := cfg.clusterConfig()
	require.NoError(t, err)
	assert.Equal(t, protoclust.MinkowskiMetric{P: 3}, ccfg.Metric)
	assert.Equal(t, 2, ccfg.Workers)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = loadConfig(writeFile(t, "bad.yaml", "metric: [unclosed"))
	assert.Error(t, err)
}

func TestFileConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*fileConfig)
	}{
		{"bad input", func(c *fileConfig) { c.Input = "graph" }},
		{"negative cut", func(c *fileConfig) { c.Cut = -1 }},
		{"unknown metric", func(c *fileConfig) { c.Metric = "hamming" }},
		{"minkowski p below one", func(c *fileConfig) { c.Metric = "minkowski"; c.P = 0.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultFileConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestMetricByName(t *testing.T) {
	tests := []struct {
		name string
		want protoclust.DistanceMetric
	}{
		{"euclidean", protoclust.EuclideanMetric{}},
		{"L2", protoclust.EuclideanMetric{}},
		{"cityblock", protoclust.ManhattanMetric{}},
		{"chebyshev", protoclust.ChebyshevMetric{}},
		{"cosine", protoclust.CosineMetric{}},
	}
	for _, tt := range tests {
		got, err := metricByName(tt.name, 2)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := metricByName("hamming", 2)
	assert.ErrorIs(t, err, errUnknownMetric)
}

func TestReadMatrix(t *testing.T) {
	rows, err := readMatrix(strings.NewReader("x,y\n# comment\n0, 1\n2,3.5\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1}, {2, 3.5}}, rows)

	_, err = readMatrix(strings.NewReader("0,1\n2,oops\n"))
	assert.Error(t, err)

	_, err = readMatrix(strings.NewReader("0,1\n2\n"))
	assert.Error(t, err, "csv reader rejects ragged rows")
}

func TestFlattenSquare(t *testing.T) {
	flat, n, err := flattenSquare([][]float64{{0, 1}, {1, 0}})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []float64{0, 1, 1, 0}, flat)

	_, _, err = flattenSquare([][]float64{{0, 1, 2}, {1, 0, 2}})
	assert.Error(t, err)
}

func decodeOutput(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&got))
	return got
}

func TestRunCluster_Features(t *testing.T) {
	input := writeFile(t, "points.csv", "0\n1\n2\n3\n")
	var stdout, stderr bytes.Buffer

	err := runCluster([]string{"-workers", "1", "-cut", "2", input}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	got := decodeOutput(t, &stdout)
	assert.Equal(t, 4.0, got["n"])
	assert.Equal(t, []any{0.0, 1.0, 2.0, 3.0, 0.0, 2.0, 1.0}, got["centers"])
	assert.Equal(t, []any{0.0, 0.0, 1.0, 1.0}, got["labels"])
	assert.Equal(t, []any{0.0, 2.0}, got["prototypes"])

	merges := got["merges"].([]any)
	require.Len(t, merges, 3)
	last := merges[2].(map[string]any)
	assert.Equal(t, 4.0, last["left"])
	assert.Equal(t, 5.0, last["right"])
	assert.Equal(t, 2.0, last["distance"])
	assert.Equal(t, 4.0, last["size"])
}

func TestRunCluster_DistancesWithConfigAndOutput(t *testing.T) {
	input := writeFile(t, "dist.csv", "0,1,inf,inf\n1,0,inf,inf\ninf,inf,0,2\ninf,inf,2,0\n")
	config := writeFile(t, "cfg.yaml", "input: distances\nworkers: 1\n")
	out := filepath.Join(t.TempDir(), "out.json")
	var stdout, stderr bytes.Buffer

	err := runCluster([]string{"-config", config, "-o", out, "-progress", input}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Empty(t, stdout.String())

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	got := decodeOutput(t, f)

	merges := got["merges"].([]any)
	require.Len(t, merges, 3)
	assert.Equal(t, "inf", merges[2].(map[string]any)["distance"])
	assert.Equal(t, []any{0.0, 0.0, 0.0, 0.0, 1.0, 2.0, "inf"}, got["radii"])
}

func TestRunCluster_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Error(t, runCluster(nil, &stdout, &stderr), "missing input file")

	asym := writeFile(t, "asym.csv", "0,1\n2,0\n")
	err := runCluster([]string{"-input", "distances", asym}, &stdout, &stderr)
	assert.ErrorIs(t, err, protoclust.ErrInvalidInput)

	single := writeFile(t, "single.csv", "1,2\n")
	err = runCluster([]string{single}, &stdout, &stderr)
	assert.ErrorIs(t, err, protoclust.ErrInvalidInput)

	points := writeFile(t, "points.csv", "0\n1\n")
	err = runCluster([]string{"-cut", "3", points}, &stdout, &stderr)
	assert.ErrorIs(t, err, protoclust.ErrInvalidInput)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func TestRunCluster_OutputErrors(t *testing.T) {
	points := writeFile(t, "points.csv", "0\n1\n")
	var stdout, stderr bytes.Buffer

	err := runCluster([]string{"-o", filepath.Join(t.TempDir(), "missing", "out.json"), points}, &stdout, &stderr)
	assert.Error(t, err, "output directory does not exist")

	if _, statErr := os.Stat("/dev/full"); statErr == nil {
		err = runCluster([]string{"-o", "/dev/full", points}, &stdout, &stderr)
		assert.Error(t, err, "a full device must not report success")
	}

	assert.ErrorIs(t, writeOutput(failingWriter{}, &output{}), os.ErrClosed)
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	printUsage(&buf)
	usage := buf.String()
	assert.Contains(t, usage, "protoclust run [flags] <input.csv>")
	assert.Contains(t, usage, "-workers <n>       worker goroutines (0 = all CPUs)")
}
