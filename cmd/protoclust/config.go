package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andgoldschmidt/protoclust"
)

const (
	inputFeatures  = "features"
	inputDistances = "distances"
)

// fileConfig is the on-disk YAML configuration. Command-line flags override
// any value set here.
type fileConfig struct {
	Input     string  `yaml:"input"`
	Metric    string  `yaml:"metric"`
	P         float64 `yaml:"p"`
	Workers   int     `yaml:"workers"`
	Tolerance float64 `yaml:"tolerance"`
	Progress  bool    `yaml:"progress"`
	Cut       int     `yaml:"cut"`
	Output    string  `yaml:"output"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{
		Input:  inputFeatures,
		Metric: "euclidean",
		P:      2,
	}
}

// loadConfig reads path over the defaults. An empty path returns the
// defaults unchanged.
func loadConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func (c fileConfig) validate() error {
	switch c.Input {
	case inputFeatures, inputDistances:
	default:
		return fmt.Errorf("input must be %q or %q, got %q", inputFeatures, inputDistances, c.Input)
	}
	if c.Cut < 0 {
		return fmt.Errorf("cut must be >= 0, got %d", c.Cut)
	}
	if _, err := metricByName(c.Metric, c.P); err != nil {
		return err
	}
	return nil
}

// clusterConfig converts the file settings into a library Config.
func (c fileConfig) clusterConfig() (protoclust.Config, error) {
	metric, err := metricByName(c.Metric, c.P)
	if err != nil {
		return protoclust.Config{}, err
	}
	cfg := protoclust.DefaultConfig()
	cfg.Metric = metric
	cfg.Workers = c.Workers
	cfg.Tolerance = c.Tolerance
	return cfg, nil
}

var errUnknownMetric = errors.New("unknown metric")

func metricByName(name string, p float64) (protoclust.DistanceMetric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "euclidean", "l2":
		return protoclust.EuclideanMetric{}, nil
	case "manhattan", "cityblock", "l1":
		return protoclust.ManhattanMetric{}, nil
	case "chebyshev", "linf":
		return protoclust.ChebyshevMetric{}, nil
	case "cosine":
		return protoclust.CosineMetric{}, nil
	case "minkowski":
		if p < 1 {
			return nil, fmt.Errorf("minkowski p must be >= 1, got %g", p)
		}
		return protoclust.MinkowskiMetric{P: p}, nil
	default:
		return nil, fmt.Errorf("%w %q", errUnknownMetric, name)
	}
}
