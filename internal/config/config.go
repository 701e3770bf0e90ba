package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"

	"lightneat/internal/env"
	"lightneat/internal/nn"
)

// Config is the root configuration structure
type Config struct {
	Seed       int64            `yaml:"seed"`
	Population PopulationConfig `yaml:"population"`
	Game       GameConfig       `yaml:"game"`
	NN         NNConfig         `yaml:"nn"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Logging    LogConfig        `yaml:"logging"`
	Storage    StorageConfig    `yaml:"storage"`
}

// PopulationConfig sizes the population and its networks
type PopulationConfig struct {
	Size    int `yaml:"size" ini:"size"`
	Inputs  int `yaml:"inputs" ini:"inputs"`
	Outputs int `yaml:"outputs" ini:"outputs"`
}

// GameConfig defines the light game and generation pacing
type GameConfig struct {
	Tiles                 int     `yaml:"tiles" ini:"tiles"`
	RoundFactor           float64 `yaml:"round_factor" ini:"round_factor"`
	RepeatLimit           int     `yaml:"repeat_limit" ini:"repeat_limit"`
	StagnationGenerations int     `yaml:"stagnation_generations" ini:"stagnation_generations"`
}

// NNConfig selects how genomes are evaluated
type NNConfig struct {
	Order    string `yaml:"order" ini:"order"` // stored|layered
	Weighted bool   `yaml:"weighted" ini:"weighted"`
	Validate bool   `yaml:"validate" ini:"validate"`
}

// MutationConfig holds the relative weight of each mutation operator
type MutationConfig struct {
	Weight     int `yaml:"weight" ini:"weight"`
	Bias       int `yaml:"bias" ini:"bias"`
	Node       int `yaml:"node" ini:"node"`
	Conn       int `yaml:"conn" ini:"conn"`
	Squash     int `yaml:"squash" ini:"squash"`
	RemoveNode int `yaml:"rnode" ini:"rnode"`
	RemoveConn int `yaml:"rconn" ini:"rconn"`
}

// LogConfig defines logging parameters
type LogConfig struct {
	EveryGenSummary bool   `yaml:"every_gen_summary" ini:"every_gen_summary"`
	TopNDebug       int    `yaml:"topn_debug" ini:"topn_debug"`
	TopNEvery       int    `yaml:"topn_every" ini:"topn_every"`
	ReplayEvery     int    `yaml:"replay_every" ini:"replay_every"`
	CSVPath         string `yaml:"csv_path" ini:"csv_path"`
	JSONPath        string `yaml:"json_path" ini:"json_path"`
	ArtifactsDir    string `yaml:"artifacts_dir" ini:"artifacts_dir"`
}

// StorageConfig selects the run history backend
type StorageConfig struct {
	Kind       string `yaml:"kind" ini:"kind"` // memory|sqlite
	SQLitePath string `yaml:"sqlite_path" ini:"sqlite_path"`
}

// Load reads a config file and applies defaults. Files ending in .ini are
// parsed as INI, anything else as YAML.
func Load(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".ini") {
		cfg, err = loadINI(path)
	} else {
		cfg, err = loadYAML(path)
	}
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	return cfg, nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{Logging: LogConfig{EveryGenSummary: true}}
	applyDefaults(cfg)
	return cfg
}

func loadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{Logging: LogConfig{EveryGenSummary: true}}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func loadINI(path string) (*Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", path, err)
	}

	var run struct {
		Seed int64 `ini:"seed"`
	}
	cfg := &Config{Logging: LogConfig{EveryGenSummary: true}}
	sections := []struct {
		name string
		dst  interface{}
	}{
		{"run", &run},
		{"population", &cfg.Population},
		{"game", &cfg.Game},
		{"nn", &cfg.NN},
		{"mutation", &cfg.Mutation},
		{"logging", &cfg.Logging},
		{"storage", &cfg.Storage},
	}
	for _, s := range sections {
		if !file.HasSection(s.name) {
			continue
		}
		if err := file.Section(s.name).MapTo(s.dst); err != nil {
			return nil, fmt.Errorf("failed to map [%s] section: %w", s.name, err)
		}
	}
	cfg.Seed = run.Seed
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	if cfg.Population.Size == 0 {
		cfg.Population.Size = 200
	}
	if cfg.Game.Tiles == 0 {
		cfg.Game.Tiles = 9
	}
	// The network reads and picks one tile of the board.
	if cfg.Population.Inputs == 0 {
		cfg.Population.Inputs = cfg.Game.Tiles
	}
	if cfg.Population.Outputs == 0 {
		cfg.Population.Outputs = cfg.Game.Tiles
	}
	if cfg.Game.RoundFactor == 0 {
		cfg.Game.RoundFactor = 1.5
	}
	if cfg.Game.RepeatLimit == 0 {
		cfg.Game.RepeatLimit = 4
	}
	if cfg.Game.StagnationGenerations == 0 {
		cfg.Game.StagnationGenerations = 1000
	}
	if cfg.NN.Order == "" {
		cfg.NN.Order = nn.OrderStored.String()
	}
	if cfg.Mutation == (MutationConfig{}) {
		cfg.Mutation = MutationConfig{1, 1, 1, 1, 1, 1, 1}
	}
	if cfg.Logging.TopNDebug == 0 {
		cfg.Logging.TopNDebug = 5
	}
	if cfg.Logging.TopNEvery == 0 {
		cfg.Logging.TopNEvery = 10
	}
	if cfg.Logging.ReplayEvery == 0 {
		cfg.Logging.ReplayEvery = 100
	}
	if cfg.Logging.CSVPath == "" {
		cfg.Logging.CSVPath = "runs/run.csv"
	}
	if cfg.Logging.JSONPath == "" {
		cfg.Logging.JSONPath = "runs/run.jsonl"
	}
	if cfg.Logging.ArtifactsDir == "" {
		cfg.Logging.ArtifactsDir = "artifacts"
	}
	if cfg.Storage.Kind == "" {
		cfg.Storage.Kind = "memory"
	}
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = "runs/history.db"
	}
}

// MutationWeights returns the operator weights keyed by operator name
func (c *Config) MutationWeights() map[string]int {
	m := c.Mutation
	return map[string]int{
		"weight": m.Weight,
		"bias":   m.Bias,
		"node":   m.Node,
		"conn":   m.Conn,
		"squash": m.Squash,
		"rnode":  m.RemoveNode,
		"rconn":  m.RemoveConn,
	}
}

// EvalMode returns the forward-pass settings for new genomes
func (c *Config) EvalMode() (nn.EvalMode, error) {
	order, err := nn.ParseOrder(c.NN.Order)
	if err != nil {
		return nn.EvalMode{}, err
	}
	return nn.EvalMode{Order: order, Weighted: c.NN.Weighted}, nil
}

// RoundLimit is the number of ticks after which a generation ends
func (c *Config) RoundLimit() float64 {
	return float64(c.Game.Tiles) * c.Game.RoundFactor
}

// Validate checks that the configuration describes a runnable experiment
func (c *Config) Validate() error {
	var errs []error
	if c.Population.Size < 1 {
		errs = append(errs, fmt.Errorf("population.size must be at least 1, got %d", c.Population.Size))
	}
	if c.Population.Inputs < 1 || c.Population.Outputs < 1 {
		errs = append(errs, fmt.Errorf("population needs inputs and outputs, got %d and %d",
			c.Population.Inputs, c.Population.Outputs))
	}
	if cols, rows := env.Dims(c.Game.Tiles); cols == 0 || cols*rows != c.Game.Tiles {
		errs = append(errs, fmt.Errorf("game.tiles %d does not form a grid of floor(sqrt) columns", c.Game.Tiles))
	}
	if c.Population.Inputs != c.Game.Tiles {
		errs = append(errs, fmt.Errorf("population.inputs %d must match game.tiles %d", c.Population.Inputs, c.Game.Tiles))
	}
	if c.Population.Outputs != c.Game.Tiles {
		errs = append(errs, fmt.Errorf("population.outputs %d must match game.tiles %d", c.Population.Outputs, c.Game.Tiles))
	}
	if c.Game.RoundFactor <= 0 {
		errs = append(errs, fmt.Errorf("game.round_factor must be positive, got %g", c.Game.RoundFactor))
	}
	if _, err := nn.ParseOrder(c.NN.Order); err != nil {
		errs = append(errs, err)
	}
	for name, w := range c.MutationWeights() {
		if w < 0 {
			errs = append(errs, fmt.Errorf("mutation.%s weight is negative", name))
		}
	}
	switch c.Storage.Kind {
	case "memory", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("storage.kind %q is not memory or sqlite", c.Storage.Kind))
	}
	return errors.Join(errs...)
}
