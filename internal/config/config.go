package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/hamming/internal/hamming"
	"github.com/danmuck/hamming/internal/logging"
	"github.com/danmuck/hamming/internal/noise"
	"github.com/danmuck/hamming/internal/pipeline"
	gotoml "github.com/pelletier/go-toml/v2"
)

// Config is the resolved hammingctl configuration.
type Config struct {
	Code        string
	Probability float64
	// Seed is nil when masks should be drawn from a time-seeded source.
	Seed       *int64
	MaskPolicy string
	Trials     int
	// LogLevel is empty unless set by file or flag; HAMMING_LOG_LEVEL applies then.
	LogLevel string
}

type fileConfig struct {
	Code        string  `toml:"code"`
	Probability float64 `toml:"probability"`
	Seed        *int64  `toml:"seed,omitempty"`
	MaskPolicy  string  `toml:"mask_policy"`
	Trials      int     `toml:"trials"`
	LogLevel    string  `toml:"log_level,omitempty"`
}

func Default() Config {
	return Config{
		Code:        hamming.EH16_11.Name(),
		Probability: 0.01,
		MaskPolicy:  string(pipeline.MaskResize),
		Trials:      1000,
	}
}

// Load overlays the keys present in the TOML file at path onto Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}

	if meta.IsDefined("code") {
		cfg.Code = strings.TrimSpace(raw.Code)
	}
	if meta.IsDefined("probability") {
		cfg.Probability = raw.Probability
	}
	if meta.IsDefined("seed") {
		cfg.Seed = raw.Seed
	}
	if meta.IsDefined("mask_policy") {
		cfg.MaskPolicy = strings.TrimSpace(raw.MaskPolicy)
	}
	if meta.IsDefined("trials") {
		cfg.Trials = raw.Trials
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if _, err := hamming.Lookup(cfg.Code); err != nil {
		return err
	}
	if err := noise.ValidateProbability(cfg.Probability); err != nil {
		return err
	}
	if _, err := pipeline.ParseMaskPolicy(cfg.MaskPolicy); err != nil {
		return err
	}
	if cfg.Trials <= 0 {
		return fmt.Errorf("trials must be positive: %d", cfg.Trials)
	}
	if strings.TrimSpace(cfg.LogLevel) != "" {
		if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
			return fmt.Errorf("unknown log_level: %q", cfg.LogLevel)
		}
	}
	return nil
}

// Session builds the pipeline config and injector described by cfg.
func (c Config) Session() (pipeline.Config, *noise.Injector, error) {
	code, err := hamming.Lookup(c.Code)
	if err != nil {
		return pipeline.Config{}, nil, err
	}
	policy, err := pipeline.ParseMaskPolicy(c.MaskPolicy)
	if err != nil {
		return pipeline.Config{}, nil, err
	}
	return pipeline.Config{Code: code, Policy: policy}, c.Injector(), nil
}

func (c Config) Injector() *noise.Injector {
	if c.Seed != nil {
		return noise.NewInjectorWithSeed(*c.Seed)
	}
	return noise.NewInjector()
}

// Encode renders cfg as TOML.
func Encode(cfg Config) ([]byte, error) {
	out, err := gotoml.Marshal(fileConfig{
		Code:        cfg.Code,
		Probability: cfg.Probability,
		Seed:        cfg.Seed,
		MaskPolicy:  cfg.MaskPolicy,
		Trials:      cfg.Trials,
		LogLevel:    cfg.LogLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("config encode failed: %w", err)
	}
	return out, nil
}
