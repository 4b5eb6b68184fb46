// Package runconfig loads a simulation run's configuration from three
// layered sources, in ascending precedence: built-in defaults, an
// optional YAML file, then CLI flag overrides. This mirrors the
// defaults -> file -> flags layering used elsewhere in the corpus for
// session configuration.
package runconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/simerr"
	"github.com/FluffyMaguro/Matchmaking-simulation/pkg/strategy"
)

// RunConfig is the full set of knobs a simulation run needs.
type RunConfig struct {
	N     int    `yaml:"n"`
	Games int    `yaml:"games"`
	Seed  uint64 `yaml:"seed"`

	Strategy string `yaml:"strategy"` // one of strategy.Name's values

	KFactor       float64 `yaml:"k_factor"`
	KBase         float64 `yaml:"k_base"`
	KMin          float64 `yaml:"k_min"`
	GamesDivisor  float64 `yaml:"games_divisor"`
	Coefficient   float64 `yaml:"coefficient"`
	WindowPerSide int     `yaml:"window_per_side"`

	SkillDistribution string  `yaml:"skill_distribution"` // "gaussian" or "uniform"
	SkillMean         float64 `yaml:"skill_mean"`
	SkillStdDev       float64 `yaml:"skill_stddev"`
	SkillMin          float64 `yaml:"skill_min"`
	SkillMax          float64 `yaml:"skill_max"`

	OutputFile   string `yaml:"output_file"`
	OutputFormat string `yaml:"output_format"` // "csv" or "json"
}

// Default returns the built-in baseline configuration: 1000 players,
// 100000 games, the fixed-K Elo strategy, a standard-normal skill
// distribution, seed 1, and every strategy parameter left at its
// package-level default (see strategy.New).
func Default() RunConfig {
	return RunConfig{
		N:                 1000,
		Games:             100000,
		Seed:              1,
		Strategy:          string(strategy.Elo),
		SkillDistribution: "gaussian",
		SkillMean:         0,
		SkillStdDev:       1,
		OutputFormat:      "csv",
	}
}

// LoadFile reads and parses a YAML run configuration file, starting from
// Default() so any field the file omits keeps its default value.
func LoadFile(path string) (RunConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return RunConfig{}, fmt.Errorf("%w: %s", simerr.ErrInvalidArgument, path)
		}
		return RunConfig{}, simerr.Internal("runconfig: reading %s: %v", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return RunConfig{}, simerr.InvalidArgument("runconfig: parsing %s: %v", path, err)
	}
	return cfg, nil
}

// Validate checks the structural invariants a RunConfig must satisfy
// before a simulation run can start: N>=2, Games>0, a recognized
// strategy name, and a recognized skill distribution. Strategy-internal
// parameter validation (K ranges, games divisor, tweaked2_elo
// coefficient) is deferred to strategy.New, which this function's caller
// invokes next.
func (c RunConfig) Validate() error {
	if c.N < 2 {
		return simerr.InvalidArgument("runconfig: n must be at least 2, got %d", c.N)
	}
	if c.Games <= 0 {
		return simerr.InvalidArgument("runconfig: games must be positive, got %d", c.Games)
	}
	switch strategy.Name(c.Strategy) {
	case strategy.Naive, strategy.Elo, strategy.TweakedElo, strategy.Tweaked2Elo, strategy.Gaussian:
	default:
		return simerr.InvalidArgument("runconfig: unknown strategy %q", c.Strategy)
	}
	switch c.SkillDistribution {
	case "gaussian", "uniform":
	default:
		return simerr.InvalidArgument("runconfig: unknown skill_distribution %q", c.SkillDistribution)
	}
	return nil
}

// StrategyParams translates the flat RunConfig fields into a
// strategy.Params value, letting strategy.New apply per-strategy
// defaults to whichever fields were left at zero.
func (c RunConfig) StrategyParams() strategy.Params {
	return strategy.Params{
		KFactor:       c.KFactor,
		KBase:         c.KBase,
		KMin:          c.KMin,
		GamesDivisor:  c.GamesDivisor,
		Coefficient:   c.Coefficient,
		WindowPerSide: c.WindowPerSide,
	}
}

// CLIOverrides is the set of flags cmd/matchsim exposes. Every field is a
// pointer so ApplyCLIOverrides can distinguish "flag not passed" from
// "flag passed with the zero value" — the same distinction the corpus's
// go-flags-based CLI layer makes by comparing parsed values against a
// fresh defaults struct.
type CLIOverrides struct {
	N        *int
	Games    *int
	Seed     *uint64
	Strategy *string

	KFactor       *float64
	KBase         *float64
	KMin          *float64
	GamesDivisor  *float64
	Coefficient   *float64
	WindowPerSide *int

	OutputFile   *string
	OutputFormat *string
}

// ApplyCLIOverrides overwrites any field of cfg for which overrides
// supplies a non-nil pointer. It is the highest-precedence layer.
func ApplyCLIOverrides(cfg RunConfig, overrides CLIOverrides) RunConfig {
	if overrides.N != nil {
		cfg.N = *overrides.N
	}
	if overrides.Games != nil {
		cfg.Games = *overrides.Games
	}
	if overrides.Seed != nil {
		cfg.Seed = *overrides.Seed
	}
	if overrides.Strategy != nil {
		cfg.Strategy = *overrides.Strategy
	}
	if overrides.KFactor != nil {
		cfg.KFactor = *overrides.KFactor
	}
	if overrides.KBase != nil {
		cfg.KBase = *overrides.KBase
	}
	if overrides.KMin != nil {
		cfg.KMin = *overrides.KMin
	}
	if overrides.GamesDivisor != nil {
		cfg.GamesDivisor = *overrides.GamesDivisor
	}
	if overrides.Coefficient != nil {
		cfg.Coefficient = *overrides.Coefficient
	}
	if overrides.WindowPerSide != nil {
		cfg.WindowPerSide = *overrides.WindowPerSide
	}
	if overrides.OutputFile != nil {
		cfg.OutputFile = *overrides.OutputFile
	}
	if overrides.OutputFormat != nil {
		cfg.OutputFormat = *overrides.OutputFormat
	}
	return cfg
}
