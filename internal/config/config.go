// Package config holds the settings of a filter run, resolved by viper from
// command line flags, SOMATIC_FILTER_* environment variables and
// ~/.somatic-filter.yaml.
package config

import (
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/inodb/somatic-filter/internal/datasource/cosmic"
	"github.com/inodb/somatic-filter/internal/datasource/exac"
	"github.com/inodb/somatic-filter/internal/filter"
	"github.com/inodb/somatic-filter/internal/output"
)

// EnvPrefix is prepended to environment variable names.
const EnvPrefix = "SOMATIC_FILTER"

// Keys, shared by flags, environment variables and the config file.
const (
	KeyMAF            = "maf"
	KeyExAC           = "exac"
	KeyWhitelist      = "whitelist"
	KeyCosmic         = "cosmic"
	KeyCosmicVersion  = "cosmic-version"
	KeyMode           = "mode"
	KeyMinDepth       = "min-depth"
	KeyFilterSyn      = "filter-syn"
	KeyMinExACAC      = "min-exac-ac"
	KeyExACAggregate  = "exac-aggregate"
	KeyMinCosmicCount = "min-cosmic-count"
	KeyEngine         = "reference-engine"
	KeyOutputDir      = "output-dir"
	KeyPrefix         = "prefix"
	KeyPassName       = "pass-name"
	KeyRejectName     = "reject-name"
)

// Config is the resolved set of run settings.
type Config struct {
	// input tables
	MAF       string `mapstructure:"maf"`
	ExAC      string `mapstructure:"exac"`
	Whitelist string `mapstructure:"whitelist"`

	// COSMIC recurrence counts, required by recurrence mode
	Cosmic        string `mapstructure:"cosmic"`
	CosmicVersion string `mapstructure:"cosmic-version"`

	Mode           filter.Mode    `mapstructure:"mode"`
	MinDepth       int            `mapstructure:"min-depth"`
	FilterSyn      bool           `mapstructure:"filter-syn"`
	MinExACAC      int            `mapstructure:"min-exac-ac"`
	ExACAggregate  exac.Aggregate `mapstructure:"exac-aggregate"`
	MinCosmicCount int            `mapstructure:"min-cosmic-count"`
	Engine         Engine         `mapstructure:"reference-engine"`

	OutputDir  string `mapstructure:"output-dir"`
	Prefix     string `mapstructure:"prefix"`
	PassName   string `mapstructure:"pass-name"`
	RejectName string `mapstructure:"reject-name"`
}

// Engine selects how the ExAC table is held and joined.
type Engine int

const (
	// EngineMemory loads ExAC into a Go map.
	EngineMemory Engine = iota
	// EngineDuckDB loads ExAC into an in-memory DuckDB database.
	EngineDuckDB
)

func (e Engine) String() string {
	if e == EngineDuckDB {
		return "duckdb"
	}
	return "memory"
}

// UnmarshalText parses an engine name.
func (e *Engine) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "memory", "":
		*e = EngineMemory
	case "duckdb":
		*e = EngineDuckDB
	default:
		return fmt.Errorf("unknown reference engine %q (want memory or duckdb)", text)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (e Engine) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// ValidationError reports an unusable setting. The CLI treats it as a
// usage error.
type ValidationError struct {
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Key, e.Message)
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	files := output.DefaultFiles()
	v.SetDefault(KeyMode, filter.ModeSomatic.String())
	v.SetDefault(KeyMinDepth, 0)
	v.SetDefault(KeyFilterSyn, false)
	v.SetDefault(KeyMinExACAC, exac.DefaultThreshold)
	v.SetDefault(KeyExACAggregate, exac.AggregateAny.String())
	v.SetDefault(KeyMinCosmicCount, cosmic.DefaultMinCount)
	v.SetDefault(KeyEngine, EngineMemory.String())
	v.SetDefault(KeyOutputDir, files.Dir)
	v.SetDefault(KeyPassName, files.PassName)
	v.SetDefault(KeyRejectName, files.RejectName)
}

// BindEnv makes every key readable from SOMATIC_FILTER_<KEY>, with dashes
// replaced by underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	var c Config
	err := v.Unmarshal(&c, viper.DecodeHook(mapstructure.TextUnmarshallerHookFunc()))
	if err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks that required inputs are present and thresholds are
// usable.
func (c Config) Validate() error {
	switch {
	case c.MAF == "":
		return &ValidationError{Key: KeyMAF, Message: "a variant table is required"}
	case c.ExAC == "":
		return &ValidationError{Key: KeyExAC, Message: "a population frequency table is required"}
	case c.Mode == filter.ModeRecurrence && c.Cosmic == "":
		return &ValidationError{Key: KeyCosmic, Message: "recurrence mode requires a COSMIC count table"}
	case c.MinDepth < 0:
		return &ValidationError{Key: KeyMinDepth, Message: "must not be negative"}
	case c.MinExACAC < 0:
		return &ValidationError{Key: KeyMinExACAC, Message: "must not be negative"}
	case c.MinCosmicCount < 0:
		return &ValidationError{Key: KeyMinCosmicCount, Message: "must not be negative"}
	case c.PassName == "" || c.RejectName == "":
		return &ValidationError{Key: KeyPassName, Message: "output file names must not be empty"}
	case c.PassName == c.RejectName:
		return &ValidationError{Key: KeyRejectName, Message: "pass and reject files must differ"}
	}
	return nil
}

// Policy returns the decision policy.
func (c Config) Policy() filter.Policy {
	return filter.Policy{
		Mode:             c.Mode,
		RemoveSynonymous: c.FilterSyn,
		MinRecurrence:    c.MinCosmicCount,
	}
}

// Commonality returns the population commonality rule.
func (c Config) Commonality() exac.Commonality {
	return exac.Commonality{Threshold: c.MinExACAC, Aggregate: c.ExACAggregate}
}

// Files returns the output file locations.
func (c Config) Files() output.Files {
	return output.Files{
		Dir:        c.OutputDir,
		Prefix:     c.Prefix,
		PassName:   c.PassName,
		RejectName: c.RejectName,
	}
}
