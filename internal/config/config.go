// Package config loads unwrapc settings from a YAML file, environment
// variables prefixed UNWRAPC_ and defaults, in increasing order of
// precedence: defaults, file, environment.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/orizon-lang/unwrap/internal/capability"
	uerrors "github.com/orizon-lang/unwrap/internal/errors"
	"github.com/orizon-lang/unwrap/internal/unwrap"
)

// EnvPrefix prefixes environment overrides, as in UNWRAPC_LOG_LEVEL.
const EnvPrefix = "UNWRAPC"

// FileName is the config file looked up when no path is given.
const FileName = "unwrapc"

// KindConfig describes a container kind in a config file.
type KindConfig struct {
	Name              string   `mapstructure:"name"`
	Types             []string `mapstructure:"types"`
	Predicate         string   `mapstructure:"predicate"`
	Accessor          string   `mapstructure:"accessor"`
	AlternateAccessor string   `mapstructure:"alternate_accessor"`
	AlternateFactory  string   `mapstructure:"alternate_factory"`
	SuccessFactory    string   `mapstructure:"success_factory"`
}

// Kind converts the entry to a capability kind.
func (k KindConfig) Kind() *capability.Kind {
	return &capability.Kind{
		Name:               k.Name,
		Types:              append([]string(nil), k.Types...),
		AlternatePredicate: k.Predicate,
		SuccessAccessor:    k.Accessor,
		AlternateAccessor:  k.AlternateAccessor,
		AlternateFactory:   k.AlternateFactory,
		SuccessFactory:     k.SuccessFactory,
	}
}

// Config holds every setting of a run.
type Config struct {
	Sentinel     string       `mapstructure:"sentinel"`
	TempPrefix   string       `mapstructure:"temp_prefix"`
	BuiltinKinds bool         `mapstructure:"builtin_kinds"`
	Kinds        []KindConfig `mapstructure:"kinds"`
	LogLevel     string       `mapstructure:"log_level"`
	// Color is auto, always or never.
	Color      string `mapstructure:"color"`
	Workers    int    `mapstructure:"workers"`
	Assertions bool   `mapstructure:"assertions"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Sentinel:     unwrap.DefaultSentinel,
		TempPrefix:   unwrap.DefaultTempPrefix,
		BuiltinKinds: true,
		LogLevel:     "warn",
		Color:        "auto",
		Workers:      runtime.NumCPU(),
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("sentinel", d.Sentinel)
	v.SetDefault("temp_prefix", d.TempPrefix)
	v.SetDefault("builtin_kinds", d.BuiltinKinds)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("color", d.Color)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("assertions", d.Assertions)
}

// Load reads the config file at path. With an empty path, unwrapc.yaml is
// looked up in the working directory and its absence is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Validate reports the first setting the pass cannot run with.
func (c *Config) Validate() error {
	switch {
	case !identifier.MatchString(c.Sentinel):
		return uerrors.InvalidConfig(fmt.Sprintf("sentinel %q is not an identifier", c.Sentinel))
	case !identifier.MatchString(c.TempPrefix):
		return uerrors.InvalidConfig(fmt.Sprintf("temp_prefix %q is not an identifier", c.TempPrefix))
	case c.Workers < 1:
		return uerrors.InvalidConfig(fmt.Sprintf("workers must be positive, got %d", c.Workers))
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		return uerrors.InvalidConfig(fmt.Sprintf("color must be auto, always or never, got %q", c.Color))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return uerrors.InvalidConfig(fmt.Sprintf("log_level: %v", err))
	}
	reg, err := c.Registry()
	if err != nil {
		return uerrors.InvalidConfig(err.Error())
	}
	// An extraction named like the sentinel would be found again as a site.
	for _, k := range reg.Kinds() {
		for _, member := range []string{k.AlternatePredicate, k.SuccessAccessor, k.AlternateAccessor} {
			if member == c.Sentinel {
				return uerrors.InvalidConfig(fmt.Sprintf("sentinel %q is a member of container kind %s", c.Sentinel, k.Name))
			}
		}
	}
	return nil
}

// Registry builds the container registry: the built-in kinds unless
// disabled, then the configured ones.
func (c *Config) Registry() (*capability.Registry, error) {
	var kinds []*capability.Kind
	if c.BuiltinKinds {
		kinds = append(kinds, capability.Either, capability.Option, capability.Try, capability.Result)
	}
	for _, k := range c.Kinds {
		kinds = append(kinds, k.Kind())
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("no container kinds configured")
	}
	return capability.NewRegistry(kinds...)
}

// PassOptions returns the pass settings of the config.
func (c *Config) PassOptions(log *zerolog.Logger) (unwrap.Options, error) {
	reg, err := c.Registry()
	if err != nil {
		return unwrap.Options{}, err
	}
	return unwrap.Options{
		Sentinel:   c.Sentinel,
		TempPrefix: c.TempPrefix,
		Resolver:   capability.NewTypeResolver(reg),
		Logger:     log,
	}, nil
}
