package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/walles/builderbench/internal/experiment"
)

var ErrInvalid = errors.New("invalid configuration")

// Config is everything that can be set from a config file, the BUILDERBENCH
// environment variable or the command line.
type Config struct {
	Base       int           `yaml:"base" validate:"min=2"`
	PowerLimit int           `yaml:"powerLimit" validate:"min=1,max=62"`
	Timeout    time.Duration `yaml:"timeout" validate:"min=0"`

	// Per strategy highest power to run
	Limits map[string]int `yaml:"limits" validate:"dive,min=0"`

	// Empty means all strategies
	Strategies []string `yaml:"strategies"`

	Format     string `yaml:"format" validate:"oneof=text table json csv"`
	Output     string `yaml:"output"`
	Compare    string `yaml:"compare"`
	Prometheus string `yaml:"prometheus"`

	// Highlighting of JSON output on terminals
	Style  string `yaml:"style" validate:"required"`
	Colors string `yaml:"colors" validate:"oneof=8 16 256 16M 16m"`

	Debug bool `yaml:"debug"`
	Trace bool `yaml:"trace"`
}

func Default() Config {
	defaults := experiment.DefaultOptions()
	return Config{
		Base:       defaults.Base,
		PowerLimit: defaults.PowerLimit,
		Timeout:    defaults.Timeout,
		Format:     "text",
		Style:      "native",
		Colors:     "16M",
	}
}

// LoadFile overlays the settings in a YAML file onto config. Settings missing
// from the file are left alone.
func LoadFile(filename string, config *Config) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	err = decoder.Decode(config)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	return nil
}

var validate = validator.New()

// Validate checks config for problems. knownStrategies are the strategy names
// that Strategies and Limits may refer to.
func (c Config) Validate(knownStrategies []string) error {
	err := validate.Struct(c)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	known := map[string]bool{}
	for _, name := range knownStrategies {
		known[name] = true
	}

	for _, name := range c.Strategies {
		if !known[name] {
			return fmt.Errorf("%w: unknown strategy %q, valid strategies are %s",
				ErrInvalid, name, strings.Join(knownStrategies, ", "))
		}
	}

	for name := range c.Limits {
		if !known[name] {
			return fmt.Errorf("%w: limit for unknown strategy %q, valid strategies are %s",
				ErrInvalid, name, strings.Join(knownStrategies, ", "))
		}
	}

	return nil
}

func (c Config) ExperimentOptions() experiment.Options {
	return experiment.Options{
		Base:       c.Base,
		PowerLimit: c.PowerLimit,
		Timeout:    c.Timeout,
		Limits:     c.Limits,
	}
}

// SelectStrategies picks the configured strategies out of all, or returns all
// of them if none are configured.
func (c Config) SelectStrategies(all map[string]experiment.Factory) map[string]experiment.Factory {
	if len(c.Strategies) == 0 {
		return all
	}

	selected := map[string]experiment.Factory{}
	for _, name := range c.Strategies {
		if factory, found := all[name]; found {
			selected[name] = factory
		}
	}
	return selected
}
