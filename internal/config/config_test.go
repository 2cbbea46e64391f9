package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"

	"github.com/walles/builderbench/internal/experiment"
)

var knownStrategies = []string{"arrayJoin", "builder", "concat", "fastBuilder", "stdBuilder"}

func parse(t *testing.T, envValue string, args ...string) (*CommandLine, error) {
	t.Helper()

	flagSet, commandLine := NewFlagSet()
	flagSet.SetOutput(&discard{})
	err := Parse(flagSet, commandLine, envValue, args)
	return commandLine, err
}

type discard struct{}

func (discard) Write(p []byte) (int, error) {
	return len(p), nil
}

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()

	filename := filepath.Join(t.TempDir(), "builderbench.yaml")
	assert.NilError(t, os.WriteFile(filename, []byte(contents), 0o600))
	return filename
}

func TestDefaults(t *testing.T) {
	commandLine, err := parse(t, "")
	assert.NilError(t, err)

	assert.DeepEqual(t, Default(), commandLine.Config)
	assert.NilError(t, commandLine.Config.Validate(knownStrategies))

	options := commandLine.Config.ExperimentOptions()
	assert.DeepEqual(t, experiment.DefaultOptions(), options)
}

func TestFlags(t *testing.T) {
	commandLine, err := parse(t, "",
		"--base", "10",
		"--power-limit", "5",
		"--timeout", "3s",
		"--limit", "concat=3",
		"--limit", "arrayJoin=4",
		"--strategies", "concat, builder",
		"--format", "table",
	)
	assert.NilError(t, err)

	c := commandLine.Config
	assert.Equal(t, 10, c.Base)
	assert.Equal(t, 5, c.PowerLimit)
	assert.Equal(t, 3*time.Second, c.Timeout)
	assert.DeepEqual(t, map[string]int{"concat": 3, "arrayJoin": 4}, c.Limits)
	assert.DeepEqual(t, []string{"concat", "builder"}, c.Strategies)
	assert.Equal(t, "table", c.Format)
	assert.NilError(t, c.Validate(knownStrategies))
}

func TestEnvironmentVariable(t *testing.T) {
	commandLine, err := parse(t, " --base 3   --format csv ", "--format", "json")
	assert.NilError(t, err)

	assert.Equal(t, 3, commandLine.Config.Base)

	// Command line wins over the environment
	assert.Equal(t, "json", commandLine.Config.Format)
}

func TestConfigFile(t *testing.T) {
	filename := writeConfigFile(t, ""+
		"base: 4\n"+
		"powerLimit: 9\n"+
		"timeout: 500ms\n"+
		"limits:\n"+
		"  concat: 5\n"+
		"strategies: [builder, concat]\n"+
		"format: csv\n")

	commandLine, err := parse(t, "", "--config", filename, "--power-limit", "7", "--limit", "builder=6")
	assert.NilError(t, err)

	c := commandLine.Config
	assert.Equal(t, 4, c.Base)
	assert.Equal(t, 7, c.PowerLimit)
	assert.Equal(t, 500*time.Millisecond, c.Timeout)
	assert.DeepEqual(t, map[string]int{"concat": 5, "builder": 6}, c.Limits)
	assert.DeepEqual(t, []string{"builder", "concat"}, c.Strategies)
	assert.Equal(t, "csv", c.Format)

	// Not in the file, so still at the default
	assert.Equal(t, "native", c.Style)
}

func TestConfigFileUnknownField(t *testing.T) {
	filename := writeConfigFile(t, "bass: 4\n")

	_, err := parse(t, "", "--config", filename)
	assert.ErrorContains(t, err, "bass")
}

func TestConfigFileMissing(t *testing.T) {
	_, err := parse(t, "", "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Assert(t, errors.Is(err, os.ErrNotExist), "%v", err)
}

func TestBadFlags(t *testing.T) {
	_, err := parse(t, "", "--limit", "concat")
	assert.ErrorContains(t, err, "expected name=power")

	_, err = parse(t, "", "--limit", "concat=x")
	assert.ErrorContains(t, err, "bad power")

	_, err = parse(t, "", "extra")
	assert.ErrorContains(t, err, "unexpected arguments")
}

func TestValidate(t *testing.T) {
	invalid := map[string]func(c *Config){
		"base 1":         func(c *Config) { c.Base = 1 },
		"power limit 0":  func(c *Config) { c.PowerLimit = 0 },
		"power limit 63": func(c *Config) { c.PowerLimit = 63 },
		"negative time":  func(c *Config) { c.Timeout = -time.Second },
		"bad format":     func(c *Config) { c.Format = "xml" },
		"bad colors":     func(c *Config) { c.Colors = "17" },
		"no style":       func(c *Config) { c.Style = "" },
		"bad strategy":   func(c *Config) { c.Strategies = []string{"nope"} },
		"bad limit name": func(c *Config) { c.Limits = map[string]int{"nope": 3} },
		"negative limit": func(c *Config) { c.Limits = map[string]int{"concat": -1} },
	}

	for name, breakIt := range invalid {
		c := Default()
		breakIt(&c)

		err := c.Validate(knownStrategies)
		assert.Assert(t, errors.Is(err, ErrInvalid), "%s: %v", name, err)
	}
}

func TestSelectStrategies(t *testing.T) {
	all := experiment.DefaultStrategies()

	c := Default()
	assert.Equal(t, len(all), len(c.SelectStrategies(all)))

	c.Strategies = []string{"concat", "builder"}
	selected := c.SelectStrategies(all)
	assert.Equal(t, 2, len(selected))
	assert.Assert(t, selected["concat"] != nil)
	assert.Assert(t, selected["builder"] != nil)
}
