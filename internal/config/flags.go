package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// EnvVarName is the environment variable holding extra command line options.
const EnvVarName = "BUILDERBENCH"

// Repeatable name=power flag
type limitsFlag map[string]int

func (l limitsFlag) String() string {
	parts := []string{}
	for name, power := range l {
		parts = append(parts, fmt.Sprintf("%s=%d", name, power))
	}
	return strings.Join(parts, ",")
}

func (l limitsFlag) Set(value string) error {
	name, powerString, found := strings.Cut(value, "=")
	if !found || name == "" {
		return fmt.Errorf("expected name=power, got %q", value)
	}

	power, err := strconv.Atoi(powerString)
	if err != nil {
		return fmt.Errorf("bad power in %q: %w", value, err)
	}

	l[name] = power
	return nil
}

// Comma separated list flag
type listFlag struct {
	values *[]string
}

func (l listFlag) String() string {
	if l.values == nil {
		return ""
	}
	return strings.Join(*l.values, ",")
}

func (l listFlag) Set(value string) error {
	*l.values = nil
	for _, word := range strings.Split(value, ",") {
		word = strings.TrimSpace(word)
		if word != "" {
			*l.values = append(*l.values, word)
		}
	}
	return nil
}

// CommandLine is the result of parsing the command line.
type CommandLine struct {
	Config Config

	// Set by --version
	PrintVersion bool

	// Config file given by --config, empty if none
	ConfigFile string
}

// NewFlagSet creates a flag set that parses into the returned CommandLine.
//
// Settings from a config file must be loaded into the returned CommandLine's
// Config before any command line flags are applied, use Parse() for that.
func NewFlagSet() (*flag.FlagSet, *CommandLine) {
	commandLine := &CommandLine{Config: Default()}
	c := &commandLine.Config

	flagSet := flag.NewFlagSet("", flag.ContinueOnError)
	flagSet.BoolVar(&commandLine.PrintVersion, "version", false, "Prints the builderbench version number")
	flagSet.StringVar(&commandLine.ConfigFile, "config", "", "YAML `file` with settings, command line options override it")

	flagSet.IntVar(&c.Base, "base", c.Base, "Input sizes are base^1, base^2, ...")
	flagSet.IntVar(&c.PowerLimit, "power-limit", c.PowerLimit, "Highest power of base to measure")
	flagSet.DurationVar(&c.Timeout, "timeout", c.Timeout, "Stop measuring strategies slower than this, 0 means never")
	flagSet.Var(limitsFlag{}, "limit", "Highest power for one strategy as `name=power`, may be repeated")
	flagSet.Var(listFlag{&c.Strategies}, "strategies", "Comma separated `list` of strategies to run, default is all")
	flagSet.StringVar(&c.Format, "format", c.Format, "Output format: text, table, json or csv")
	flagSet.StringVar(&c.Output, "output", c.Output, "Also save results as JSON to this `file`, compressed if it ends in .gz, .zst, .xz or .sz")
	flagSet.StringVar(&c.Compare, "compare", c.Compare, "Compare with results previously saved to this `file`")
	flagSet.StringVar(&c.Prometheus, "prometheus", c.Prometheus, "Write metrics in Prometheus text format to this `file`")
	flagSet.StringVar(&c.Style, "style", c.Style,
		"JSON highlighting style from https://xyproto.github.io/splash/docs/longer/all.html")
	flagSet.StringVar(&c.Colors, "colors", c.Colors, "Highlighting palette size: 8, 16, 256, 16M")
	flagSet.BoolVar(&c.Debug, "debug", c.Debug, "Print debug logs")
	flagSet.BoolVar(&c.Trace, "trace", c.Trace, "Print trace logs")

	return flagSet, commandLine
}

// Parse parses args, words from the environment variable value envValue first.
//
// Precedence, from lowest to highest: defaults, --config file, environment
// variable, command line.
func Parse(flagSet *flag.FlagSet, commandLine *CommandLine, envValue string, args []string) error {
	envWords := strings.Fields(envValue)
	allArgs := append(envWords, args...)

	// The first pass finds --config
	err := flagSet.Parse(allArgs)
	if err != nil {
		return err
	}

	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", flagSet.Args())
	}

	if commandLine.ConfigFile == "" {
		return applyLimits(flagSet, commandLine)
	}

	// Reset to defaults, overlay the config file and parse again so that
	// flags win. Parsing only touches flags that are actually given.
	configFile := commandLine.ConfigFile
	commandLine.Config = Default()
	err = LoadFile(configFile, &commandLine.Config)
	if err != nil {
		return err
	}

	err = flagSet.Parse(allArgs)
	if err != nil {
		return err
	}

	return applyLimits(flagSet, commandLine)
}

// Merge --limit flags on top of any limits from the config file
func applyLimits(flagSet *flag.FlagSet, commandLine *CommandLine) error {
	limits := flagSet.Lookup("limit").Value.(limitsFlag)
	if len(limits) == 0 {
		return nil
	}

	if commandLine.Config.Limits == nil {
		commandLine.Config.Limits = map[string]int{}
	}
	for name, power := range limits {
		commandLine.Config.Limits[name] = power
	}
	return nil
}
