package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/term"

	"github.com/walles/builderbench/internal/builder"
	"github.com/walles/builderbench/internal/config"
	"github.com/walles/builderbench/internal/experiment"
	"github.com/walles/builderbench/internal/report"
	"github.com/walles/builderbench/internal/util"
	"github.com/walles/builderbench/internal/zio"
)

var versionString = "Should be set when building, please use build.sh to build"

// printProblemsHeader prints bug reporting information to stderr
func printProblemsHeader() {
	fmt.Fprintln(os.Stderr, "Please include the following information when reporting problems.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Version:", versionString)
	fmt.Fprintln(os.Stderr, "LANG   :", os.Getenv("LANG"))
	fmt.Fprintln(os.Stderr, "TERM   :", os.Getenv("TERM"))
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "GOOS    :", runtime.GOOS)
	fmt.Fprintln(os.Stderr, "GOARCH  :", runtime.GOARCH)
	fmt.Fprintln(os.Stderr, "Compiler:", runtime.Compiler)
	fmt.Fprintln(os.Stderr, "NumCPU  :", runtime.NumCPU())
	fmt.Fprintln(os.Stderr)
	printCommandline()
}

func parseStyleOption(styleOption string) (chroma.Style, error) {
	style, ok := styles.Registry[styleOption]
	if !ok {
		return chroma.Style{}, fmt.Errorf(
			"unrecognized style \"%s\", pick a style from here: https://xyproto.github.io/splash/docs/longer/all.html",
			styleOption)
	}

	return *style, nil
}

func parseColorsOption(colorsOption string) (chroma.Formatter, error) {
	switch strings.ToUpper(colorsOption) {
	case "8":
		return formatters.TTY8, nil
	case "16":
		return formatters.TTY16, nil
	case "256":
		return formatters.TTY256, nil
	case "16M":
		return formatters.TTY16m, nil
	}

	return nil, fmt.Errorf("invalid color count \"%s\", valid counts are 8, 16, 256 or 16M", colorsOption)
}

// Counts warnings and worse, so we know whether to show the collected logs
type problemCounter struct {
	count int
}

func (p *problemCounter) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel}
}

func (p *problemCounter) Fire(_ *log.Entry) error {
	p.count++
	return nil
}

// Everything we need to know about the output besides the config
type outputOptions struct {
	// Highlight JSON output if true
	highlight bool
	style     chroma.Style
	formatter chroma.Formatter
}

// run measures the configured strategies and writes the results to output
// according to c.
func run(c config.Config, all map[string]experiment.Factory, output io.Writer, outputOptions outputOptions) error {
	factories := c.SelectStrategies(all)
	names := maps.Keys(factories)
	slices.Sort(names)

	started := time.Now()
	log.Info("Measuring strategies: ", strings.Join(names, ", "))
	rounds, runErr := experiment.Run(c.ExperimentOptions(), factories)
	result := report.NewResult(started, names, c.ExperimentOptions(), rounds)
	log.Debug("Run took ", time.Since(started))

	// Report what we have even if the run failed half way
	err := writeResult(c, names, result, output, outputOptions)
	if err != nil {
		return errors.Join(runErr, err)
	}

	if c.Output != "" {
		err = saveResult(c.Output, result)
		if err != nil {
			return errors.Join(runErr, err)
		}
	}

	if c.Prometheus != "" {
		err = report.WritePrometheusTextfile(c.Prometheus, result)
		if err != nil {
			return errors.Join(runErr, fmt.Errorf("failed to write Prometheus metrics: %w", err))
		}
	}

	if c.Compare != "" {
		err = compareWith(c.Compare, result, output)
		if err != nil {
			return errors.Join(runErr, err)
		}
	}

	return runErr
}

func writeResult(c config.Config, names []string, result report.Result, output io.Writer, outputOptions outputOptions) error {
	switch c.Format {
	case "text":
		return report.WriteLogLines(output, result.Rounds)
	case "table":
		return report.WriteTable(output, names, result.Rounds)
	case "csv":
		return report.WriteCSV(output, result.Rounds)
	case "json":
		json := builder.NewByteBuilder()
		err := report.WriteJSON(json, result)
		if err != nil {
			return err
		}

		text := json.String()
		if outputOptions.highlight {
			text, err = report.Highlight(text, outputOptions.style, outputOptions.formatter)
			if err != nil {
				return err
			}
		}

		_, err = io.WriteString(output, text)
		return err
	}

	return fmt.Errorf("unsupported format %q", c.Format)
}

func saveResult(filename string, result report.Result) error {
	writer, err := zio.ZCreate(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}

	err = report.WriteJSON(writer, result)
	if err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	err = writer.Close()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	log.Info("Results saved to ", filename)
	return nil
}

func compareWith(filename string, result report.Result, output io.Writer) error {
	reader, _, err := zio.ZOpen(filename)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer reader.Close()

	previous, err := report.ReadJSON(reader)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	comparisons := report.Compare(previous, result)
	if len(comparisons) == 0 {
		log.Warn("Nothing in common with ", filename)
		return nil
	}

	_, err = fmt.Fprintf(output, "\nCompared to %s from %s:\n", previous.RunID, previous.Started.Format(time.RFC3339))
	if err != nil {
		return err
	}
	return report.WriteComparison(output, comparisons)
}

func main() {
	defer func() {
		err := recover()
		if err == nil {
			return
		}

		printProblemsHeader()
		panic(err)
	}()

	stdoutIsTerminal := term.IsTerminal(int(os.Stdout.Fd()))

	flagSet, commandLine := config.NewFlagSet()
	flagSet.SetOutput(io.Discard)
	flagSet.Usage = func() {
		printUsage(flagSet, stdoutIsTerminal)
	}

	err := config.Parse(flagSet, commandLine, os.Getenv(config.EnvVarName), os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR: Command line parsing failed:", err.Error())
		fmt.Fprintln(os.Stderr)
		printCommandline()
		fmt.Fprintln(os.Stderr, "Run with --help for usage information.")
		os.Exit(1)
	}

	if commandLine.PrintVersion {
		fmt.Println(versionString)
		os.Exit(0)
	}

	c := commandLine.Config
	all := experiment.DefaultStrategies()
	knownStrategies := maps.Keys(all)
	slices.Sort(knownStrategies)
	err = c.Validate(knownStrategies)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		fmt.Fprintln(os.Stderr)
		printCommandline()
		os.Exit(1)
	}

	style, err := parseStyleOption(c.Style)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
	formatter, err := parseColorsOption(c.Colors)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}

	log.SetLevel(log.InfoLevel)
	if c.Trace {
		log.SetLevel(log.TraceLevel)
	} else if c.Debug {
		log.SetLevel(log.DebugLevel)
	}

	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.RFC3339Nano,
	})

	var loglines util.LogWriter
	problems := &problemCounter{}
	log.SetOutput(&loglines)
	log.AddHook(problems)

	err = run(c, all, os.Stdout, outputOptions{
		highlight: stdoutIsTerminal,
		style:     style,
		formatter: formatter,
	})

	if problems.count > 0 || c.Debug || c.Trace {
		fmt.Fprintln(os.Stderr)
		fmt.Fprint(os.Stderr, loglines.String())
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}
