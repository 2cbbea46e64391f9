package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/walles/builderbench/internal/config"
	"github.com/walles/builderbench/internal/experiment"
)

func heading(text string, styled bool) string {
	if !styled {
		return text
	}

	// Italic
	return "\x1b[3m" + text + "\x1b[23m"
}

// If the environment variable is set, render it as APA=bepa indented two
// spaces, plus a newline at the end. Otherwise, return an empty string.
func renderPlainEnvVar(envVarName string) string {
	value := os.Getenv(envVarName)
	if value == "" {
		return ""
	}

	return fmt.Sprintf("  %s=%s\n", envVarName, value)
}

func printCommandline() {
	_, _ = fmt.Fprintln(os.Stderr, "Commandline: builderbench", strings.Join(os.Args[1:], " "))
	_, _ = fmt.Fprintf(os.Stderr, "Environment: %s=\"%v\"\n", config.EnvVarName, os.Getenv(config.EnvVarName))
	_, _ = fmt.Fprintln(os.Stderr)
}

func printUsage(flagSet *flag.FlagSet, styled bool) {
	// This controls where PrintDefaults() prints, see below
	flagSet.SetOutput(os.Stdout)

	fmt.Println(heading("Usage", styled))
	fmt.Println("  builderbench [options]")
	fmt.Println()
	fmt.Println("Measures how long it takes to build strings of base^1, base^2, ... base^power-limit")
	fmt.Println("digits using different string building strategies, and checks that all")
	fmt.Println("strategies agree on the result.")
	fmt.Println()
	fmt.Println(heading("Strategies", styled))
	fmt.Println("  " + experiment.StrategyByteBuilder + ": UTF-8 bytes in a doubling buffer")
	fmt.Println("  " + experiment.StrategyCodeUnitBuilder + ": UTF-16 code units in a doubling buffer, decoded in chunks")
	fmt.Println("  " + experiment.StrategyConcat + ": appending to a string")
	fmt.Println("  " + experiment.StrategyArrayJoin + ": collecting fragments, then joining them")
	fmt.Println("  " + experiment.StrategyStdBuilder + ": strings.Builder from the Go standard library")
	fmt.Println()
	fmt.Println(heading("Environment", styled))

	envVarValue := os.Getenv(config.EnvVarName)
	if len(envVarValue) == 0 {
		fmt.Printf("  Additional options are read from the %s environment variable if set.\n", config.EnvVarName)
		fmt.Printf("  But currently, the %s environment variable is not set.\n", config.EnvVarName)
	} else {
		fmt.Printf("  Additional options are read from the %s environment variable.\n", config.EnvVarName)
		fmt.Printf("  Current setting: %s=\"%s\"\n", config.EnvVarName, envVarValue)
	}

	envSection := ""
	envSection += renderPlainEnvVar("TERM")
	envSection += renderPlainEnvVar("COLORTERM")
	if envSection != "" {
		fmt.Println()

		// Not Println since the section already ends with a newline
		fmt.Print(envSection)
	}

	fmt.Println()
	fmt.Println(heading("Options", styled))

	flagSet.PrintDefaults()
}
