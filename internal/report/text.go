package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/walles/builderbench/internal/builder"
	"github.com/walles/builderbench/internal/experiment"
	"github.com/walles/builderbench/internal/util"
)

// LogLine renders a measurement as "name base^power size length ms".
func LogLine(m experiment.Measurement) string {
	return fmt.Sprintf("%s %d^%d %d %d %d",
		m.Strategy, m.Base, m.Power, m.Size, m.ResultLength, m.Duration.Milliseconds())
}

// WriteLogLines writes one LogLine() per measurement.
func WriteLogLines(w io.Writer, rounds []experiment.Round) error {
	for _, round := range rounds {
		for _, measurement := range round.Measurements {
			_, err := fmt.Fprintln(w, LogLine(measurement))
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTable writes one row per round and one column per strategy, with
// durations in milliseconds. Strategies that didn't run are shown as "-".
func WriteTable(w io.Writer, strategies []string, rounds []experiment.Round) error {
	rows := [][]string{append([]string{"size"}, strategies...)}
	for _, round := range rounds {
		row := []string{util.FormatInt(round.Size)}
		for _, strategy := range strategies {
			measurement := round.Lookup(strategy)
			if measurement == nil {
				row = append(row, "-")
				continue
			}
			row = append(row, util.FormatInt(int(measurement.Duration.Milliseconds())))
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for column, cell := range row {
			widths[column] = max(widths[column], uniseg.StringWidth(cell))
		}
	}

	for _, row := range rows {
		line := builder.NewByteBuilder()
		for column, cell := range row {
			if column > 0 {
				line.Append("  ")
			}

			// Right align
			line.Append(strings.Repeat(" ", widths[column]-uniseg.StringWidth(cell)))
			line.Append(cell)
		}
		line.Append("\n")

		_, err := io.WriteString(w, line.String())
		if err != nil {
			return err
		}
	}

	return nil
}
