package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/walles/builderbench/internal/experiment"
)

var csvHeader = []string{"strategy", "base", "power", "size", "resultLength", "durationMs", "maxRssBytes"}

func WriteCSV(w io.Writer, rounds []experiment.Round) error {
	writer := csv.NewWriter(w)
	err := writer.Write(csvHeader)
	if err != nil {
		return err
	}

	for _, round := range rounds {
		for _, m := range round.Measurements {
			err = writer.Write([]string{
				m.Strategy,
				strconv.Itoa(m.Base),
				strconv.Itoa(m.Power),
				strconv.Itoa(m.Size),
				strconv.Itoa(m.ResultLength),
				strconv.FormatInt(m.Duration.Milliseconds(), 10),
				strconv.FormatInt(m.MaxRSSBytes, 10),
			})
			if err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
