package report

import (
	"fmt"
	"io"
	"time"

	"github.com/walles/builderbench/internal/util"
)

// Comparison is how one strategy's timing for one size changed between two
// runs.
type Comparison struct {
	Strategy string
	Size     int
	Before   time.Duration
	After    time.Duration
}

// Speedup is how many times faster After is than Before. Zero durations are
// treated as one nanosecond.
func (c Comparison) Speedup() float64 {
	return float64(max(c.Before, 1)) / float64(max(c.After, 1))
}

// Compare pairs up measurements present in both results, in the order they
// appear in current.
func Compare(previous Result, current Result) []Comparison {
	type key struct {
		strategy string
		size     int
	}

	before := map[key]time.Duration{}
	for _, round := range previous.Rounds {
		for _, m := range round.Measurements {
			before[key{m.Strategy, m.Size}] = m.Duration
		}
	}

	comparisons := []Comparison{}
	for _, round := range current.Rounds {
		for _, m := range round.Measurements {
			duration, found := before[key{m.Strategy, m.Size}]
			if !found {
				continue
			}

			comparisons = append(comparisons, Comparison{
				Strategy: m.Strategy,
				Size:     m.Size,
				Before:   duration,
				After:    m.Duration,
			})
		}
	}

	return comparisons
}

func WriteComparison(w io.Writer, comparisons []Comparison) error {
	for _, c := range comparisons {
		_, err := fmt.Fprintf(w, "%s %s: %dms -> %dms (%.2fx)\n",
			c.Strategy,
			util.FormatInt(c.Size),
			c.Before.Milliseconds(),
			c.After.Milliseconds(),
			c.Speedup(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
