package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/walles/builderbench/internal/experiment"
)

// Result is everything we know about one benchmark run. This is what gets
// saved by --output and read back by --compare.
type Result struct {
	RunID      string             `json:"runId"`
	Started    time.Time          `json:"started"`
	Strategies []string           `json:"strategies"`
	Options    experiment.Options `json:"options"`
	Rounds     []experiment.Round `json:"rounds"`
}

func NewResult(started time.Time, strategies []string, options experiment.Options, rounds []experiment.Round) Result {
	return Result{
		RunID:      uuid.NewString(),
		Started:    started,
		Strategies: strategies,
		Options:    options,
		Rounds:     rounds,
	}
}

func WriteJSON(w io.Writer, result Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func ReadJSON(r io.Reader) (Result, error) {
	var result Result
	err := json.NewDecoder(r).Decode(&result)
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse result: %w", err)
	}
	return result, nil
}
