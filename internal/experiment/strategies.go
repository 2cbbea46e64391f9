package experiment

import (
	"strings"

	"github.com/walles/builderbench/internal/builder"
)

// Names of the built in strategies
const (
	StrategyByteBuilder     = "builder"
	StrategyCodeUnitBuilder = "fastBuilder"
	StrategyConcat          = "concat"
	StrategyArrayJoin       = "arrayJoin"
	StrategyStdBuilder      = "stdBuilder"
)

// Factory creates a fresh, empty builder for one measurement.
type Factory func() builder.Builder

// DefaultStrategies returns all built in strategies by name.
func DefaultStrategies() map[string]Factory {
	return map[string]Factory{
		StrategyByteBuilder: func() builder.Builder {
			return builder.NewByteBuilder()
		},
		StrategyCodeUnitBuilder: func() builder.Builder {
			return builder.NewCodeUnitBuilder()
		},
		StrategyConcat: func() builder.Builder {
			return &concatBuilder{}
		},
		StrategyArrayJoin: func() builder.Builder {
			return &joinBuilder{}
		},
		StrategyStdBuilder: func() builder.Builder {
			return &strings.Builder{}
		},
	}
}

// Appends by creating a new string every time, this is what we're comparing
// against.
type concatBuilder struct {
	result string
}

func (c *concatBuilder) WriteString(s string) (int, error) {
	c.result += s
	return len(s), nil
}

func (c *concatBuilder) String() string {
	return c.result
}

func (c *concatBuilder) Len() int {
	return len(c.result)
}

// Collects all fragments, then joins them once at the end.
type joinBuilder struct {
	fragments []string
	length    int
}

func (j *joinBuilder) WriteString(s string) (int, error) {
	j.fragments = append(j.fragments, s)
	j.length += len(s)
	return len(s), nil
}

func (j *joinBuilder) String() string {
	return strings.Join(j.fragments, "")
}

func (j *joinBuilder) Len() int {
	return j.length
}
