package experiment

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrMismatch = errors.New("strategies produced different results")
var ErrSizeOverflow = errors.New("input size does not fit in an int")

// Options controls which input sizes get measured, and when to give up on slow
// strategies.
type Options struct {
	// Input sizes are Base^1, Base^2, ..., Base^PowerLimit
	Base       int `json:"base"`
	PowerLimit int `json:"powerLimit"`

	// Strategies slower than this are not run for larger sizes. Zero means no
	// timeout.
	Timeout time.Duration `json:"timeoutNs"`

	// Per strategy highest power to run
	Limits map[string]int `json:"limits,omitempty"`
}

func DefaultOptions() Options {
	return Options{
		Base:       2,
		PowerLimit: 27,
		Timeout:    2000 * time.Millisecond,
	}
}

// Measurement is the outcome of running one strategy for one input size.
type Measurement struct {
	Strategy string        `json:"strategy"`
	Base     int           `json:"base"`
	Power    int           `json:"power"`
	Size     int           `json:"size"`
	Duration time.Duration `json:"durationNs"`

	// Length of the finalized string in bytes. For the digit input this
	// equals the number of characters.
	ResultLength int `json:"resultLength"`

	// Peak RSS of the whole process after this measurement, 0 if unknown
	MaxRSSBytes int64 `json:"maxRssBytes,omitempty"`
}

// Round is all measurements for one input size.
type Round struct {
	Power        int           `json:"power"`
	Size         int           `json:"size"`
	Measurements []Measurement `json:"measurements"`

	// Strategies not run this round because of timeouts or limits
	Skipped []string `json:"skipped,omitempty"`
}

// Lookup returns the measurement for the named strategy, or nil if the
// strategy didn't run this round.
func (r Round) Lookup(strategy string) *Measurement {
	for i := range r.Measurements {
		if r.Measurements[i].Strategy == strategy {
			return &r.Measurements[i]
		}
	}
	return nil
}

// Strategies that have been dropped from further rounds
type disabledSet map[string]bool

// Run measures all factories for all sizes in options. Strategies run in name
// order.
//
// On errors, the rounds completed so far are returned together with the error.
func Run(options Options, factories map[string]Factory) ([]Round, error) {
	if options.Base < 2 {
		return nil, fmt.Errorf("base must be at least 2, got %d", options.Base)
	}

	names := maps.Keys(factories)
	slices.Sort(names)

	disabled := disabledSet{}
	rounds := []Round{}
	size := 1
	for power := 1; power <= options.PowerLimit; power++ {
		if size > math.MaxInt/options.Base {
			return rounds, fmt.Errorf("%d^%d: %w", options.Base, power, ErrSizeOverflow)
		}
		size *= options.Base

		round, err := runRound(options, power, size, names, factories, disabled)
		rounds = append(rounds, round)
		if err != nil {
			return rounds, err
		}
	}

	return rounds, nil
}

// Runs one round and updates disabled with strategies that shouldn't be part of
// the next one.
func runRound(options Options, power int, size int, names []string, factories map[string]Factory, disabled disabledSet) (Round, error) {
	round := Round{
		Power: power,
		Size:  size,
	}

	var reference string
	referenceName := ""
	for _, name := range names {
		if disabled[name] {
			round.Skipped = append(round.Skipped, name)
			continue
		}

		if limit, found := options.Limits[name]; found && power > limit {
			log.Debugf("%s: power %d exceeds limit %d, disabling", name, power, limit)
			disabled[name] = true
			round.Skipped = append(round.Skipped, name)
			continue
		}

		result, duration := Measure(factories[name], size)
		measurement := Measurement{
			Strategy:     name,
			Base:         options.Base,
			Power:        power,
			Size:         size,
			ResultLength: len(result),
			Duration:     duration,
			MaxRSSBytes:  maxRSSBytes(),
		}
		round.Measurements = append(round.Measurements, measurement)

		log.WithFields(log.Fields{
			"strategy": name,
			"size":     size,
			"length":   measurement.ResultLength,
			"ms":       duration.Milliseconds(),
		}).Info(fmt.Sprintf("%s %d^%d", name, options.Base, power))

		if options.Timeout > 0 && duration > options.Timeout {
			log.Infof("%s took %v for size %d, more than the %v timeout, disabling",
				name, duration, size, options.Timeout)
			disabled[name] = true
		}

		if referenceName == "" {
			reference = result
			referenceName = name
			continue
		}

		if result != reference {
			return round, fmt.Errorf("%s and %s, size %d: %w", referenceName, name, size, ErrMismatch)
		}
	}

	return round, nil
}

// Measure appends the digits of i%10 for every i in [0, size) to a new builder
// and finalizes it. The returned duration covers both appending and
// finalizing.
func Measure(factory Factory, size int) (string, time.Duration) {
	builder := factory()

	start := time.Now()
	for i := 0; i < size; i++ {
		_, _ = builder.WriteString(strconv.Itoa(i % 10))
	}
	result := builder.String()

	return result, time.Since(start)
}
