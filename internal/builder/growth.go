package builder

import "math"

// Builder is what both string builders have in common, and what the
// experiment harness drives.
type Builder interface {
	WriteString(s string) (int, error)
	String() string

	// Number of storage units in use. Bytes for the byte builder, UTF-16 code
	// units for the code unit builder.
	Len() int
}

// GrowthStats tracks how much copying buffer growth has cost so far.
type GrowthStats struct {
	// Number of times the backing buffer has been replaced
	Reallocations int

	// Total number of units copied from old buffers into new ones
	CopiedUnits int
}

func (s *GrowthStats) record(copied int) {
	s.Reallocations++
	s.CopiedUnits += copied
}

// Doubles the current capacity until it covers target. A zero current capacity
// starts over from initial. If doubling would overflow an int, target itself is
// returned.
func grownCapacity(current int, initial int, target int) int {
	capacity := current
	if capacity < initial {
		capacity = initial
	}

	for capacity < target {
		if capacity > math.MaxInt/2 {
			return target
		}
		capacity *= 2
	}

	return capacity
}
