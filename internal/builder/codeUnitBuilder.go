package builder

import (
	"fmt"
	"unicode/utf16"
)

// InitialCodeUnitCapacity is how many UTF-16 code units a new CodeUnitBuilder
// can hold before its first reallocation.
const InitialCodeUnitCapacity = 512

// MaxChunk is the largest number of code units decoded in one go by
// CodeUnitBuilder.String().
const MaxChunk = 1<<27 - 1

// CodeUnitBuilder accumulates text as UTF-16 code units, and decodes them back
// into a string in chunks of at most MaxChunk units.
//
// The zero value is ready to use. A CodeUnitBuilder is not safe for concurrent
// use.
type CodeUnitBuilder struct {
	units []uint16

	// Logical length in units, this is the highest end offset ever passed to
	// Reserve()
	length int

	// Where the next appended unit goes
	position int

	maxChunk int
	stats    GrowthStats
}

func NewCodeUnitBuilder() *CodeUnitBuilder {
	return NewCodeUnitBuilderWithMaxChunk(MaxChunk)
}

// NewCodeUnitBuilderWithMaxChunk creates a builder that decodes at most
// maxChunk code units at a time. Two units is the minimum, anything less can't
// hold a surrogate pair.
func NewCodeUnitBuilderWithMaxChunk(maxChunk int) *CodeUnitBuilder {
	if maxChunk < 2 {
		panic(fmt.Errorf("max chunk must be at least 2, got %d", maxChunk))
	}

	return &CodeUnitBuilder{
		units:    make([]uint16, InitialCodeUnitCapacity),
		maxChunk: maxChunk,
	}
}

// Reserve makes sure the builder can hold at least targetEnd units, and raises
// the logical length to targetEnd if it was lower.
func (b *CodeUnitBuilder) Reserve(targetEnd int) {
	if targetEnd < 0 {
		panic(fmt.Errorf("reserve target must be at least 0, got %d", targetEnd))
	}

	if targetEnd <= len(b.units) {
		if targetEnd > b.length {
			b.length = targetEnd
		}
		return
	}

	newUnits := make([]uint16, grownCapacity(len(b.units), InitialCodeUnitCapacity, targetEnd))
	copy(newUnits, b.units)
	b.stats.record(len(b.units))
	b.units = newUnits

	// INVARIANT: b.length <= old capacity < targetEnd
	b.length = targetEnd
}

// Append adds the UTF-16 code units of text to the end of the builder and
// returns the builder itself.
func (b *CodeUnitBuilder) Append(text string) *CodeUnitBuilder {
	b.Reserve(b.position + utf16Len(text))

	position := b.position
	for _, char := range text {
		if char >= 0x10000 {
			high, low := utf16.EncodeRune(char)
			b.units[position] = uint16(high)
			b.units[position+1] = uint16(low)
			position += 2
			continue
		}

		b.units[position] = uint16(char)
		position++
	}
	b.position = position

	return b
}

// AppendUnits adds raw code units to the end of the builder. Nothing is
// validated, unpaired surrogates will come out of String() as U+FFFD.
func (b *CodeUnitBuilder) AppendUnits(units []uint16) *CodeUnitBuilder {
	b.Reserve(b.position + len(units))
	b.position += copy(b.units[b.position:], units)
	return b
}

func (b *CodeUnitBuilder) WriteString(s string) (int, error) {
	b.Append(s)
	return len(s), nil
}

// String decodes units [0, Len()) back into a string.
func (b *CodeUnitBuilder) String() string {
	maxChunk := b.maxChunk
	if maxChunk == 0 {
		// Zero value builder
		maxChunk = MaxChunk
	}

	if b.length < maxChunk {
		return string(appendDecoded(make([]byte, 0, b.length), b.units[:b.length]))
	}

	decoded := make([]byte, 0, b.length)
	for start := 0; start < b.length; {
		end := start + maxChunk
		if end >= b.length {
			end = b.length
		} else if startsSurrogatePair(b.units, end-1) {
			// Don't split the pair between two chunks
			end--
		}

		decoded = appendDecoded(decoded, b.units[start:end])
		start = end
	}

	return string(decoded)
}

// Len returns the logical length in code units.
func (b *CodeUnitBuilder) Len() int {
	return b.length
}

// Cap returns the number of code units the builder can hold without
// reallocating.
func (b *CodeUnitBuilder) Cap() int {
	return len(b.units)
}

// Position returns the number of code units appended so far.
func (b *CodeUnitBuilder) Position() int {
	return b.position
}

func (b *CodeUnitBuilder) Stats() GrowthStats {
	return b.stats
}

// How many UTF-16 code units will text take up?
func utf16Len(text string) int {
	count := 0
	for _, char := range text {
		if char >= 0x10000 {
			count += 2
		} else {
			count++
		}
	}
	return count
}
