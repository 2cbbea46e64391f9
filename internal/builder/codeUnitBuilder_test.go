package builder

import (
	"math"
	"os"
	"strconv"
	"strings"
	"testing"
	"unicode/utf16"

	"gotest.tools/v3/assert"
)

func assertPanics(t *testing.T, doThis func()) {
	t.Helper()

	defer func() {
		assert.Assert(t, recover() != nil, "expected a panic")
	}()

	doThis()
}

func TestCodeUnitBuilder_Basics(t *testing.T) {
	testMe := NewCodeUnitBuilder()
	assert.Equal(t, "", testMe.String())
	assert.Equal(t, 0, testMe.Len())
	assert.Equal(t, InitialCodeUnitCapacity, testMe.Cap())

	testMe.Append("ä😀")
	assert.Equal(t, "ä😀", testMe.String())
	assert.Equal(t, 3, testMe.Len())
	assert.Equal(t, 3, testMe.Position())
}

func TestCodeUnitBuilder_Digits(t *testing.T) {
	testMe := NewCodeUnitBuilder()
	for i := 0; i < 12; i++ {
		testMe.Append(strconv.Itoa(i % 10))
	}

	result := testMe.String()
	assert.Equal(t, "012345678901", result)
	assert.Equal(t, 12, len(result))
}

func TestCodeUnitBuilder_ZeroValue(t *testing.T) {
	var testMe CodeUnitBuilder
	assert.Equal(t, "", testMe.String())

	testMe.Append("hej").Append("då")
	assert.Equal(t, "hejdå", testMe.String())
	assert.Equal(t, InitialCodeUnitCapacity, testMe.Cap())
}

func TestCodeUnitBuilder_StringTwice(t *testing.T) {
	testMe := NewCodeUnitBuilder().Append("上午下")
	assert.Equal(t, testMe.String(), testMe.String())

	testMe.Append("!")
	assert.Equal(t, "上午下!", testMe.String())
}

func TestCodeUnitBuilder_ReserveWithinCapacity(t *testing.T) {
	testMe := NewCodeUnitBuilder()

	testMe.Reserve(10)
	assert.Equal(t, 10, testMe.Len())
	assert.Equal(t, InitialCodeUnitCapacity, testMe.Cap())

	// Lower targets never shrink the logical length
	testMe.Reserve(5)
	assert.Equal(t, 10, testMe.Len())
	assert.Equal(t, 0, testMe.Stats().Reallocations)
}

func TestCodeUnitBuilder_ReserveDoubles(t *testing.T) {
	testMe := NewCodeUnitBuilder()
	testMe.Append("abc")

	testMe.Reserve(InitialCodeUnitCapacity + 1)
	assert.Equal(t, 2*InitialCodeUnitCapacity, testMe.Cap())
	assert.Equal(t, InitialCodeUnitCapacity+1, testMe.Len())

	// Far beyond twice the current capacity
	testMe.Reserve(5 * InitialCodeUnitCapacity)
	assert.Equal(t, 8*InitialCodeUnitCapacity, testMe.Cap())
	assert.Equal(t, 5*InitialCodeUnitCapacity, testMe.Len())

	assert.Equal(t, GrowthStats{
		Reallocations: 2,
		CopiedUnits:   InitialCodeUnitCapacity + 2*InitialCodeUnitCapacity,
	}, testMe.Stats())

	// Contents survive growth
	assert.Equal(t, "abc", string(appendDecoded(nil, testMe.units[:testMe.Position()])))
}

func TestCodeUnitBuilder_ReserveNegative(t *testing.T) {
	assertPanics(t, func() {
		NewCodeUnitBuilder().Reserve(-1)
	})
}

func TestCodeUnitBuilder_GrowthKeepsContents(t *testing.T) {
	testMe := NewCodeUnitBuilder()
	expected := ""
	for length := 1; length <= 2000; length *= 3 {
		fragment := strings.Repeat("x😀", length)
		testMe.Append(fragment)
		expected += fragment

		assert.Equal(t, expected, testMe.String())
		assert.Assert(t, testMe.Cap() >= testMe.Len())
	}
}

func TestCodeUnitBuilder_AmortizedCopying(t *testing.T) {
	testMe := NewCodeUnitBuilder()
	for i := 0; i < 1_000_000; i++ {
		testMe.Append("x")
	}

	stats := testMe.Stats()
	assert.Assert(t, stats.CopiedUnits <= 2*testMe.Cap(),
		"copied %d units with final capacity %d", stats.CopiedUnits, testMe.Cap())
	assert.Equal(t, 1_000_000, testMe.Len())
}

func TestCodeUnitBuilder_AppendUnits(t *testing.T) {
	testMe := NewCodeUnitBuilder()
	testMe.AppendUnits(utf16.Encode([]rune("a😀b")))
	assert.Equal(t, "a😀b", testMe.String())
	assert.Equal(t, 4, testMe.Len())
}

func TestCodeUnitBuilder_UnpairedSurrogates(t *testing.T) {
	testMe := NewCodeUnitBuilder()
	testMe.AppendUnits([]uint16{'a', 0xd83d, 'b', 0xde00, 'c'})
	assert.Equal(t, "a�b�c", testMe.String())
}

func TestCodeUnitBuilder_Chunked(t *testing.T) {
	const maxChunk = 1000

	testMe := NewCodeUnitBuilderWithMaxChunk(maxChunk)
	for i := 0; i < maxChunk+100; i++ {
		testMe.Append(strconv.Itoa(i % 10))
	}

	unchunked := string(appendDecoded(nil, testMe.units[:testMe.Len()]))
	assert.Equal(t, unchunked, testMe.String())
	assert.Equal(t, maxChunk+100, len(testMe.String()))
}

func TestCodeUnitBuilder_ChunkedExactMultiple(t *testing.T) {
	testMe := NewCodeUnitBuilderWithMaxChunk(4)
	testMe.Append("abcdefghijkl")
	assert.Equal(t, "abcdefghijkl", testMe.String())
}

// A surrogate pair straddling a chunk boundary must not turn into two U+FFFD
func TestCodeUnitBuilder_ChunkBoundarySurrogatePair(t *testing.T) {
	testMe := NewCodeUnitBuilderWithMaxChunk(4)

	// Units: a b c <high> <low> d, so the pair starts at the last unit of the
	// first chunk
	testMe.Append("abc😀d")
	assert.Equal(t, 6, testMe.Len())
	assert.Assert(t, isHighSurrogate(testMe.units[3]))

	assert.Equal(t, "abc😀d", testMe.String())

	// Splitting at the fixed offset would have broken the pair
	naive := string(appendDecoded(nil, testMe.units[:4])) + string(appendDecoded(nil, testMe.units[4:6]))
	assert.Equal(t, "abc��d", naive)
}

func TestCodeUnitBuilder_ManySurrogatePairsSmallChunks(t *testing.T) {
	expected := strings.Repeat("😀a", 100)

	for maxChunk := 2; maxChunk < 10; maxChunk++ {
		testMe := NewCodeUnitBuilderWithMaxChunk(maxChunk)
		testMe.Append(expected)
		assert.Equal(t, expected, testMe.String(), "max chunk %d", maxChunk)
	}
}

func TestMaxChunkTooSmall(t *testing.T) {
	assertPanics(t, func() {
		NewCodeUnitBuilderWithMaxChunk(1)
	})
}

// Needs a few gigabytes of memory, set BUILDERBENCH_HUGE_TESTS to run it
func TestCodeUnitBuilder_BeyondMaxChunk(t *testing.T) {
	if os.Getenv("BUILDERBENCH_HUGE_TESTS") == "" {
		t.Skip("BUILDERBENCH_HUGE_TESTS not set")
	}

	testMe := NewCodeUnitBuilder()
	testMe.Reserve(MaxChunk + 100)
	for i := 0; i < MaxChunk+100; i++ {
		testMe.units[i] = '0' + uint16(i%10)
	}
	testMe.position = MaxChunk + 100

	result := testMe.String()
	assert.Equal(t, MaxChunk+100, len(result))
	assert.Equal(t, string(appendDecoded(nil, testMe.units[:testMe.Len()])), result)
}

func TestGrownCapacity(t *testing.T) {
	assert.Equal(t, 128, grownCapacity(0, 128, 0))
	assert.Equal(t, 128, grownCapacity(0, 128, 128))
	assert.Equal(t, 256, grownCapacity(0, 128, 129))
	assert.Equal(t, 1024, grownCapacity(512, 128, 513))
	assert.Equal(t, 4096, grownCapacity(512, 128, 4096))
}

func TestGrownCapacityNearMaxInt(t *testing.T) {
	assert.Equal(t, math.MaxInt/2+2, grownCapacity(512, 512, math.MaxInt/2+2))
	assert.Equal(t, math.MaxInt, grownCapacity(512, 512, math.MaxInt))
	assert.Equal(t, math.MaxInt, grownCapacity(math.MaxInt/2+1, 512, math.MaxInt))

	// Powers of two that fit are still reached by doubling
	assert.Equal(t, 1<<62, grownCapacity(512, 512, 1<<61+1))
}
