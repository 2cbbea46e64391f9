package builder

// InitialByteCapacity is how many bytes a new ByteBuilder can hold before its
// first reallocation.
const InitialByteCapacity = 128

// ByteBuilder accumulates text as UTF-8 bytes in a buffer that doubles in size
// whenever it runs out of room.
//
// The zero value is ready to use. A ByteBuilder is not safe for concurrent use.
type ByteBuilder struct {
	buf      []byte
	consumed int // Number of used bytes in buf
	stats    GrowthStats
}

func NewByteBuilder() *ByteBuilder {
	return &ByteBuilder{
		buf: make([]byte, InitialByteCapacity),
	}
}

// Append adds text to the end of the builder and returns the builder itself.
func (b *ByteBuilder) Append(text string) *ByteBuilder {
	// Strings are UTF-8 already, so the encoded form of text is its bytes
	end := b.reserve(len(text))
	copy(b.buf[b.consumed:end], text)
	b.consumed = end
	return b
}

func (b *ByteBuilder) WriteString(s string) (int, error) {
	b.Append(s)
	return len(s), nil
}

func (b *ByteBuilder) Write(p []byte) (int, error) {
	end := b.reserve(len(p))
	copy(b.buf[b.consumed:end], p)
	b.consumed = end
	return len(p), nil
}

// Makes room for count more bytes and returns where they will end.
func (b *ByteBuilder) reserve(count int) int {
	end := b.consumed + count
	if end <= len(b.buf) {
		return end
	}

	newBuf := make([]byte, grownCapacity(len(b.buf), InitialByteCapacity, end))
	copy(newBuf, b.buf[:b.consumed])
	b.stats.record(b.consumed)
	b.buf = newBuf

	return end
}

// String decodes everything appended so far. The result does not share memory
// with the builder, so later appends won't affect it.
func (b *ByteBuilder) String() string {
	return string(b.buf[:b.consumed])
}

// Len returns the number of bytes appended so far.
func (b *ByteBuilder) Len() int {
	return b.consumed
}

// Cap returns the number of bytes the builder can hold without reallocating.
func (b *ByteBuilder) Cap() int {
	return len(b.buf)
}

func (b *ByteBuilder) Stats() GrowthStats {
	return b.stats
}
