// Package textbuilder provides string builders that accumulate text in
// doubling buffers.
//
// ByteBuilder stores UTF-8 bytes and decodes everything in one go when
// finalized. CodeUnitBuilder stores UTF-16 code units and decodes them in
// chunks, never splitting a surrogate pair between two chunks.
//
// Neither builder is safe for concurrent use.
package textbuilder

import "github.com/walles/builderbench/internal/builder"

type Builder = builder.Builder

type ByteBuilder = builder.ByteBuilder

type CodeUnitBuilder = builder.CodeUnitBuilder

type GrowthStats = builder.GrowthStats

const MaxChunk = builder.MaxChunk

func NewByteBuilder() *ByteBuilder {
	return builder.NewByteBuilder()
}

func NewCodeUnitBuilder() *CodeUnitBuilder {
	return builder.NewCodeUnitBuilder()
}

// NewCodeUnitBuilderWithMaxChunk creates a CodeUnitBuilder that decodes at
// most maxChunk code units at a time. Panics if maxChunk is less than 2.
func NewCodeUnitBuilderWithMaxChunk(maxChunk int) *CodeUnitBuilder {
	return builder.NewCodeUnitBuilderWithMaxChunk(maxChunk)
}
