package textbuilder

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestEmbedAPI(t *testing.T) {
	builders := []Builder{
		NewByteBuilder(),
		NewCodeUnitBuilder(),
		NewCodeUnitBuilderWithMaxChunk(3),
	}

	for _, builder := range builders {
		for _, fragment := range []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "1"} {
			_, err := builder.WriteString(fragment)
			assert.NilError(t, err)
		}
		assert.Equal(t, "012345678901", builder.String())
		assert.Equal(t, 12, builder.Len())
	}
}

func TestEmbedAPIEmpty(t *testing.T) {
	assert.Equal(t, "", NewByteBuilder().String())
	assert.Equal(t, "", NewCodeUnitBuilder().String())
}

func TestEmbedAPISurrogatePairsAcrossChunks(t *testing.T) {
	text := strings.Repeat("a😀", 50)
	assert.Equal(t, text, NewCodeUnitBuilderWithMaxChunk(2).Append(text).String())
}
