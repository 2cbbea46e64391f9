package report

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/walles/builderbench/internal/builder"
)

const sgrReset = "\x1b[0m"

// Highlight colors JSON text for terminal output using Chroma:
// https://github.com/alecthomas/chroma
func Highlight(json string, style chroma.Style, formatter chroma.Formatter) (string, error) {
	lexer := lexers.Get("json")
	if lexer == nil {
		// Chroma lost its JSON lexer, never mind
		return json, nil
	}

	iterator, err := lexer.Tokenise(nil, json)
	if err != nil {
		return "", err
	}

	highlighted := builder.NewByteBuilder()
	err = formatter.Format(highlighted, &style, iterator)
	if err != nil {
		return "", err
	}

	// Chroma sometimes (always?) puts an SGR reset by itself on the last line,
	// move it to the end of the actual last line.
	result := strings.TrimSuffix(highlighted.String(), sgrReset)
	result = strings.TrimSuffix(result, "\n") + sgrReset
	if strings.HasSuffix(json, "\n") {
		result += "\n"
	}

	return result, nil
}
