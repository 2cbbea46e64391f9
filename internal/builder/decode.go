package builder

import (
	"unicode/utf16"
	"unicode/utf8"
)

const (
	surrogateHighStart = 0xd800
	surrogateLowStart  = 0xdc00
	surrogateEnd       = 0xe000
)

func isHighSurrogate(unit uint16) bool {
	return unit >= surrogateHighStart && unit < surrogateLowStart
}

func isLowSurrogate(unit uint16) bool {
	return unit >= surrogateLowStart && unit < surrogateEnd
}

// True if units[index] and units[index+1] form a surrogate pair
func startsSurrogatePair(units []uint16, index int) bool {
	if index+1 >= len(units) {
		return false
	}
	return isHighSurrogate(units[index]) && isLowSurrogate(units[index+1])
}

// Decodes UTF-16 code units into UTF-8 and appends the result to dst. Unpaired
// surrogates become utf8.RuneError.
func appendDecoded(dst []byte, units []uint16) []byte {
	for i := 0; i < len(units); i++ {
		unit := units[i]

		if unit < utf8.RuneSelf {
			dst = append(dst, byte(unit))
			continue
		}

		if startsSurrogatePair(units, i) {
			dst = utf8.AppendRune(dst, utf16.DecodeRune(rune(unit), rune(units[i+1])))
			i++
			continue
		}

		if isHighSurrogate(unit) || isLowSurrogate(unit) {
			dst = utf8.AppendRune(dst, utf8.RuneError)
			continue
		}

		dst = utf8.AppendRune(dst, rune(unit))
	}

	return dst
}
