package util

import (
	"strconv"

	"github.com/walles/builderbench/internal/builder"
)

// Formats a number into a string with _ between each three-group of digits, for
// numbers >= 10_000. Negative numbers get a leading minus sign.
//
// Regarding the >= 10_000 exception:
// https://en.wikipedia.org/wiki/Decimal_separator#Exceptions_to_digit_grouping
func FormatInt(i int) string {
	if i > -10_000 && i < 10_000 {
		return strconv.Itoa(i)
	}

	digits := strconv.Itoa(i)
	result := builder.NewByteBuilder()
	if digits[0] == '-' {
		result.Append("-")
		digits = digits[1:]
	}

	// Length of the first group, 1-3 digits
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	result.Append(digits[:head])

	for start := head; start < len(digits); start += 3 {
		result.Append("_").Append(digits[start : start+3])
	}

	return result.String()
}
