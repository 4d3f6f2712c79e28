package fitness

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a numeric field coming from a loosely typed backend response.
// It accepts JSON numbers, numeric strings and unit suffixed strings ("45 min"),
// and decodes everything else (null, objects, garbage) to zero without failing.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		*n = Number(ParseLeadingNumber(s))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			*n = 0
			return nil
		}
		*n = Number(f)
	default:
		*n = 0
	}

	return nil
}

func (n Number) Float() float64 {
	return float64(n)
}

// Int truncates toward zero, the same way an integer prefix parse would.
func (n Number) Int() int {
	return int(math.Trunc(float64(n)))
}

// IsSet reports whether the value is present and positive.
func (n Number) IsSet() bool {
	return n > 0
}

// ParseLeadingNumber reads the numeric prefix of s: optional leading spaces,
// an optional sign, digits and an optional fraction. Exponents are not read,
// so "1e3" yields 1. No numeric prefix yields 0.
func ParseLeadingNumber(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}

	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	intDigits := end - digitsStart

	if end < len(s) && s[end] == '.' {
		fracStart := end + 1
		fracEnd := fracStart
		for fracEnd < len(s) && s[fracEnd] >= '0' && s[fracEnd] <= '9' {
			fracEnd++
		}
		if fracEnd > fracStart {
			end = fracEnd
		} else if intDigits == 0 {
			return 0
		}
	} else if intDigits == 0 {
		return 0
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}
