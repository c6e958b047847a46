// Package format renders numbers as the fixed-decimal words of a G-code block.
package format

import (
	"math"
	"strconv"
	"strings"
)

// Format is a number formatting policy. The zero value formats with no
// decimal places, rounding half away from zero, and a decimal point whenever a
// fraction remains.
type Format struct {
	Places         int  // digits kept after the decimal point
	LeadingZeros   int  // minimum digits before the decimal point
	TrailingZeros  bool // pad the fraction to Places digits
	NoDecimalPoint bool // write the fraction digits without a '.'
	Plus           bool // prefix non-negative values with '+'
	NoMinus        bool // drop the '-' of negative values
	RoundDown      bool // truncate toward zero instead of rounding
}

// Places returns the default format with n decimal places.
func Places(n int) Format {
	return Format{Places: n, LeadingZeros: 1}
}

// WithPlaces returns a copy of f with n decimal places.
func (f Format) WithPlaces(n int) Format {
	f.Places = n
	return f
}

func (f Format) String(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	places := f.Places
	if places < 0 {
		places = 0
	}

	var digits string
	if f.RoundDown {
		digits = truncDigits(v, places)
	} else {
		scaled := v * math.Pow(10, float64(places))
		var r float64
		if scaled < 0 {
			r = math.Trunc(scaled - 0.5)
		} else {
			r = math.Trunc(scaled + 0.5)
		}
		if math.Abs(r) >= 1.0 {
			digits = strconv.FormatFloat(math.Abs(r), 'f', 0, 64)
		}
	}

	var whole, fraction string
	minus := false
	if digits == "" {
		// Underflows the precision; never carries a fraction or a sign.
		whole = "0"
	} else {
		minus = v < 0
		if len(digits) <= places {
			digits = strings.Repeat("0", places-len(digits)+1) + digits
		}
		whole = digits[:len(digits)-places]
		fraction = digits[len(digits)-places:]
		if !f.TrailingZeros {
			fraction = strings.TrimRight(fraction, "0")
		}
	}

	if len(whole) < f.LeadingZeros {
		whole = strings.Repeat("0", f.LeadingZeros-len(whole)) + whole
	}

	var sb strings.Builder
	if minus {
		if !f.NoMinus {
			sb.WriteByte('-')
		}
	} else if f.Plus {
		sb.WriteByte('+')
	}
	sb.WriteString(whole)
	if fraction != "" {
		if !f.NoDecimalPoint {
			sb.WriteByte('.')
		}
		sb.WriteString(fraction)
	}
	return sb.String()
}

// truncDigits returns the digits of |v| scaled by 10^places and truncated,
// without leading zeros. It cuts the shortest decimal text of v so values
// such as 0.29 keep their last digit.
func truncDigits(v float64, places int) string {
	text := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	whole, fraction, _ := strings.Cut(text, ".")
	if len(fraction) > places {
		fraction = fraction[:places]
	} else {
		fraction += strings.Repeat("0", places-len(fraction))
	}
	return strings.TrimLeft(whole+fraction, "0")
}
