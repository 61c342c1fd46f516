// Package value parses and formats SPICE numeric literals.
//
// A literal is a mantissa optionally followed by an exponent or a multiplier
// suffix and then an optional unit name:
//
//	1        -> 1
//	2.3e-9   -> 2.3e-9
//	23.3n    -> 23.3e-9
//	2.3nF    -> 2.3e-9
//	99.9pFaraD -> 99.9e-12
//	10V      -> 10
//
// Suffixes and units are case-insensitive. Anything left over after the unit
// makes the literal invalid.
package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ErrNumericFormat is returned (wrapped) for every malformed literal.
var ErrNumericFormat = errors.New("invalid numeric literal")

// NumericFormatError describes why a literal was rejected.
type NumericFormatError struct {
	Text   string
	Reason string
}

func (e *NumericFormatError) Error() string {
	return fmt.Sprintf("invalid numeric literal %q: %s", e.Text, e.Reason)
}

// Unwrap lets errors.Is match ErrNumericFormat.
func (e *NumericFormatError) Unwrap() error {
	return ErrNumericFormat
}

const (
	mantissaChars = "0123456789.+-"
	exponentChars = "0123456789+-"
)

type multiplier struct {
	short  string
	long   string
	factor float64
}

// multipliers in table order; all long forms are tried before any short form.
var multipliers = []multiplier{
	{"F", "FEMTO", 1e-15},
	{"P", "PICO", 1e-12},
	{"N", "NANO", 1e-9},
	{"U", "MICRO", 1e-6},
	{"M", "MILLI", 1e-3},
	{"K", "KILO", 1e3},
	{"MEG", "MEGA", 1e6},
	{"G", "GIGA", 1e9},
	{"T", "TERA", 1e12},
}

type unit struct {
	short string
	long  string
}

var units = []unit{
	{"F", "FARAD"},
	{"OHM", ""},
	{"H", "HENRY"},
	{"A", "AMPERE"},
	{"V", "VOLT"},
}

// Parse converts a SPICE numeric literal to a float64.
func Parse(text string) (float64, error) {
	n := prefixLen(text, mantissaChars)
	if n == 0 {
		return 0, &NumericFormatError{Text: text, Reason: "missing mantissa"}
	}

	mantissa, err := strconv.ParseFloat(text[:n], 64)
	if err != nil {
		return 0, &NumericFormatError{Text: text, Reason: fmt.Sprintf("bad mantissa %q", text[:n])}
	}

	rest := strings.ToUpper(text[n:])
	if rest == "" {
		return mantissa, nil
	}

	factor := 1.0
	if rest[0] == 'E' {
		digits := prefixLen(rest[1:], exponentChars)
		if digits == 0 {
			return 0, &NumericFormatError{Text: text, Reason: "missing exponent"}
		}
		exp, err := strconv.Atoi(rest[1 : 1+digits])
		if err != nil {
			return 0, &NumericFormatError{Text: text, Reason: fmt.Sprintf("bad exponent %q", rest[1:1+digits])}
		}
		factor = math.Pow(10, float64(exp))
		rest = rest[1+digits:]
	} else {
		var ok bool
		factor, rest, ok = matchMultiplier(rest)
		if !ok {
			factor = 1
		}
	}

	rest = trimUnit(rest)
	if rest != "" {
		return 0, &NumericFormatError{Text: text, Reason: fmt.Sprintf("unexpected trailing %q", rest)}
	}

	return mantissa * factor, nil
}

// IsNumeric reports whether text parses as a literal.
func IsNumeric(text string) bool {
	_, err := Parse(text)
	return err == nil
}

// matchMultiplier tries every long suffix, then the short ones. Among short
// suffixes the longest match wins so that MEG is not read as M followed by EG.
func matchMultiplier(s string) (float64, string, bool) {
	for _, m := range multipliers {
		if strings.HasPrefix(s, m.long) {
			return m.factor, s[len(m.long):], true
		}
	}

	best := -1
	for i, m := range multipliers {
		if strings.HasPrefix(s, m.short) && (best < 0 || len(m.short) > len(multipliers[best].short)) {
			best = i
		}
	}
	if best < 0 {
		return 0, s, false
	}
	return multipliers[best].factor, s[len(multipliers[best].short):], true
}

func trimUnit(s string) string {
	if s == "" {
		return s
	}
	for _, u := range units {
		if u.long != "" && strings.HasPrefix(s, u.long) {
			return s[len(u.long):]
		}
		if strings.HasPrefix(s, u.short) {
			return s[len(u.short):]
		}
	}
	return s
}

func prefixLen(s, allowed string) int {
	n := 0
	for n < len(s) && strings.IndexByte(allowed, s[n]) >= 0 {
		n++
	}
	return n
}

// Format renders v in engineering notation with an SI prefix, e.g. 4.7 kOHM.
func Format(v float64, unit string) string {
	return strings.TrimSpace(humanize.SIWithDigits(v, 3, unit))
}
