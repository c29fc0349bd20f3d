package table

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number coerces v to a float. Numbers convert directly; strings convert only
// when the whole (trimmed) string parses as a finite or infinite number.
// Booleans, nil, blank strings and anything else are not numbers.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t)
	case float32:
		return float64(t), !math.IsNaN(float64(t))
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// IsNumeric reports whether v is a number or a numeric string.
func IsNumeric(v any) bool {
	_, ok := Number(v)
	return ok
}

// NumberOrNaN coerces v, returning NaN for values that are not numbers.
func NumberOrNaN(v any) float64 {
	if f, ok := Number(v); ok {
		return f
	}
	return math.NaN()
}

// Format renders a value for display. Numbers are fixed to precision decimals
// with trailing zeros trimmed; a negative precision prints numbers unchanged.
func Format(v any, precision int) string {
	if v == nil {
		return ""
	}
	if _, isString := v.(string); !isString {
		if f, ok := Number(v); ok {
			return FormatNumber(f, precision)
		}
	}
	return fmt.Sprint(v)
}

// FormatNumber fixes f to precision decimals and trims trailing zeros.
func FormatNumber(f float64, precision int) string {
	if precision < 0 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
