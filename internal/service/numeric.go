package service

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// toNumber coerces a parsed form value to a finite number truncated toward zero, the
// integer reading the questionnaire and life chart forms were designed around. On
// failure it returns a short reason instead of a value.
func toNumber(raw interface{}) (float64, string) {
	f, reason := toFloat(raw)
	if reason != "" {
		return 0, reason
	}
	return math.Trunc(f), ""
}

// toFloat is toNumber without the truncation.
func toFloat(raw interface{}) (float64, string) {
	var (
		f   float64
		err error
	)

	switch v := raw.(type) {
	case nil:
		return 0, "missing answer"
	case bool:
		return 0, "boolean is not a number"
	case []string:
		// url.Values style input
		if len(v) != 1 {
			return 0, "expected a single value"
		}
		return toFloat(v[0])
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, "empty answer"
		}
		f, err = cast.ToFloat64E(s)
	default:
		f, err = cast.ToFloat64E(v)
	}

	if err != nil {
		return 0, "not a number"
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, "not a finite number"
	}
	return f, ""
}

// toAge reads an optional non-negative age. Absent, unparseable and negative values
// all report ok=false.
func toAge(raw interface{}) (int, bool) {
	v, reason := toNumber(raw)
	if reason != "" || v < 0 || v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

// isBlank reports whether an optional form value was left empty.
func isBlank(raw interface{}) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0 || (len(v) == 1 && strings.TrimSpace(v[0]) == "")
	}
	return false
}
