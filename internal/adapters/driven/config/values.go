// Package config holds the value coercions shared by the config store
// adapters. TOML decodes integers as int64 and floats as float64, while
// values set in-process keep their Go type, so each getter accepts both.
package config

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// String returns v as a string, or "" when it is not one.
func String(v any) string {
	s, _ := v.(string)
	return s
}

// Int returns v as an int. Floats are truncated and numeric strings parsed.
func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

// Float returns v as a float64. NaN and infinities read as 0.
func Float(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Bool returns v as a bool. Strings accepted by strconv.ParseBool are parsed.
func Bool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return err == nil && parsed
	default:
		return false
	}
}

// Duration returns v as a time.Duration. Strings use time.ParseDuration
// ("1s", "250ms"); bare numbers are seconds.
func Duration(v any) time.Duration {
	switch d := v.(type) {
	case time.Duration:
		return d
	case string:
		s := strings.TrimSpace(d)
		if parsed, err := time.ParseDuration(s); err == nil {
			return parsed
		}
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			return seconds(secs)
		}
		return 0
	case int, int64, float64, float32:
		return seconds(Float(d))
	default:
		return 0
	}
}

// StringSlice returns v as []string, dropping non-string elements.
func StringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		result := make([]string, 0, len(s))
		for _, item := range s {
			if str, ok := item.(string); ok {
				result = append(result, str)
			}
		}
		return result
	default:
		return nil
	}
}

func seconds(f float64) time.Duration {
	return time.Duration(f * float64(time.Second))
}
