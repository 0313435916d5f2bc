package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// String returns the value of key as a string.
func String(g Getter, key string) string {
	switch v := g.Get(key).(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the value of key as a bool.
// Strings are parsed with strconv.ParseBool; numbers are true when non-zero.
func Bool(g Getter, key string) bool {
	switch v := g.Get(key).(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return false
	}
}

// Int returns the value of key as an int.
func Int(g Getter, key string) int {
	switch v := g.Get(key).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	default:
		return 0
	}
}

// Strings returns the value of key as a string slice.
// A comma separated string is split.
func Strings(g Getter, key string) []string {
	switch v := g.Get(key).(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return nil
		}
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

// Duration returns the value of key as a duration.
// Plain numbers are seconds; strings are parsed with time.ParseDuration.
func Duration(g Getter, key string) time.Duration {
	switch v := g.Get(key).(type) {
	case time.Duration:
		return v
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	case string:
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return time.Duration(n) * time.Second
	default:
		return 0
	}
}
