package internal

import (
	"fmt"
	"strconv"
)

// Param returns a typed request parameter, or the zero value when it is
// missing or cannot be parsed.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string) T {
	v, _ := convertParam[T](paramString(r, name))
	return v
}

// ParamDefault returns a typed request parameter with a default value.
// Returns defaultValue if the parameter is empty or cannot be parsed.
func ParamDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](r *Request, name string, defaultValue T) T {
	raw := paramString(r, name)
	if raw == "" {
		return defaultValue
	}
	v, ok := convertParam[T](raw)
	if !ok {
		return defaultValue
	}
	return v
}

func paramString(r *Request, name string) string {
	switch v := r.Param(name).(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		if len(v) == 0 {
			return ""
		}
		return v[len(v)-1]
	default:
		return fmt.Sprint(v)
	}
}

// convertParam converts a raw string to the target type T.
// Returns the converted value and true on success, or the zero value and false on failure.
func convertParam[T ~string | ~int | ~int64 | ~float64 | ~bool](raw string) (T, bool) {
	var zero T
	switch p := any(&zero).(type) {
	case *string:
		*p = raw
		return zero, true
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, false
		}
		*p = v
		return zero, true
	case *int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, false
		}
		*p = v
		return zero, true
	case *float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return zero, false
		}
		*p = v
		return zero, true
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		*p = v
		return zero, true
	}
	return zero, false
}
