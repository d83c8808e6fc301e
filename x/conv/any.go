package conv

// AnyInt extracts an int from the numeric types a decoded JSON payload may
// carry. Returns false for anything non-numeric.
func AnyInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint:
		return int(x), true
	case uint32:
		return int(x), true
	case uint64:
		return int(x), true
	case float32:
		return int(x), true
	case float64:
		return int(x), true
	}
	return 0, false
}

// AnyString extracts a string, returning false for non-strings.
func AnyString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
