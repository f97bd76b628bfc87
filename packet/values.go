package packet

import "reflect"

// Value coercion accepts any Go integer or float kind and checks range at
// pack time, mirroring the lazy width checking of the record lifecycle.

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), uint64(n) <= 1<<62
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), n <= 1<<62
	}
	return 0, false
}

func asUint64(v any) (uint64, bool) {
	if n, ok := asInt64(v); ok {
		return uint64(n), n >= 0
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	if n, ok := asInt64(v); ok {
		return float64(n), true
	}
	return 0, false
}

// valueEqual compares two field values. Numerics compare by value across
// integer and float representations, so an unpacked record equals the map it
// was packed from.
func valueEqual(a, b any) bool {
	af, aok := asFloat64(a)
	bf, bok := asFloat64(b)
	if aok || bok {
		return aok && bok && af == bf
	}
	return reflect.DeepEqual(a, b)
}
