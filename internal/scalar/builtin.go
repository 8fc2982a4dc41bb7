package scalar

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"
)

// Host type names understood by the built-in adapter table.
const (
	HostString  = "string"
	HostBool    = "bool"
	HostInt32   = "int32"
	HostInt64   = "int64"
	HostFloat32 = "float32"
	HostFloat64 = "float64"
	HostMap     = "map"
	HostList    = "list"
	HostUpload  = "upload"
	HostAny     = "any"
)

// Host types for the built-in GraphQL scalars when no mapping is registered.
var defaultHostTypes = map[string]string{
	"String":  HostString,
	"ID":      HostString,
	"Int":     HostInt32,
	"Float":   HostFloat64,
	"Boolean": HostBool,
}

var (
	builtinOnce  sync.Once
	builtinTable map[string]Adapter
)

// builtins returns the process-wide adapter table. Initialized once,
// never mutated afterwards. The primitive adapters coerce symmetrically,
// so the same function serves both directions.
func builtins() map[string]Adapter {
	builtinOnce.Do(func() {
		passthrough := func(v any) (any, error) { return v, nil }
		symmetric := func(coerce func(any) (any, error)) Adapter {
			return funcs{decode: coerce, encode: coerce}
		}
		builtinTable = map[string]Adapter{
			HostString:  symmetric(coerceString),
			HostBool:    symmetric(coerceBool),
			HostInt32:   symmetric(coerceInt32),
			HostInt64:   symmetric(coerceInt64),
			HostFloat32: symmetric(coerceFloat32),
			HostFloat64: symmetric(coerceFloat64),
			HostMap:     symmetric(coerceMap),
			HostList:    symmetric(coerceList),
			HostUpload:  symmetric(passthrough),
			HostAny:     symmetric(passthrough),
		}
	})
	return builtinTable
}

func coerceString(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("expected string, got %T", raw)
	}
	return s, nil
}

func coerceBool(raw any) (any, error) {
	b, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("expected boolean, got %T", raw)
	}
	return b, nil
}

func coerceInt32(raw any) (any, error) {
	n, err := toInt64(raw)
	if err != nil {
		return nil, err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return nil, fmt.Errorf("integer %d overflows int32", n)
	}
	return int32(n), nil
}

func coerceInt64(raw any) (any, error) {
	return toInt64(raw)
}

func coerceFloat32(raw any) (any, error) {
	f, err := toFloat64(raw)
	if err != nil {
		return nil, err
	}
	return float32(f), nil
}

func coerceFloat64(raw any) (any, error) {
	return toFloat64(raw)
}

func coerceMap(raw any) (any, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", raw)
	}
	return m, nil
}

func coerceList(raw any) (any, error) {
	l, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", raw)
	}
	return l, nil
}

func toInt64(raw any) (int64, error) {
	switch n := raw.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected integer, got fractional %v", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("expected integer, got %T", raw)
	}
}

func toFloat64(raw any) (float64, error) {
	switch f := raw.(type) {
	case int:
		return float64(f), nil
	case int32:
		return float64(f), nil
	case int64:
		return float64(f), nil
	case float32:
		return float64(f), nil
	case float64:
		return f, nil
	case json.Number:
		return f.Float64()
	default:
		return 0, fmt.Errorf("expected number, got %T", raw)
	}
}
