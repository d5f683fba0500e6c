package catalog

import (
	"encoding/json"
	"fmt"
)

// Params is the decoded parameter mapping of one request. JSON numbers arrive
// as float64; the accessors below normalize the types callers actually send.
type Params map[string]any

// Int64 returns a required integer parameter.
func (p Params) Int64(key string) (int64, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return 0, fmt.Errorf("missing required parameter %q", key)
	}
	return toInt64(key, raw)
}

// OptInt returns an optional integer parameter, or def when absent.
func (p Params) OptInt(key string, def int) (int, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return def, nil
	}
	n, err := toInt64(key, raw)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// String returns a required string parameter.
func (p Params) String(key string) (string, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("missing required parameter %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string", key)
	}
	return s, nil
}

// OptString returns an optional string parameter, or def when absent.
func (p Params) OptString(key, def string) (string, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string", key)
	}
	return s, nil
}

// Map returns a required object parameter.
func (p Params) Map(key string) (map[string]any, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return nil, fmt.Errorf("missing required parameter %q", key)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parameter %q must be an object", key)
	}
	return m, nil
}

// OptInt64Slice returns an optional integer-array parameter. Absent or null
// yields nil (meaning "no filter").
func (p Params) OptInt64Slice(key string) ([]int64, error) {
	raw, ok := p[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("parameter %q must be an array of integers", key)
	}
	out := make([]int64, 0, len(items))
	for _, item := range items {
		n, err := toInt64(key, item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func toInt64(key string, raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("parameter %q must be an integer", key)
		}
		return int64(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("parameter %q must be an integer", key)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("parameter %q must be an integer", key)
	}
}
