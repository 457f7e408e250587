// File: lixenwraith/flags/type.go
package flags

import (
	"fmt"
	"math"
)

// current returns the typed current value of a flag.
func (r *Registry) current(name string) (any, error) {
	l := r.lock()
	defer l.unlock()

	d := l.find(name)
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFlag, name)
	}
	return d.current.value(), nil
}

// GetString returns the current value of any flag as text.
func (r *Registry) GetString(name string) (string, error) {
	s, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownFlag, name)
	}
	return s, nil
}

// GetBool returns the value of a bool flag.
func (r *Registry) GetBool(name string) (bool, error) {
	val, err := r.current(name)
	if err != nil {
		return false, err
	}
	if b, ok := val.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("%w: flag '%s' is %T, not bool", ErrTypeMismatch, name, val)
}

// GetInt64 returns the value of any integer flag that fits an int64.
func (r *Registry) GetInt64(name string) (int64, error) {
	val, err := r.current(name)
	if err != nil {
		return 0, err
	}
	switch v := val.(type) {
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("cannot convert %d of flag '%s' to int64: overflow", v, name)
		}
		return int64(v), nil
	}
	return 0, fmt.Errorf("%w: flag '%s' is %T, not an integer", ErrTypeMismatch, name, val)
}

// GetUint64 returns the value of any integer flag that is not negative.
func (r *Registry) GetUint64(name string) (uint64, error) {
	val, err := r.current(name)
	if err != nil {
		return 0, err
	}
	switch v := val.(type) {
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case int32:
		if v < 0 {
			return 0, fmt.Errorf("cannot convert %d of flag '%s' to uint64: negative", v, name)
		}
		return uint64(v), nil
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("cannot convert %d of flag '%s' to uint64: negative", v, name)
		}
		return uint64(v), nil
	}
	return 0, fmt.Errorf("%w: flag '%s' is %T, not an integer", ErrTypeMismatch, name, val)
}

// GetFloat64 returns the value of any numeric flag.
func (r *Registry) GetFloat64(name string) (float64, error) {
	val, err := r.current(name)
	if err != nil {
		return 0, err
	}
	switch v := val.(type) {
	case float64:
		return v, nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%w: flag '%s' is %T, not numeric", ErrTypeMismatch, name, val)
}
