// FILE: lixenwraith/flags/validator.go
package flags

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// validator is a predicate attached to a flag. The only implementation is
// typedValidator[T], matched against the cell variant of the same T.
type validator interface {
	identity() uintptr
}

type typedValidator[T Scalar] struct {
	fn func(name string, value T) bool
	id uintptr
}

func (v typedValidator[T]) identity() uintptr {
	return v.id
}

func sameValidator(a, b validator) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.identity() == b.identity()
}

// RegisterValidator attaches fn to the flag whose storage is p. The predicate
// runs on every candidate value before it is committed, and on the current
// value during the post-parse validation sweep.
//
// Registering the same function again is a no-op. Registering a different one
// while a validator is attached fails with ErrValidatorExists; pass nil to
// detach the current validator first.
func RegisterValidator[T Scalar](r *Registry, p *T, fn func(name string, value T) bool) error {
	var v validator
	if fn != nil {
		v = typedValidator[T]{fn: fn, id: reflect.ValueOf(fn).Pointer()}
	}
	return r.attachValidator(p, v)
}

func (r *Registry) attachValidator(addr any, v validator) error {
	l := r.lock()
	defer l.unlock()

	d := l.findByAddr(addr)
	if d == nil {
		r.logger.Warn("ignoring validator for unknown flag storage",
			zap.String("addr", fmt.Sprintf("%p", addr)))
		return fmt.Errorf("%w: %p", ErrNoSuchFlag, addr)
	}
	if sameValidator(d.validator, v) {
		return nil
	}
	if v != nil && d.validator != nil {
		r.logger.Warn("flag already has a different validator",
			zap.String("flag", d.name))
		return fmt.Errorf("%w: flag '%s'", ErrValidatorExists, d.name)
	}
	d.validator = v
	return nil
}
