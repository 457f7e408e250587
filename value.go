// FILE: lixenwraith/flags/value.go
package flags

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Type is the fixed type tag of a flag value.
type Type uint8

const (
	TypeBool Type = iota
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeFloat64
	TypeString
)

var typeNames = [...]string{
	TypeBool:    "bool",
	TypeInt32:   "int32",
	TypeUint32:  "uint32",
	TypeInt64:   "int64",
	TypeUint64:  "uint64",
	TypeFloat64: "double",
	TypeString:  "string",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", t)
}

// Scalar lists the Go types a flag can hold.
type Scalar interface {
	bool | int32 | uint32 | int64 | uint64 | float64 | string
}

// Ownership tells whether a value's storage belongs to the caller or to the value.
type Ownership uint8

const (
	// Borrowed storage is a variable owned by the program, e.g. a struct field
	// or the pointer returned by Int32.
	Borrowed Ownership = iota
	// Owned storage lives inside the value itself.
	Owned
)

func (o Ownership) String() string {
	if o == Borrowed {
		return "borrowed"
	}
	return "owned"
}

// Value is a typed container for one flag value. The set of implementations is
// closed: one variant per Scalar type, built with Borrow or Own.
type Value interface {
	Type() Type
	String() string
	// Set parses text and stores the result; the stored value is untouched on error.
	Set(text string) error
	// Addr returns the storage address as a typed pointer (*int32, *string, ...).
	Addr() any
	Ownership() Ownership

	zero() Value
	copyFrom(src Value)
	equal(other Value) bool
	validate(name string, v validator) bool
	value() any
}

// slot is the storage of a cell: a borrowed pointer, or the owned value when
// borrowed is nil.
type slot[T Scalar] struct {
	borrowed *T
	owned    T
}

func (s *slot[T]) ptr() *T {
	if s.borrowed != nil {
		return s.borrowed
	}
	return &s.owned
}

type cell[T Scalar] struct {
	slot slot[T]
}

// Borrow wraps program-owned storage. Writes through the returned Value are
// visible through p.
func Borrow[T Scalar](p *T) Value {
	if p == nil {
		panic("flags: Borrow of nil pointer")
	}
	return &cell[T]{slot: slot[T]{borrowed: p}}
}

// Own returns a Value holding its own copy of v.
func Own[T Scalar](v T) Value {
	return &cell[T]{slot: slot[T]{owned: v}}
}

func (c *cell[T]) Type() Type {
	return typeOf[T]()
}

func (c *cell[T]) String() string {
	return formatScalar(*c.slot.ptr())
}

func (c *cell[T]) Set(text string) error {
	v, err := parseScalar[T](text)
	if err != nil {
		return err
	}
	*c.slot.ptr() = v
	return nil
}

func (c *cell[T]) Addr() any {
	return c.slot.ptr()
}

func (c *cell[T]) Ownership() Ownership {
	if c.slot.borrowed != nil {
		return Borrowed
	}
	return Owned
}

func (c *cell[T]) zero() Value {
	return &cell[T]{}
}

func (c *cell[T]) copyFrom(src Value) {
	o, ok := src.(*cell[T])
	if !ok {
		panic(fmt.Sprintf("flags: cannot copy %s value into %s value", src.Type(), c.Type()))
	}
	*c.slot.ptr() = *o.slot.ptr()
}

func (c *cell[T]) equal(other Value) bool {
	o, ok := other.(*cell[T])
	return ok && *c.slot.ptr() == *o.slot.ptr()
}

func (c *cell[T]) validate(name string, v validator) bool {
	tv, ok := v.(typedValidator[T])
	if !ok {
		return false
	}
	return tv.fn(name, *c.slot.ptr())
}

func (c *cell[T]) value() any {
	return *c.slot.ptr()
}

func typeOf[T Scalar]() Type {
	var zero T
	switch any(zero).(type) {
	case bool:
		return TypeBool
	case int32:
		return TypeInt32
	case uint32:
		return TypeUint32
	case int64:
		return TypeInt64
	case uint64:
		return TypeUint64
	case float64:
		return TypeFloat64
	default:
		return TypeString
	}
}

var (
	errEmptyNumber = errors.New("empty numeric value")
	errNegative    = errors.New("negative value for unsigned type")
	errBadBool     = errors.New("invalid boolean value")
)

func parseScalar[T Scalar](text string) (T, error) {
	var out T
	var err error
	switch p := any(&out).(type) {
	case *bool:
		*p, err = parseBool(text)
	case *int32:
		var v int64
		v, err = parseInt(text, 32)
		*p = int32(v)
	case *int64:
		*p, err = parseInt(text, 64)
	case *uint32:
		var v uint64
		v, err = parseUint(text, 32)
		*p = uint32(v)
	case *uint64:
		*p, err = parseUint(text, 64)
	case *float64:
		*p, err = parseFloat(text)
	case *string:
		*p = text
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func parseBool(text string) (bool, error) {
	for _, s := range []string{"1", "t", "true", "y", "yes"} {
		if strings.EqualFold(text, s) {
			return true, nil
		}
	}
	for _, s := range []string{"0", "f", "false", "n", "no"} {
		if strings.EqualFold(text, s) {
			return false, nil
		}
	}
	return false, errBadBool
}

// numberBase selects base 16 for a "0x" prefix and base 10 otherwise.
// A leading zero never means octal.
func numberBase(s string) (string, int, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		digits := s[2:]
		if digits == "" || digits[0] == '+' || digits[0] == '-' {
			return "", 0, strconv.ErrSyntax
		}
		return digits, 16, nil
	}
	return s, 10, nil
}

func parseInt(text string, bitSize int) (int64, error) {
	s := strings.TrimLeft(text, " \t\n\v\f\r")
	if s == "" {
		return 0, errEmptyNumber
	}
	digits, base, err := numberBase(s)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(digits, base, bitSize)
}

func parseUint(text string, bitSize int) (uint64, error) {
	s := strings.TrimLeft(text, " \t\n\v\f\r")
	if s == "" {
		return 0, errEmptyNumber
	}
	if s[0] == '-' {
		return 0, errNegative
	}
	digits, base, err := numberBase(s)
	if err != nil {
		return 0, err
	}
	if base == 10 {
		digits = strings.TrimPrefix(digits, "+")
	}
	return strconv.ParseUint(digits, base, bitSize)
}

func parseFloat(text string) (float64, error) {
	s := strings.TrimLeft(text, " \t\n\v\f\r")
	if s == "" {
		return 0, errEmptyNumber
	}
	return strconv.ParseFloat(s, 64)
}

func formatScalar[T Scalar](v T) string {
	switch x := any(v).(type) {
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		// Shortest representation that parses back to the same bits.
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	}
	return ""
}
