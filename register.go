// FILE: lixenwraith/flags/register.go
package flags

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// RegisterStruct defines one flag per exported scalar field of the struct
// pointed to by target. The field is the flag's storage and its value at
// registration time is the default.
//
// Names come from the `flag:"name"` tag, or the lower-cased field name; "-"
// skips a field. Nested structs contribute "<parent>.<child>" names, and
// prefix is prepended to all of them. Help text comes from the `help` tag.
//
// Fields of unsupported types are reported in the returned error. A name that
// is already registered exits through the registry like the definers do.
func (r *Registry) RegisterStruct(prefix string, target any) error {
	return r.registerStruct(prefix, target, callerFile())
}

func (r *Registry) registerStruct(prefix string, target any, file string) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("RegisterStruct requires a non-nil struct pointer, got %T", target)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("RegisterStruct requires a struct pointer, got %T", target)
	}

	if prefix != "" && !strings.HasSuffix(prefix, ".") {
		prefix += "."
	}

	var errs []error
	r.registerFields(v, prefix, file, &errs)
	for _, err := range errs {
		var dup *DuplicateFlagError
		if errors.As(err, &dup) {
			r.fatal(dup)
			return dup
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("failed to register %d field(s): %w", len(errs), errors.Join(errs...))
	}
	return nil
}

func (r *Registry) registerFields(v reflect.Value, prefix, file string, errs *[]error) {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("flag")
		if tag == "-" {
			continue
		}
		key := strings.ToLower(field.Name)
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			key = name
		}
		name := prefix + key

		fieldValue := v.Field(i)
		if fieldValue.Kind() == reflect.Struct {
			r.registerFields(fieldValue, name+".", file, errs)
			continue
		}

		help := field.Tag.Get("help")
		var err error
		switch p := fieldValue.Addr().Interface().(type) {
		case *bool:
			err = r.Register(name, help, file, Borrow(p), Own(*p))
		case *int32:
			err = r.Register(name, help, file, Borrow(p), Own(*p))
		case *uint32:
			err = r.Register(name, help, file, Borrow(p), Own(*p))
		case *int64:
			err = r.Register(name, help, file, Borrow(p), Own(*p))
		case *uint64:
			err = r.Register(name, help, file, Borrow(p), Own(*p))
		case *float64:
			err = r.Register(name, help, file, Borrow(p), Own(*p))
		case *string:
			err = r.Register(name, help, file, Borrow(p), Own(*p))
		default:
			err = fmt.Errorf("field %s: unsupported flag type %s", field.Name, field.Type)
		}
		if err != nil {
			*errs = append(*errs, err)
		}
	}
}
