// FILE: lixenwraith/flags/define.go
package flags

import "runtime"

// define registers p under name, first storing value into it. The flag keeps
// p as its storage, so the program reads the flag by dereferencing p.
func define[T Scalar](r *Registry, p *T, name string, value T, help, file string) {
	*p = value
	r.mustRegister(name, help, file, Borrow(p), Own(value))
}

// callerFile returns the source file of the function that called the
// exported definer, recorded as the flag's origin.
func callerFile() string {
	_, file, _, ok := runtime.Caller(2)
	if !ok {
		return "unknown"
	}
	return file
}

// BoolVar defines a bool flag stored in p.
func (r *Registry) BoolVar(p *bool, name string, value bool, help string) {
	define(r, p, name, value, help, callerFile())
}

// Bool defines a bool flag and returns its storage.
func (r *Registry) Bool(name string, value bool, help string) *bool {
	p := new(bool)
	define(r, p, name, value, help, callerFile())
	return p
}

func (r *Registry) Int32Var(p *int32, name string, value int32, help string) {
	define(r, p, name, value, help, callerFile())
}

func (r *Registry) Int32(name string, value int32, help string) *int32 {
	p := new(int32)
	define(r, p, name, value, help, callerFile())
	return p
}

func (r *Registry) Uint32Var(p *uint32, name string, value uint32, help string) {
	define(r, p, name, value, help, callerFile())
}

func (r *Registry) Uint32(name string, value uint32, help string) *uint32 {
	p := new(uint32)
	define(r, p, name, value, help, callerFile())
	return p
}

func (r *Registry) Int64Var(p *int64, name string, value int64, help string) {
	define(r, p, name, value, help, callerFile())
}

func (r *Registry) Int64(name string, value int64, help string) *int64 {
	p := new(int64)
	define(r, p, name, value, help, callerFile())
	return p
}

func (r *Registry) Uint64Var(p *uint64, name string, value uint64, help string) {
	define(r, p, name, value, help, callerFile())
}

func (r *Registry) Uint64(name string, value uint64, help string) *uint64 {
	p := new(uint64)
	define(r, p, name, value, help, callerFile())
	return p
}

// Float64Var defines a double flag stored in p.
func (r *Registry) Float64Var(p *float64, name string, value float64, help string) {
	define(r, p, name, value, help, callerFile())
}

func (r *Registry) Float64(name string, value float64, help string) *float64 {
	p := new(float64)
	define(r, p, name, value, help, callerFile())
	return p
}

func (r *Registry) StringVar(p *string, name string, value string, help string) {
	define(r, p, name, value, help, callerFile())
}

func (r *Registry) String(name string, value string, help string) *string {
	p := new(string)
	define(r, p, name, value, help, callerFile())
	return p
}
