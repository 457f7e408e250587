// FILE: lixenwraith/flags/env.go
package flags

import (
	"fmt"
	"os"
)

// EnvPrefix is prepended to a flag name to form the variable --fromenv reads.
const EnvPrefix = "FLAGS_"

// EnvName returns the environment variable for flag name, e.g. FLAGS_port.
func EnvName(name string) string {
	return EnvPrefix + name
}

// FromEnv reads varName as a T using flag syntax, returning value when the
// variable is unset.
func FromEnv[T Scalar](varName string, value T) (T, error) {
	s, ok := os.LookupEnv(varName)
	if !ok {
		return value, nil
	}
	v, err := parseScalar[T](s)
	if err != nil {
		return value, fmt.Errorf("%w: error parsing env variable '%s' with value '%s' as %s",
			ErrIllegalValue, varName, s, typeOf[T]())
	}
	return v, nil
}

// DiscoverEnv maps each flag whose FLAGS_ variable is present to that
// variable's name. It is the list --fromenv would accept without error.
func (r *Registry) DiscoverEnv() map[string]string {
	l := r.lock()
	defer l.unlock()

	discovered := make(map[string]string)
	for name := range l.r.flags {
		envVar := EnvName(name)
		if _, exists := l.r.lookupEnv(envVar); exists {
			discovered[name] = envVar
		}
	}
	return discovered
}

// ExportEnv returns FLAGS_ variables for every modified flag, suitable for
// a child process started with --fromenv.
func (r *Registry) ExportEnv() map[string]string {
	l := r.lock()
	defer l.unlock()

	exports := make(map[string]string)
	for name, d := range l.r.flags {
		d.updateModified()
		if d.modified {
			exports[EnvName(name)] = d.current.String()
		}
	}
	return exports
}
