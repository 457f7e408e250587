// File: lixenwraith/flags/builder.go
package flags

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// ValidatorFunc checks the parsed registry as a whole, e.g. for flags that
// depend on each other. It runs after Parse succeeded.
type ValidatorFunc func(r *Registry) error

type structTarget struct {
	prefix string
	target any
	file   string
}

// Builder defines flags, presets the recursion flags and parses in one chain.
type Builder struct {
	opts       []Option
	structs    []structTarget
	args       []string
	flagfiles  []string
	fromenv    []string
	tryfromenv []string
	undefok    []string
	usage      string
	version    string
	validators []ValidatorFunc
	discovery  *FlagfileDiscoveryOptions
}

// NewBuilder returns a Builder that parses os.Args.
func NewBuilder() *Builder {
	return &Builder{
		args:       os.Args,
		validators: make([]ValidatorFunc, 0),
	}
}

// WithStruct defines flags from the fields of target, see RegisterStruct.
func (b *Builder) WithStruct(prefix string, target any) *Builder {
	b.structs = append(b.structs, structTarget{prefix: prefix, target: target, file: callerFile()})
	return b
}

// WithArgs sets the argument vector, program name first.
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithFlagfile presets --flagfile; the files are read before the arguments,
// so the command line overrides them.
func (b *Builder) WithFlagfile(paths ...string) *Builder {
	b.flagfiles = append(b.flagfiles, paths...)
	return b
}

// WithFromEnv presets --fromenv with flag names that must be in the environment.
func (b *Builder) WithFromEnv(names ...string) *Builder {
	b.fromenv = append(b.fromenv, names...)
	return b
}

// WithTryFromEnv presets --tryfromenv.
func (b *Builder) WithTryFromEnv(names ...string) *Builder {
	b.tryfromenv = append(b.tryfromenv, names...)
	return b
}

// WithUndefOK presets --undefok.
func (b *Builder) WithUndefOK(names ...string) *Builder {
	b.undefok = append(b.undefok, names...)
	return b
}

func (b *Builder) WithUsage(usage string) *Builder {
	b.usage = usage
	return b
}

func (b *Builder) WithVersion(version string) *Builder {
	b.version = version
	return b
}

func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.opts = append(b.opts, WithLogger(logger))
	return b
}

func (b *Builder) WithExitFunc(fn func(code int)) *Builder {
	b.opts = append(b.opts, WithExitFunc(fn))
	return b
}

func (b *Builder) WithReporter(fn func(r *Registry)) *Builder {
	b.opts = append(b.opts, WithReporter(fn))
	return b
}

func (b *Builder) WithOptions(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// WithValidator adds a check run after a successful parse.
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the registry, parses the arguments and runs the validators.
// The registry is returned even on error so the caller can inspect it.
func (b *Builder) Build() (*Registry, []string, error) {
	r := New(b.opts...)

	for _, s := range b.structs {
		if err := r.registerStruct(s.prefix, s.target, s.file); err != nil {
			return r, nil, fmt.Errorf("failed to define flags: %w", err)
		}
	}

	if b.usage != "" {
		r.SetUsage(b.usage)
	}
	if b.version != "" {
		r.SetVersion(b.version)
	}

	flagfiles := b.flagfiles
	if b.discovery != nil && !namesFlagfile(b.args) {
		if path, ok := DiscoverFlagfile(*b.discovery); ok {
			flagfiles = append([]string{path}, flagfiles...)
		}
	}

	presets := []struct {
		name   string
		values []string
	}{
		{flagfileName, flagfiles},
		{fromenvName, b.fromenv},
		{tryfromenvName, b.tryfromenv},
		{undefokName, b.undefok},
	}
	for _, p := range presets {
		if len(p.values) == 0 {
			continue
		}
		if err := r.preset(p.name, strings.Join(p.values, ",")); err != nil {
			return r, nil, err
		}
	}

	rest, err := r.Parse(b.args)
	if err != nil {
		return r, rest, err
	}

	var errs []error
	for _, validator := range b.validators {
		if err := validator(r); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return r, rest, fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}

	return r, rest, nil
}

// MustBuild is Build that exits through the registry on error.
func (b *Builder) MustBuild() (*Registry, []string) {
	r, rest, err := b.Build()
	if err != nil {
		r.fatal(err)
	}
	return r, rest
}

// preset stores a value in a built-in flag without processing it; Parse
// processes it before scanning arguments.
func (r *Registry) preset(name, value string) error {
	l := r.lock()
	defer l.unlock()
	d := l.find(name)
	if d == nil {
		return &FlagError{Name: name, Err: ErrUnknownFlag, Msg: fmt.Sprintf("unknown command line flag '%s'", name)}
	}
	if _, ferr := l.setFlag(d, value, SetValue); ferr != nil {
		return ferr
	}
	return nil
}
