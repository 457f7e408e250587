// FILE: lixenwraith/flags/registry.go
package flags

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Names of the flags every Registry defines for itself.
const (
	flagfileName   = "flagfile"
	fromenvName    = "fromenv"
	tryfromenvName = "tryfromenv"
	undefokName    = "undefok"
)

// Registry holds a set of flags and parses values into them.
// A Registry is safe for concurrent use; see Global for the process-wide one.
type Registry struct {
	mutex   sync.Mutex
	flags   map[string]*descriptor
	byAddr  map[any]*descriptor
	reparse bool

	builtin struct {
		flagfile   string
		fromenv    string
		tryfromenv string
		undefok    string
	}

	argvMutex sync.Mutex
	argv      argvState

	logger    *zap.Logger
	exit      func(code int)
	stderr    io.Writer
	lookupEnv func(key string) (string, bool)
	reporter  func(r *Registry)

	watchMutex sync.Mutex
	watcher    *watcher
}

// Option configures a Registry built by New.
type Option func(r *Registry)

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithExitFunc replaces os.Exit for the fatal paths of the registry.
func WithExitFunc(fn func(code int)) Option {
	return func(r *Registry) {
		if fn != nil {
			r.exit = fn
		}
	}
}

// WithStderr sets where fatal diagnostics are printed.
func WithStderr(w io.Writer) Option {
	return func(r *Registry) {
		if w != nil {
			r.stderr = w
		}
	}
}

// WithEnvLookup replaces os.LookupEnv for --fromenv and --tryfromenv.
func WithEnvLookup(fn func(key string) (string, bool)) Option {
	return func(r *Registry) {
		if fn != nil {
			r.lookupEnv = fn
		}
	}
}

// WithReporter installs the hook that runs after the argument scan of Parse.
// It is where --help or --version style flags are acted upon; it runs without
// the registry lock held and may call any Registry method.
func WithReporter(fn func(r *Registry)) Option {
	return func(r *Registry) {
		r.reporter = fn
	}
}

// New creates a Registry holding only the built-in flags.
func New(opts ...Option) *Registry {
	r := &Registry{
		flags:     make(map[string]*descriptor),
		byAddr:    make(map[any]*descriptor),
		logger:    zap.NewNop(),
		exit:      os.Exit,
		stderr:    os.Stderr,
		lookupEnv: os.LookupEnv,
	}
	r.argv.argv0 = "UNKNOWN"

	for _, opt := range opts {
		opt(r)
	}

	_, file, _, _ := runtime.Caller(0)
	builtins := []struct {
		name string
		p    *string
		help string
	}{
		{flagfileName, &r.builtin.flagfile, "load flags from file"},
		{fromenvName, &r.builtin.fromenv, "set flags from the environment [use 'export FLAGS_flag1=value']"},
		{tryfromenvName, &r.builtin.tryfromenv, "set flags from the environment if present"},
		{undefokName, &r.builtin.undefok, "comma-separated list of flag names that it is okay to specify " +
			"on the command line even if the program does not define a flag with that name.  " +
			"IMPORTANT: flags in this list that have arguments MUST use the flag=value format"},
	}

	l := r.lock()
	defer l.unlock()
	for _, b := range builtins {
		// Cannot collide on a fresh registry.
		_ = l.register(&descriptor{
			name:     b.name,
			help:     b.help,
			file:     file,
			current:  Borrow(b.p),
			defValue: Own(""),
		})
	}
	return r
}

// Register adds a flag. current and defValue must carry the same Type; the
// address of current is what RegisterValidator later looks the flag up by.
// A name that is already taken yields *DuplicateFlagError.
func (r *Registry) Register(name, help, file string, current, defValue Value) error {
	if name == "" {
		return fmt.Errorf("flag name cannot be empty")
	}
	if current == nil || defValue == nil {
		return fmt.Errorf("flag '%s' registered without a value", name)
	}
	if current.Type() != defValue.Type() {
		return fmt.Errorf("%w: flag '%s' current is %s, default is %s",
			ErrTypeMismatch, name, current.Type(), defValue.Type())
	}

	l := r.lock()
	defer l.unlock()
	return l.register(&descriptor{
		name:     name,
		help:     help,
		file:     file,
		current:  current,
		defValue: defValue,
	})
}

// AllowReparsing keeps later parses from reporting flags the registry does not
// know, for programs that parse again after more flags are defined.
func (r *Registry) AllowReparsing() {
	l := r.lock()
	defer l.unlock()
	l.r.reparse = true
}

// lockedRegistry is held only while r.mutex is locked. Every operation that
// reads or mutates a descriptor is a method on it, so none can run without
// the lock.
type lockedRegistry struct {
	r *Registry
}

func (r *Registry) lock() lockedRegistry {
	r.mutex.Lock()
	return lockedRegistry{r: r}
}

func (l lockedRegistry) unlock() {
	l.r.mutex.Unlock()
}

func (l lockedRegistry) register(d *descriptor) error {
	if prev, exists := l.r.flags[d.name]; exists {
		return &DuplicateFlagError{Name: d.name, File: prev.file, OtherFile: d.file}
	}
	l.r.flags[d.name] = d
	l.r.byAddr[d.current.Addr()] = d
	return nil
}

// find looks a flag up by name; "a-b" falls back to "a_b".
func (l lockedRegistry) find(name string) *descriptor {
	if d, ok := l.r.flags[name]; ok {
		return d
	}
	if strings.Contains(name, "-") {
		if d, ok := l.r.flags[strings.ReplaceAll(name, "-", "_")]; ok {
			return d
		}
	}
	return nil
}

func (l lockedRegistry) findByAddr(addr any) *descriptor {
	return l.r.byAddr[addr]
}

// sorted returns all descriptors ordered by origin file, then name.
func (l lockedRegistry) sorted() []*descriptor {
	ds := make([]*descriptor, 0, len(l.r.flags))
	for _, d := range l.r.flags {
		ds = append(ds, d)
	}
	slices.SortFunc(ds, func(a, b *descriptor) int {
		if c := cmp.Compare(a.file, b.file); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	return ds
}

// argument is one option token resolved against the registry.
type argument struct {
	d        *descriptor
	key      string
	value    string
	hasValue bool
}

// splitArgument resolves "name" or "name=value" (leading dashes already
// stripped). "noX" sets boolean X to false; a bare boolean X means true.
// On error the returned argument still carries the key.
func (l lockedRegistry) splitArgument(arg string) (argument, *FlagError) {
	key, value, hasValue := strings.Cut(arg, "=")
	a := argument{key: key, value: value, hasValue: hasValue}

	a.d = l.find(key)
	if a.d == nil {
		unknown := &FlagError{
			Name: key,
			Err:  ErrUnknownFlag,
			Msg:  fmt.Sprintf("unknown command line flag '%s'", key),
		}
		if !strings.HasPrefix(key, "no") {
			return a, unknown
		}
		d := l.find(key[2:])
		if d == nil {
			return a, unknown
		}
		if d.Type() != TypeBool {
			return a, &FlagError{
				Name: key,
				Err:  ErrIllegalValue,
				Msg: fmt.Sprintf("boolean value (%s) specified for %s command line flag '%s'",
					key, d.Type(), d.name),
			}
		}
		return argument{d: d, key: key[2:], value: "0", hasValue: true}, nil
	}

	if !hasValue && a.d.Type() == TypeBool {
		a.value, a.hasValue = "1", true
	}
	return a, nil
}

// setFlag writes value into d according to mode and returns a "name set to
// value" message. d is untouched when the value fails to parse or validate.
func (l lockedRegistry) setFlag(d *descriptor, value string, mode SetMode) (string, *FlagError) {
	d.updateModified()

	var msg string
	var ferr *FlagError
	switch mode {
	case SetValue:
		if msg, ferr = l.tryParse(d, d.current, value); ferr == nil {
			d.modified = true
		}
	case SetIfDefault:
		if d.modified {
			msg = fmt.Sprintf("%s set to %s", d.name, d.current.String())
		} else if msg, ferr = l.tryParse(d, d.current, value); ferr == nil {
			d.modified = true
		}
	case SetDefault:
		if msg, ferr = l.tryParse(d, d.defValue, value); ferr == nil && !d.modified {
			_, _ = l.tryParse(d, d.current, value)
		}
	default:
		return "", &FlagError{Name: d.name, Err: ErrIllegalValue, Msg: fmt.Sprintf("unknown set mode %d", mode)}
	}
	if ferr != nil {
		return "", ferr
	}

	l.r.logger.Debug("flag set",
		zap.String("flag", d.name),
		zap.String("value", value),
		zap.Stringer("mode", mode))
	return msg, nil
}

// tryParse validates value in a scratch cell before copying it into target.
func (l lockedRegistry) tryParse(d *descriptor, target Value, value string) (string, *FlagError) {
	tentative := target.zero()
	if err := tentative.Set(value); err != nil {
		return "", &FlagError{
			Name: d.name,
			Err:  ErrIllegalValue,
			Msg:  fmt.Sprintf("illegal value '%s' specified for %s flag '%s'", value, d.Type(), d.name),
		}
	}
	if !d.validateValue(tentative) {
		return "", &FlagError{
			Name: d.name,
			Err:  ErrValidation,
			Msg:  fmt.Sprintf("failed validation of new value '%s' for flag '%s'", value, d.name),
		}
	}
	target.copyFrom(tentative)
	return fmt.Sprintf("%s set to %s", d.name, target.String()), nil
}
