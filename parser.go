// FILE: lixenwraith/flags/parser.go
package flags

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// parser carries the state of one parse pass. Every method taking a
// lockedRegistry runs with the registry lock held by its caller, including
// the file reads and environment lookups of --flagfile and --fromenv.
type parser struct {
	errs      map[string]*FlagError
	undefined map[string]struct{}
	files     []string // option files being read, innermost last
	stopped   bool     // an unrecoverable error ended the pass
}

func newParser() *parser {
	return &parser{
		errs:      make(map[string]*FlagError),
		undefined: make(map[string]struct{}),
	}
}

func (p *parser) record(e *FlagError) {
	p.errs[e.Name] = e
}

// fail records e and stops all further processing in this pass.
func (p *parser) fail(e *FlagError) {
	p.record(e)
	p.stopped = true
}

func (p *parser) recordUndefined(e *FlagError) {
	p.undefined[e.Name] = struct{}{}
	p.record(e)
}

// parse is the shared body of Parse and ParseNonHelp.
func (r *Registry) parse(args []string, report bool) ([]string, error) {
	r.SetArgv(args)

	p := newParser()
	l := r.lock()
	p.processPresets(l)
	var rest []string
	if p.stopped {
		if len(args) > 1 {
			rest = slices.Clone(args[1:])
		}
	} else {
		rest = p.scan(l, args)
	}
	l.unlock()

	if report && r.reporter != nil {
		r.reporter(r)
	}

	l = r.lock()
	defer l.unlock()
	p.validate(l, false)
	if err := p.report(l); err != nil {
		return rest, err
	}
	return rest, nil
}

// ValidateAll runs every validator against its flag's current value,
// including flags set since the last parse, and returns the failures.
func (r *Registry) ValidateAll() error {
	p := newParser()
	l := r.lock()
	defer l.unlock()
	p.validate(l, true)
	if pe := newParseError(p.errs); pe != nil {
		return pe
	}
	return nil
}

// processPresets handles recursion flags that hold a value before any
// argument is scanned, e.g. set by the program or a Builder.
func (p *parser) processPresets(l lockedRegistry) {
	if v := l.r.builtin.flagfile; v != "" {
		p.processFlagfile(l, v, SetValue)
	}
	if v := l.r.builtin.fromenv; v != "" && !p.stopped {
		p.processFromEnv(l, v, SetValue, true)
	}
	if v := l.r.builtin.tryfromenv; v != "" && !p.stopped {
		p.processFromEnv(l, v, SetValue, false)
	}
}

// scan applies every option in args[1:] and returns the positional arguments.
// Non-option tokens are moved behind the options as they are met, and "--"
// ends option processing.
func (p *parser) scan(l lockedRegistry, args []string) []string {
	argv := slices.Clone(args)
	firstNonopt := len(argv)

	for i := 1; i < firstNonopt && !p.stopped; i++ {
		arg := argv[i]

		if len(arg) < 2 || arg[0] != '-' {
			copy(argv[i:], argv[i+1:])
			argv[len(argv)-1] = arg
			firstNonopt--
			i--
			continue
		}

		arg = arg[1:]
		if arg[0] == '-' {
			arg = arg[1:]
		}
		if arg == "" {
			firstNonopt = i + 1
			break
		}

		a, ferr := l.splitArgument(arg)
		if ferr != nil {
			p.recordUndefined(ferr)
			continue
		}

		value := a.value
		if !a.hasValue {
			if i+1 >= firstNonopt {
				msg := fmt.Sprintf("flag '%s' is missing its argument", argv[i])
				if a.d.help != "" {
					msg += "; flag description: " + a.d.help
				}
				p.fail(&FlagError{Name: a.d.name, Err: ErrMissingArgument, Msg: msg})
				break
			}
			i++
			value = argv[i]

			if strings.HasPrefix(value, "-") && a.d.Type() == TypeString &&
				(strings.Contains(a.d.help, "true") || strings.Contains(a.d.help, "false")) {
				l.r.logger.Warn("suspicious flag value, did you mean to pass another flag?",
					zap.String("flag", a.d.name),
					zap.String("value", value))
			}
		}

		p.processSingleOption(l, a.d, value, SetValue)
	}

	return argv[firstNonopt:]
}

// processSingleOption sets one flag and immediately expands it if it is one
// of the recursion flags.
func (p *parser) processSingleOption(l lockedRegistry, d *descriptor, value string, mode SetMode) string {
	msg, ferr := l.setFlag(d, value, mode)
	if ferr != nil {
		p.record(ferr)
		return ""
	}
	msg += "\n"

	switch d.name {
	case flagfileName:
		msg += p.processFlagfile(l, l.r.builtin.flagfile, mode)
	case fromenvName:
		msg += p.processFromEnv(l, l.r.builtin.fromenv, mode, true)
	case tryfromenvName:
		msg += p.processFromEnv(l, l.r.builtin.tryfromenv, mode, false)
	}
	return msg
}

func (p *parser) processFlagfile(l lockedRegistry, list string, mode SetMode) string {
	paths, err := splitFlagList(list)
	if err != nil {
		p.fail(&FlagError{Name: flagfileName, Err: ErrFlagList, Msg: err.Error()})
		return ""
	}

	var msg string
	for _, path := range paths {
		key := path
		if abs, err := filepath.Abs(path); err == nil {
			key = abs
		}
		if slices.Contains(p.files, key) {
			p.record(&FlagError{
				Name: flagfileName,
				Err:  ErrRecursion,
				Msg:  fmt.Sprintf("flagfile '%s' includes itself", path),
			})
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			p.fail(&FlagError{
				Name: flagfileName,
				Err:  ErrFlagfile,
				Msg:  fmt.Sprintf("could not read flagfile '%s': %v", path, err),
			})
			return msg
		}

		p.files = append(p.files, key)
		msg += p.processOptions(l, string(data), mode)
		p.files = p.files[:len(p.files)-1]
		if p.stopped {
			break
		}
	}
	return msg
}

// processFromEnv sets each listed flag from FLAGS_<name>. A missing variable
// is an error only when strict.
func (p *parser) processFromEnv(l lockedRegistry, list string, mode SetMode, strict bool) string {
	names, err := splitFlagList(list)
	if err != nil {
		name := tryfromenvName
		if strict {
			name = fromenvName
		}
		p.fail(&FlagError{Name: name, Err: ErrFlagList, Msg: err.Error()})
		return ""
	}

	var msg string
	for _, name := range names {
		d := l.find(name)
		if d == nil {
			p.recordUndefined(&FlagError{
				Name: name,
				Err:  ErrUnknownFlag,
				Msg:  fmt.Sprintf("unknown command line flag '%s' (via --fromenv or --tryfromenv)", name),
			})
			continue
		}

		envName := EnvName(name)
		envValue, ok := l.r.lookupEnv(envName)
		if !ok {
			if strict {
				p.record(&FlagError{
					Name: name,
					Err:  ErrEnvNotFound,
					Msg:  fmt.Sprintf("%s not found in environment", envName),
				})
			}
			continue
		}

		if envValue == fromenvName || envValue == tryfromenvName {
			p.record(&FlagError{
				Name: name,
				Err:  ErrRecursion,
				Msg:  fmt.Sprintf("infinite recursion on environment flag '%s'", envValue),
			})
			continue
		}

		msg += p.processSingleOption(l, d, envValue, mode)
		if p.stopped {
			break
		}
	}
	return msg
}

// validate re-runs validators over the current values. With all unset only
// flags still at their default are checked, since set values were validated
// when they were written.
func (p *parser) validate(l lockedRegistry, all bool) {
	for _, d := range l.r.flags {
		if !all && d.modified {
			continue
		}
		if d.validateCurrent() {
			continue
		}
		if _, exists := p.errs[d.name]; exists {
			continue
		}
		msg := fmt.Sprintf("--%s must be set on the commandline", d.name)
		if !d.modified {
			msg += " (default value fails validation)"
		}
		p.record(&FlagError{Name: d.name, Err: ErrValidation, Msg: msg})
	}
}

// report drops unknown-flag errors permitted by --undefok or AllowReparsing
// and returns what is left, or nil.
func (p *parser) report(l lockedRegistry) error {
	allowed, err := splitFlagList(l.r.builtin.undefok)
	if err != nil {
		p.record(&FlagError{Name: undefokName, Err: ErrFlagList, Msg: err.Error()})
	}
	for _, name := range allowed {
		if _, ok := p.undefined[name]; ok {
			delete(p.errs, name)
		} else if _, ok := p.undefined["no"+name]; ok {
			delete(p.errs, "no"+name)
		}
	}

	if l.r.reparse {
		for name := range p.undefined {
			delete(p.errs, name)
		}
	}

	if pe := newParseError(p.errs); pe != nil {
		return pe
	}
	return nil
}
