// FILE: lixenwraith/flags/commandline.go
package flags

import (
	"fmt"
	"os"
	"strings"
)

// Parse applies the options in args, where args[0] is the program name, and
// returns the positional arguments: those after "--" followed by the
// non-option tokens met before it, in order. Values of --flagfile, --fromenv
// and --tryfromenv already present are processed first. After the scan the
// reporter hook runs, then default values are validated.
//
// The returned error is a *ParseError listing everything left after --undefok
// and AllowReparsing were taken into account. Values that were applied before
// an error stay applied.
func (r *Registry) Parse(args []string) ([]string, error) {
	return r.parse(args, true)
}

// ParseNonHelp is Parse without the reporter hook.
func (r *Registry) ParseNonHelp(args []string) ([]string, error) {
	return r.parse(args, false)
}

// ReparseNonHelp parses the vector recorded by the first parse again, for
// flags defined after it ran.
func (r *Registry) ReparseNonHelp() ([]string, error) {
	return r.parse(r.Argvs(), false)
}

// Get returns the current value of a flag as text.
func (r *Registry) Get(name string) (string, bool) {
	l := r.lock()
	defer l.unlock()

	d := l.find(name)
	if d == nil {
		return "", false
	}
	return d.current.String(), true
}

// Lookup returns the state of one flag.
func (r *Registry) Lookup(name string) (FlagInfo, bool) {
	l := r.lock()
	defer l.unlock()

	d := l.find(name)
	if d == nil {
		return FlagInfo{}, false
	}
	return d.info(), true
}

// All returns every flag sorted by origin file, then name.
func (r *Registry) All() []FlagInfo {
	l := r.lock()
	defer l.unlock()

	ds := l.sorted()
	infos := make([]FlagInfo, len(ds))
	for i, d := range ds {
		infos[i] = d.info()
	}
	return infos
}

// Set is SetWithMode with SetValue.
func (r *Registry) Set(name, value string) (string, error) {
	return r.SetWithMode(name, value, SetValue)
}

// SetWithMode parses value into the named flag and returns a description of
// what was set. Setting --flagfile, --fromenv or --tryfromenv processes the
// new value right away; errors from that processing are returned too.
func (r *Registry) SetWithMode(name, value string, mode SetMode) (string, error) {
	l := r.lock()
	defer l.unlock()

	d := l.find(name)
	if d == nil {
		return "", &FlagError{
			Name: name,
			Err:  ErrUnknownFlag,
			Msg:  fmt.Sprintf("unknown command line flag '%s'", name),
		}
	}

	p := newParser()
	msg := p.processSingleOption(l, d, value, mode)
	if pe := newParseError(p.errs); pe != nil {
		return "", pe
	}
	return strings.TrimRight(msg, "\n"), nil
}

// ReadFlagsFromString applies contents in option-file format. It either
// applies everything or, on any error, restores every flag to its state
// before the call and returns the error.
func (r *Registry) ReadFlagsFromString(contents string) error {
	saved := r.Save()

	p := newParser()
	l := r.lock()
	p.processOptions(l, contents, SetValue)
	l.unlock()

	if r.reporter != nil {
		r.reporter(r)
	}

	l = r.lock()
	err := p.report(l)
	l.unlock()

	if err != nil {
		saved.Restore()
		return err
	}
	return nil
}

// ReadFromFlagsFile is ReadFlagsFromString on the contents of path.
func (r *Registry) ReadFromFlagsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: could not read '%s': %w", ErrFlagfile, path, err)
	}
	return r.ReadFlagsFromString(string(data))
}

// FlagsIntoString renders every flag as a "--name=value" line, in the order
// of All.
func (r *Registry) FlagsIntoString() string {
	return flagsIntoString(r.All())
}

func flagsIntoString(infos []FlagInfo) string {
	var sb strings.Builder
	for _, info := range infos {
		sb.WriteString("--")
		sb.WriteString(info.Name)
		sb.WriteByte('=')
		sb.WriteString(info.CurrentValue)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// AppendFlagsIntoFile appends the current flags to path in option-file
// format, preceded by a program-name line when progName is set. --flagfile
// itself is left out so the file cannot include itself.
func (r *Registry) AppendFlagsIntoFile(path, progName string) error {
	infos := r.All()
	kept := infos[:0]
	for _, info := range infos {
		if info.Name != flagfileName {
			kept = append(kept, info)
		}
	}

	var sb strings.Builder
	if progName != "" {
		sb.WriteString(progName)
		sb.WriteByte('\n')
	}
	sb.WriteString(flagsIntoString(kept))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open flags file '%s': %w", path, err)
	}
	if _, err := f.WriteString(sb.String()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write flags file '%s': %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close flags file '%s': %w", path, err)
	}
	return nil
}
