// FILE: lixenwraith/flags/errors.go
package flags

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Error kinds. Every error produced while registering, setting or parsing flags
// wraps exactly one of these, so callers can branch with errors.Is.
var (
	ErrUnknownFlag     = errors.New("unknown flag")
	ErrIllegalValue    = errors.New("illegal flag value")
	ErrValidation      = errors.New("flag validation failed")
	ErrMissingArgument = errors.New("flag is missing its argument")
	ErrFlagfile        = errors.New("flagfile error")
	ErrFlagList        = errors.New("malformed flag list")
	ErrEnvNotFound     = errors.New("flag not found in environment")
	ErrRecursion       = errors.New("recursive flag source")
	ErrDuplicateFlag   = errors.New("duplicate flag")
	ErrTypeMismatch    = errors.New("flag type mismatch")
	ErrNoSuchFlag      = errors.New("no flag at storage address")
	ErrValidatorExists = errors.New("flag already has a validator")
)

// FlagError is a single recorded problem with one flag or command-line token.
type FlagError struct {
	Name string // flag name, or the raw token for unknown flags
	Err  error  // one of the Err* kinds
	Msg  string
}

func (e *FlagError) Error() string {
	return e.Msg
}

func (e *FlagError) Unwrap() error {
	return e.Err
}

// ParseError aggregates every error left over at the end of a parse pass,
// ordered by flag name.
type ParseError struct {
	Errors []*FlagError
}

func newParseError(errs map[string]*FlagError) *ParseError {
	if len(errs) == 0 {
		return nil
	}
	pe := &ParseError{Errors: make([]*FlagError, 0, len(errs))}
	for _, e := range errs {
		pe.Errors = append(pe.Errors, e)
	}
	slices.SortFunc(pe.Errors, func(a, b *FlagError) int {
		return strings.Compare(a.Name, b.Name)
	})
	return pe
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	for i, fe := range e.Errors {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("ERROR: ")
		sb.WriteString(fe.Msg)
	}
	return sb.String()
}

func (e *ParseError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, fe := range e.Errors {
		errs[i] = fe
	}
	return errs
}

// DuplicateFlagError reports a second registration of an existing flag name.
// It is never recovered from: the exit boundary terminates the process.
type DuplicateFlagError struct {
	Name      string
	File      string // origin of the flag already registered
	OtherFile string // origin of the rejected registration
}

func (e *DuplicateFlagError) Error() string {
	if e.File == e.OtherFile {
		return fmt.Sprintf("something wrong with flag '%s' in file '%s'. "+
			"One possibility: file '%s' is being linked both statically "+
			"and dynamically into this executable.", e.Name, e.File, e.File)
	}
	return fmt.Sprintf("flag '%s' was defined more than once (in files '%s' and '%s').",
		e.Name, e.File, e.OtherFile)
}

func (e *DuplicateFlagError) Unwrap() error {
	return ErrDuplicateFlag
}
