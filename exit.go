// FILE: lixenwraith/flags/exit.go
package flags

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
)

// This file is the only place the registry ends the process. Everything else
// returns errors.

// ParseCommandLineFlags is Parse that prints any error and exits with status 1.
func (r *Registry) ParseCommandLineFlags(args []string) []string {
	rest, err := r.Parse(args)
	if err != nil {
		r.fatal(err)
	}
	return rest
}

// ParseCommandLineNonHelpFlags is ParseNonHelp that exits on error.
func (r *Registry) ParseCommandLineNonHelpFlags(args []string) []string {
	rest, err := r.ParseNonHelp(args)
	if err != nil {
		r.fatal(err)
	}
	return rest
}

// MustReadFlagsFromString is ReadFlagsFromString that exits on error, after
// the rollback.
func (r *Registry) MustReadFlagsFromString(contents string) {
	if err := r.ReadFlagsFromString(contents); err != nil {
		r.fatal(err)
	}
}

func (r *Registry) MustReadFromFlagsFile(path string) {
	if err := r.ReadFromFlagsFile(path); err != nil {
		r.fatal(err)
	}
}

// mustRegister terminates on a duplicate name: two definitions of one flag is
// a defect of the program, not a runtime condition.
func (r *Registry) mustRegister(name, help, file string, current, defValue Value) {
	if err := r.Register(name, help, file, current, defValue); err != nil {
		r.fatal(err)
	}
}

// Exit ends the process through the registry's exit function, for reporter
// hooks that handle --help and similar flags.
func (r *Registry) Exit(code int) {
	r.exit(code)
}

func (r *Registry) fatal(err error) {
	prefix := color.New(color.FgRed, color.Bold)

	var pe *ParseError
	if errors.As(err, &pe) {
		for _, fe := range pe.Errors {
			prefix.Fprint(r.stderr, "ERROR:")
			fmt.Fprintf(r.stderr, " %s\n", fe.Msg)
		}
	} else {
		prefix.Fprint(r.stderr, "ERROR:")
		fmt.Fprintf(r.stderr, " %v\n", err)
	}
	r.exit(1)
}
