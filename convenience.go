// File: lixenwraith/flags/convenience.go
package flags

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Quick defines flags from the fields of target and parses os.Args.
// This is the shortest way to get a typed flag struct for most programs.
func Quick(target any) (*Registry, []string, error) {
	b := NewBuilder()
	b.structs = append(b.structs, structTarget{target: target, file: callerFile()})
	return b.WithArgs(os.Args).Build()
}

// MustQuick is like Quick but prints the error and exits with status 1.
func MustQuick(target any) (*Registry, []string) {
	b := NewBuilder()
	b.structs = append(b.structs, structTarget{target: target, file: callerFile()})
	return b.WithArgs(os.Args).MustBuild()
}

// Validate returns an error naming every listed flag that was never
// modified from its default.
func (r *Registry) Validate(required ...string) error {
	l := r.lock()
	defer l.unlock()

	var missing []string
	for _, name := range required {
		d := l.find(name)
		if d == nil {
			missing = append(missing, name+" (not defined)")
			continue
		}
		d.updateModified()
		if !d.modified {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Debug returns a listing of every flag with its current and default value.
func (r *Registry) Debug() string {
	var b strings.Builder
	b.WriteString("Flags:\n")

	file := ""
	for _, info := range r.All() {
		if info.Filename != file {
			file = info.Filename
			b.WriteString(fmt.Sprintf("  %s:\n", file))
		}
		b.WriteString(fmt.Sprintf("    --%s (%s)\n", info.Name, info.Type))
		b.WriteString(fmt.Sprintf("      Current: %q\n", info.CurrentValue))
		b.WriteString(fmt.Sprintf("      Default: %q\n", info.DefaultValue))
		if !info.IsDefault {
			b.WriteString("      Modified\n")
		}
		if info.HasValidator {
			b.WriteString("      Validated\n")
		}
	}

	return b.String()
}

// FlagSet exposes the registry as a standard library FlagSet for code that
// takes one. Its flags write through to the registry with SetValue.
func (r *Registry) FlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	for _, info := range r.All() {
		fs.Var(&flagSetValue{r: r, name: info.Name, isBool: info.Type == TypeBool.String()},
			info.Name, info.Description)
	}
	return fs
}

type flagSetValue struct {
	r      *Registry
	name   string
	isBool bool
}

func (v *flagSetValue) String() string {
	if v.r == nil {
		return ""
	}
	s, _ := v.r.Get(v.name)
	return s
}

func (v *flagSetValue) Set(s string) error {
	_, err := v.r.Set(v.name, s)
	return err
}

func (v *flagSetValue) IsBoolFlag() bool {
	return v.isBool
}
