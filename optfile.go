// FILE: lixenwraith/flags/optfile.go
package flags

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"
)

// processOptions applies an option file held in memory.
//
// Lines are trimmed of leading blanks. Empty lines and lines starting with
// '#' are skipped. A line starting with '-' is a flag, applied only while the
// current section is relevant. Any other line lists program-name patterns and
// opens a section that is relevant if one of them matches the running program;
// consecutive pattern lines form one section. Flags above the first pattern
// line apply to every program.
func (p *parser) processOptions(l lockedRegistry, contents string, mode SetMode) string {
	fullName := l.r.ProgramInvocationName()
	shortName := baseName(fullName)

	relevant := true
	inPatterns := false
	var msg string

	lines := strings.FieldsFunc(contents, func(c rune) bool { return c == '\n' || c == '\r' })
	for _, line := range lines {
		if p.stopped {
			break
		}
		line = strings.TrimLeft(line, " \t\v\f")
		if line == "" || line[0] == '#' {
			continue
		}

		if line[0] == '-' {
			inPatterns = false
			if !relevant {
				continue
			}

			arg := line[1:]
			if strings.HasPrefix(arg, "-") {
				arg = arg[1:]
			}
			a, ferr := l.splitArgument(arg)
			if ferr != nil {
				l.r.logger.Debug("skipping option file line",
					zap.String("line", line), zap.Error(ferr))
				continue
			}
			if !a.hasValue {
				l.r.logger.Debug("skipping option file flag without value",
					zap.String("flag", a.d.name))
				continue
			}
			msg += p.processSingleOption(l, a.d, a.value, mode)
			continue
		}

		if !inPatterns {
			inPatterns = true
			relevant = false
		}
		if !relevant {
			relevant = matchProgram(strings.Fields(line), fullName, shortName)
		}
	}
	return msg
}

// matchProgram reports whether any glob pattern matches the full or short
// program name. '*' does not cross a '/', and a pattern starting with '/'
// may also match the full name from the start of any path component.
// Patterns are doublestar globs, so '**' does cross '/' and {a,b} selects
// alternatives.
func matchProgram(patterns []string, fullName, shortName string) bool {
	for _, pattern := range patterns {
		if pattern == fullName || pattern == shortName {
			return true
		}
		if globMatch(pattern, fullName) || globMatch(pattern, shortName) {
			return true
		}
		if strings.HasPrefix(pattern, "/") {
			for i := 1; i < len(fullName); i++ {
				if fullName[i] == '/' && globMatch(pattern, fullName[i:]) {
					return true
				}
			}
		}
	}
	return false
}

func globMatch(pattern, name string) bool {
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

// splitFlagList splits a comma-separated list of flag names or file paths.
// A single trailing comma is tolerated.
func splitFlagList(list string) ([]string, error) {
	if list == "" {
		return nil, nil
	}
	list = strings.TrimSuffix(list, ",")
	parts := strings.Split(list, ",")
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("empty flaglist entry")
		}
		if part[0] == '-' {
			return nil, fmt.Errorf("flag \"%s\" begins with '-'", part)
		}
	}
	return parts, nil
}
