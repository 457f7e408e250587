// FILE: lixenwraith/flags/discovery.go
package flags

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FlagfileDiscoveryOptions configures the search for a default option file.
type FlagfileDiscoveryOptions struct {
	Name       string   // file name without extension
	Extensions []string // tried in order within each directory
	Dirs       []string // searched before the standard locations

	// EnvVar names a variable holding an explicit path. When set, it wins over
	// any search and the file need not exist yet.
	EnvVar string

	UseXDG        bool
	UseCurrentDir bool
}

// DefaultDiscoveryOptions looks for <app>.flags or <app>.conf, honouring
// <APP>_FLAGFILE.
func DefaultDiscoveryOptions(appName string) FlagfileDiscoveryOptions {
	return FlagfileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".flags", ".conf"},
		EnvVar:        strings.ToUpper(appName) + "_FLAGFILE",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// DiscoverFlagfile returns the path named by EnvVar, or else the first
// regular file found in Dirs, the current directory and the XDG directories.
func DiscoverFlagfile(opts FlagfileDiscoveryOptions) (string, bool) {
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path, true
		}
	}

	for _, dir := range opts.searchDirs() {
		for _, ext := range opts.Extensions {
			candidate := filepath.Join(dir, opts.Name+ext)
			if isRegularFile(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

func (o FlagfileDiscoveryOptions) searchDirs() []string {
	dirs := slices.Clone(o.Dirs)
	if o.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			dirs = append(dirs, cwd)
		}
	}
	if o.UseXDG {
		dirs = append(dirs, xdgConfigDirs(o.Name)...)
	}
	return dirs
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// xdgConfigDirs lists <dir>/<name> for the user config home followed by the
// system config dirs.
func xdgConfigDirs(name string) []string {
	var dirs []string

	home := os.Getenv("XDG_CONFIG_HOME")
	if home == "" {
		if userHome, err := os.UserHomeDir(); err == nil {
			home = filepath.Join(userHome, ".config")
		}
	}
	if home != "" {
		dirs = append(dirs, filepath.Join(home, name))
	}

	system := filepath.SplitList(os.Getenv("XDG_CONFIG_DIRS"))
	if len(system) == 0 {
		system = []string{"/etc/xdg", "/etc"}
	}
	for _, dir := range system {
		dirs = append(dirs, filepath.Join(dir, name))
	}
	return dirs
}

// WithFlagfileDiscovery presets --flagfile with a discovered option file when
// Build runs. Nothing is preset if the arguments set --flagfile themselves or
// no file is found.
func (b *Builder) WithFlagfileDiscovery(opts FlagfileDiscoveryOptions) *Builder {
	b.discovery = &opts
	return b
}

// namesFlagfile reports whether args, program name first, set --flagfile
// before any "--".
func namesFlagfile(args []string) bool {
	if len(args) < 2 {
		return false
	}
	for _, arg := range args[1:] {
		if arg == "--" {
			return false
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		key, _, _ := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if key == flagfileName {
			return true
		}
	}
	return false
}
