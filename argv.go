// FILE: lixenwraith/flags/argv.go
package flags

import (
	"runtime"
	"slices"
	"strings"
)

// argvState is guarded by Registry.argvMutex, never by the flag mutex.
type argvState struct {
	set     bool
	argv0   string
	cmdline string
	argvs   []string
	sum     uint32

	usage   string
	version string
}

// SetArgv records the program's argument vector. Only the first call has an
// effect; Parse calls it with the vector it is given.
func (r *Registry) SetArgv(args []string) {
	r.argvMutex.Lock()
	defer r.argvMutex.Unlock()

	if r.argv.set {
		return
	}
	r.argv.set = true
	r.argv.argvs = slices.Clone(args)
	if len(args) > 0 {
		r.argv.argv0 = args[0]
	}
	r.argv.cmdline = strings.Join(args, " ")
	for i := 0; i < len(r.argv.cmdline); i++ {
		r.argv.sum += uint32(r.argv.cmdline[i])
	}
}

// Argv returns the recorded command line joined by spaces.
func (r *Registry) Argv() string {
	r.argvMutex.Lock()
	defer r.argvMutex.Unlock()
	return r.argv.cmdline
}

// Argvs returns a copy of the recorded argument vector.
func (r *Registry) Argvs() []string {
	r.argvMutex.Lock()
	defer r.argvMutex.Unlock()
	return slices.Clone(r.argv.argvs)
}

// Argv0 is the program name as given on the command line, "UNKNOWN" before
// SetArgv.
func (r *Registry) Argv0() string {
	r.argvMutex.Lock()
	defer r.argvMutex.Unlock()
	return r.argv.argv0
}

// ArgvSum is the byte sum of the recorded command line, a cheap fingerprint.
func (r *Registry) ArgvSum() uint32 {
	r.argvMutex.Lock()
	defer r.argvMutex.Unlock()
	return r.argv.sum
}

func (r *Registry) ProgramInvocationName() string {
	return r.Argv0()
}

// ProgramInvocationShortName is Argv0 without its directory.
func (r *Registry) ProgramInvocationShortName() string {
	return baseName(r.Argv0())
}

func baseName(path string) string {
	sep := "/"
	if runtime.GOOS == "windows" {
		sep = `/\`
	}
	if i := strings.LastIndexAny(path, sep); i >= 0 {
		return path[i+1:]
	}
	return path
}

func (r *Registry) SetUsage(usage string) {
	r.argvMutex.Lock()
	defer r.argvMutex.Unlock()
	r.argv.usage = usage
}

// Usage returns the message set by SetUsage.
func (r *Registry) Usage() string {
	r.argvMutex.Lock()
	defer r.argvMutex.Unlock()
	if r.argv.usage == "" {
		return "Warning: SetUsageMessage() never called"
	}
	return r.argv.usage
}

func (r *Registry) SetVersion(version string) {
	r.argvMutex.Lock()
	defer r.argvMutex.Unlock()
	r.argv.version = version
}

func (r *Registry) Version() string {
	r.argvMutex.Lock()
	defer r.argvMutex.Unlock()
	return r.argv.version
}
