// FILE: lixenwraith/flags/global.go
package flags

import "sync"

var (
	globalMutex sync.Mutex
	global      *Registry
)

// Global returns the process-wide Registry, creating it on first use.
// The package-level functions below operate on it.
func Global() *Registry {
	globalMutex.Lock()
	defer globalMutex.Unlock()

	if global == nil {
		global = New()
	}
	return global
}

// Shutdown releases the process-wide Registry and stops its watcher. A later
// Global call starts from an empty registry.
func Shutdown() {
	globalMutex.Lock()
	defer globalMutex.Unlock()

	if global != nil {
		global.StopWatching()
		global = nil
	}
}

func Bool(name string, value bool, help string) *bool {
	p := new(bool)
	define(Global(), p, name, value, help, callerFile())
	return p
}

func Int32(name string, value int32, help string) *int32 {
	p := new(int32)
	define(Global(), p, name, value, help, callerFile())
	return p
}

func Uint32(name string, value uint32, help string) *uint32 {
	p := new(uint32)
	define(Global(), p, name, value, help, callerFile())
	return p
}

func Int64(name string, value int64, help string) *int64 {
	p := new(int64)
	define(Global(), p, name, value, help, callerFile())
	return p
}

func Uint64(name string, value uint64, help string) *uint64 {
	p := new(uint64)
	define(Global(), p, name, value, help, callerFile())
	return p
}

func Float64(name string, value float64, help string) *float64 {
	p := new(float64)
	define(Global(), p, name, value, help, callerFile())
	return p
}

func String(name string, value string, help string) *string {
	p := new(string)
	define(Global(), p, name, value, help, callerFile())
	return p
}

// ParseCommandLineFlags parses args into the global registry and exits with
// status 1 on error. It returns the positional arguments.
func ParseCommandLineFlags(args []string) []string {
	return Global().ParseCommandLineFlags(args)
}

// Set sets a flag of the global registry.
func Set(name, value string) (string, error) {
	return Global().Set(name, value)
}

// Get returns a flag of the global registry as text.
func Get(name string) (string, bool) {
	return Global().Get(name)
}

// All lists the flags of the global registry.
func All() []FlagInfo {
	return Global().All()
}
