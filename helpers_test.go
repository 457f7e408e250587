// FILE: lixenwraith/flags/helpers_test.go
package flags

import (
	"bytes"
	"testing"
)

// exitRecorder stands in for os.Exit.
type exitRecorder struct {
	codes []int
}

func (e *exitRecorder) exit(code int) {
	e.codes = append(e.codes, code)
}

func noEnv(string) (string, bool) {
	return "", false
}

func mapEnv(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// newTestRegistry returns a registry that records exits, captures stderr and
// sees an empty environment unless opts say otherwise.
func newTestRegistry(t *testing.T, opts ...Option) (*Registry, *exitRecorder, *bytes.Buffer) {
	t.Helper()
	rec := &exitRecorder{}
	stderr := &bytes.Buffer{}
	base := []Option{WithExitFunc(rec.exit), WithStderr(stderr), WithEnvLookup(noEnv)}
	return New(append(base, opts...)...), rec, stderr
}
