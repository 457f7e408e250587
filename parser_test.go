// FILE: lixenwraith/flags/parser_test.go
package flags

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func parseErrorNames(t *testing.T, err error) []string {
	t.Helper()
	var pe *ParseError
	require.True(t, errors.As(err, &pe), "expected *ParseError, got %T: %v", err, err)
	names := make([]string, len(pe.Errors))
	for i, fe := range pe.Errors {
		names[i] = fe.Name
	}
	return names
}

func TestParseBasics(t *testing.T) {
	t.Run("MixedForms", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		port := r.Int32("port", 80, "")
		verbose := r.Bool("verbose", false, "")
		host := r.String("host", "", "")
		ratio := r.Float64("ratio", 0, "")

		rest, err := r.Parse([]string{"prog", "--port=8080", "-verbose", "--host", "example.com", "-ratio=0.5", "file.txt"})
		require.NoError(t, err)
		assert.Equal(t, int32(8080), *port)
		assert.True(t, *verbose)
		assert.Equal(t, "example.com", *host)
		assert.Equal(t, 0.5, *ratio)
		assert.Equal(t, []string{"file.txt"}, rest)
	})

	t.Run("NegatedBool", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		verbose := r.Bool("verbose", true, "")

		_, err := r.Parse([]string{"prog", "--noverbose"})
		require.NoError(t, err)
		assert.False(t, *verbose)
	})

	t.Run("LaterValueWins", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		n := r.Int64("n", 0, "")

		_, err := r.Parse([]string{"prog", "--n=1", "--n", "2", "--n=3"})
		require.NoError(t, err)
		assert.Equal(t, int64(3), *n)
	})

	t.Run("Permutation", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		x := r.Int32("x", 0, "")
		y := r.Int32("y", 0, "")

		rest, err := r.Parse([]string{"prog", "a", "--x=1", "b", "--", "c", "--y=2"})
		require.NoError(t, err)
		assert.Equal(t, int32(1), *x)
		assert.Equal(t, int32(0), *y, "options after -- are positional")
		assert.Equal(t, []string{"c", "--y=2", "a", "b"}, rest)
	})

	t.Run("SingleDashIsPositional", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		r.Bool("v", false, "")

		rest, err := r.Parse([]string{"prog", "-", "-v"})
		require.NoError(t, err)
		assert.Equal(t, []string{"-"}, rest)
	})

	t.Run("ArgvRecorded", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		_, err := r.Parse([]string{"/usr/bin/prog", "x"})
		require.NoError(t, err)
		assert.Equal(t, "/usr/bin/prog", r.Argv0())
		assert.Equal(t, "prog", r.ProgramInvocationShortName())
		assert.Equal(t, "/usr/bin/prog x", r.Argv())
	})
}

func TestParseErrors(t *testing.T) {
	t.Run("Unknown", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		r.Int32("port", 0, "")

		_, err := r.Parse([]string{"prog", "--bogus=1", "--port=9"})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownFlag)
		assert.Equal(t, "ERROR: unknown command line flag 'bogus'", err.Error())

		v, _ := r.Get("port")
		assert.Equal(t, "9", v, "valid flags are still applied")
	})

	t.Run("Aggregated", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		r.Int32("port", 0, "")

		_, err := r.Parse([]string{"prog", "--zed", "--port=abc", "--alpha"})
		assert.Equal(t, []string{"alpha", "port", "zed"}, parseErrorNames(t, err))
		assert.ErrorIs(t, err, ErrIllegalValue)
		assert.ErrorIs(t, err, ErrUnknownFlag)
	})

	t.Run("MissingArgument", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		r.String("name", "", "the name")

		_, err := r.Parse([]string{"prog", "--name"})
		assert.ErrorIs(t, err, ErrMissingArgument)
		assert.Contains(t, err.Error(), "flag '--name' is missing its argument; flag description: the name")
	})

	t.Run("NegatedNonBool", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		r.Int32("count", 0, "")

		_, err := r.Parse([]string{"prog", "--nocount"})
		assert.ErrorIs(t, err, ErrIllegalValue)
		assert.Contains(t, err.Error(), "boolean value (nocount) specified for int32 command line flag 'count'")
	})
}

// Parsing ["prog", "--port=8080", "--verbose", "extra"] sets both flags and
// leaves the positional argument.
func TestParsePortVerbose(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	port := r.Int32("port", 80, "")
	verbose := r.Bool("verbose", false, "")

	rest, err := r.Parse([]string{"prog", "--port=8080", "--verbose", "extra"})
	require.NoError(t, err)
	assert.Equal(t, int32(8080), *port)
	assert.True(t, *verbose)
	assert.Equal(t, []string{"extra"}, rest)

	info, _ := r.Lookup("port")
	assert.False(t, info.IsDefault)
}

// An out-of-range value reports an error and leaves the flag untouched.
func TestParseOutOfRange(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	port := r.Int32("port", 80, "")

	_, err := r.Parse([]string{"prog", "--port=99999999999"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal value '99999999999' specified for int32 flag 'port'")
	assert.Equal(t, int32(80), *port)

	info, _ := r.Lookup("port")
	assert.True(t, info.IsDefault)
}

func TestUndefOK(t *testing.T) {
	t.Run("Suppressed", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		_, err := r.Parse([]string{"prog", "--undefok=bogus,quiet", "--bogus=1", "--noquiet"})
		assert.NoError(t, err)
	})

	t.Run("OnlyListedNames", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		_, err := r.Parse([]string{"prog", "--undefok=bogus", "--bogus=1", "--other"})
		assert.Equal(t, []string{"other"}, parseErrorNames(t, err))
	})

	t.Run("AfterTheUnknownFlag", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		_, err := r.Parse([]string{"prog", "--bogus", "--undefok=bogus"})
		assert.NoError(t, err)
	})

	t.Run("DoesNotCoverIllegalValues", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		r.Int32("port", 0, "")
		_, err := r.Parse([]string{"prog", "--undefok=port", "--port=x"})
		assert.ErrorIs(t, err, ErrIllegalValue)
	})
}

func TestReparsing(t *testing.T) {
	r, _, _ := newTestRegistry(t)
	r.AllowReparsing()

	_, err := r.Parse([]string{"prog", "--late=5"})
	require.NoError(t, err)

	late := r.Int32("late", 0, "")
	_, err = r.ReparseNonHelp()
	require.NoError(t, err)
	assert.Equal(t, int32(5), *late)
}

func TestReporter(t *testing.T) {
	calls := 0
	r, _, _ := newTestRegistry(t, WithReporter(func(r *Registry) {
		calls++
		v, _ := r.Get("help")
		assert.Equal(t, "true", v, "reporter runs after the scan")
	}))
	r.Bool("help", false, "")

	_, err := r.Parse([]string{"prog", "--help"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = r.ParseNonHelp([]string{"prog", "--help"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSuspiciousValueWarning(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	r, _, _ := newTestRegistry(t, WithLogger(zap.New(core)))
	mode := r.String("mode", "", "either true or false")
	other := r.String("other", "", "a path")

	_, err := r.Parse([]string{"prog", "--mode", "-x", "--other", "-y"})
	require.NoError(t, err)
	assert.Equal(t, "-x", *mode)
	assert.Equal(t, "-y", *other)

	entries := logs.FilterMessageSnippet("suspicious").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "mode", entries[0].ContextMap()["flag"])
}

func TestFromEnv(t *testing.T) {
	t.Run("Strict", func(t *testing.T) {
		r, _, _ := newTestRegistry(t, WithEnvLookup(mapEnv(map[string]string{
			"FLAGS_port": "99",
			"FLAGS_name": "from env",
		})))
		port := r.Int32("port", 0, "")
		name := r.String("name", "", "")

		_, err := r.Parse([]string{"prog", "--fromenv=port,name"})
		require.NoError(t, err)
		assert.Equal(t, int32(99), *port)
		assert.Equal(t, "from env", *name)
	})

	t.Run("StrictMissingVariable", func(t *testing.T) {
		r := New(WithExitFunc(func(int) {}))
		foo := r.String("flags_test_unset_foo", "dflt", "")

		_, err := r.Parse([]string{"prog", "--fromenv=flags_test_unset_foo"})
		assert.ErrorIs(t, err, ErrEnvNotFound)
		assert.Contains(t, err.Error(), "FLAGS_flags_test_unset_foo not found in environment")
		assert.Equal(t, "dflt", *foo)
	})

	t.Run("LenientMissingVariable", func(t *testing.T) {
		r := New(WithExitFunc(func(int) {}))
		foo := r.String("flags_test_unset_foo", "dflt", "")

		_, err := r.Parse([]string{"prog", "--tryfromenv=flags_test_unset_foo"})
		require.NoError(t, err)
		assert.Equal(t, "dflt", *foo)
	})

	t.Run("ProcessEnvironment", func(t *testing.T) {
		t.Setenv("FLAGS_flags_test_level", "3")
		r := New(WithExitFunc(func(int) {}))
		level := r.Int32("flags_test_level", 0, "")

		_, err := r.Parse([]string{"prog", "--tryfromenv=flags_test_level"})
		require.NoError(t, err)
		assert.Equal(t, int32(3), *level)
	})

	t.Run("UnknownName", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		_, err := r.Parse([]string{"prog", "--tryfromenv=nope"})
		assert.ErrorIs(t, err, ErrUnknownFlag)
		assert.Contains(t, err.Error(), "unknown command line flag 'nope' (via --fromenv or --tryfromenv)")
	})

	t.Run("UnknownNameWithUndefOK", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		_, err := r.Parse([]string{"prog", "--undefok=nope", "--tryfromenv=nope"})
		assert.NoError(t, err)
	})

	t.Run("RecursionGuard", func(t *testing.T) {
		r, _, _ := newTestRegistry(t, WithEnvLookup(mapEnv(map[string]string{
			"FLAGS_fromenv": "fromenv",
		})))
		_, err := r.Parse([]string{"prog", "--fromenv=fromenv"})
		assert.ErrorIs(t, err, ErrRecursion)
		assert.Contains(t, err.Error(), "infinite recursion on environment flag 'fromenv'")
	})

	t.Run("ChainedThroughEnvironment", func(t *testing.T) {
		r, _, _ := newTestRegistry(t, WithEnvLookup(mapEnv(map[string]string{
			"FLAGS_tryfromenv": "port",
			"FLAGS_port":       "7",
		})))
		port := r.Int32("port", 0, "")

		_, err := r.Parse([]string{"prog", "--fromenv=tryfromenv"})
		require.NoError(t, err)
		assert.Equal(t, int32(7), *port)
	})

	t.Run("MalformedList", func(t *testing.T) {
		for _, list := range []string{",a", "a,,b", "-a"} {
			r, _, _ := newTestRegistry(t)
			_, err := r.Parse([]string{"prog", "--fromenv=" + list})
			assert.ErrorIs(t, err, ErrFlagList, list)
		}
	})

	t.Run("IllegalValue", func(t *testing.T) {
		r, _, _ := newTestRegistry(t, WithEnvLookup(mapEnv(map[string]string{"FLAGS_port": "high"})))
		port := r.Int32("port", 1, "")

		_, err := r.Parse([]string{"prog", "--fromenv=port"})
		assert.ErrorIs(t, err, ErrIllegalValue)
		assert.Equal(t, int32(1), *port)
	})
}

func TestFlagfile(t *testing.T) {
	t.Run("CommandLineOverrides", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "base.flags", "--count=3\n--name=fromfile\n")

		r, _, _ := newTestRegistry(t)
		count := r.Int32("count", 0, "")
		name := r.String("name", "", "")

		_, err := r.Parse([]string{"prog", "--flagfile=" + path, "--count=4"})
		require.NoError(t, err)
		assert.Equal(t, int32(4), *count)
		assert.Equal(t, "fromfile", *name)
	})

	t.Run("FileOverridesEarlierArgs", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "f.flags", "--count=3\n")

		r, _, _ := newTestRegistry(t)
		count := r.Int32("count", 0, "")

		_, err := r.Parse([]string{"prog", "--count=4", "--flagfile", path})
		require.NoError(t, err)
		assert.Equal(t, int32(3), *count)
	})

	t.Run("Nested", func(t *testing.T) {
		dir := t.TempDir()
		inner := writeFile(t, dir, "inner.flags", "--name=inner\n")
		outer := writeFile(t, dir, "outer.flags", "--count=1\n--flagfile="+inner+"\n")

		r, _, _ := newTestRegistry(t)
		count := r.Int32("count", 0, "")
		name := r.String("name", "", "")

		_, err := r.Parse([]string{"prog", "--flagfile=" + outer})
		require.NoError(t, err)
		assert.Equal(t, int32(1), *count)
		assert.Equal(t, "inner", *name)
	})

	t.Run("List", func(t *testing.T) {
		dir := t.TempDir()
		a := writeFile(t, dir, "a.flags", "--count=1\n")
		b := writeFile(t, dir, "b.flags", "--count=2\n")

		r, _, _ := newTestRegistry(t)
		count := r.Int32("count", 0, "")

		_, err := r.Parse([]string{"prog", "--flagfile=" + a + "," + b})
		require.NoError(t, err)
		assert.Equal(t, int32(2), *count)
	})

	t.Run("Missing", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		r.Int32("count", 0, "")

		_, err := r.Parse([]string{"prog", "--flagfile=" + filepath.Join(t.TempDir(), "absent"), "--count=2"})
		assert.ErrorIs(t, err, ErrFlagfile)

		v, _ := r.Get("count")
		assert.Equal(t, "0", v, "processing stops at an unreadable flagfile")
	})

	t.Run("IncludesItself", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "loop.flags")
		writeFile(t, dir, "loop.flags", "--count=1\n--flagfile="+path+"\n")

		r, _, _ := newTestRegistry(t)
		count := r.Int32("count", 0, "")

		_, err := r.Parse([]string{"prog", "--flagfile=" + path})
		assert.ErrorIs(t, err, ErrRecursion)
		assert.Equal(t, int32(1), *count)
	})

	t.Run("Preset", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "p.flags", "--count=5\n")

		r, _, _ := newTestRegistry(t)
		count := r.Int32("count", 0, "")
		r.preset("flagfile", path)

		_, err := r.Parse([]string{"prog"})
		require.NoError(t, err)
		assert.Equal(t, int32(5), *count)
	})
}

func TestValidationSweep(t *testing.T) {
	positive := func(name string, v int32) bool { return v > 0 }

	t.Run("DefaultFails", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		port := r.Int32("port", 0, "")
		require.NoError(t, RegisterValidator(r, port, positive))

		_, err := r.Parse([]string{"prog"})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "ERROR: --port must be set on the commandline (default value fails validation)", err.Error())
	})

	t.Run("SetOnCommandLine", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		port := r.Int32("port", 0, "")
		require.NoError(t, RegisterValidator(r, port, positive))

		_, err := r.Parse([]string{"prog", "--port=80"})
		require.NoError(t, err)
		assert.Equal(t, int32(80), *port)
	})

	t.Run("RejectedValue", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		port := r.Int32("port", 0, "")
		require.NoError(t, RegisterValidator(r, port, positive))

		_, err := r.Parse([]string{"prog", "--port=-1"})
		assert.Equal(t, "ERROR: failed validation of new value '-1' for flag 'port'", err.Error())
		assert.Equal(t, int32(0), *port)
	})

	t.Run("ValidateAllChecksModified", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		port := r.Int32("port", 80, "")
		_, err := r.Set("port", "0")
		require.NoError(t, err)
		require.NoError(t, RegisterValidator(r, port, positive))

		_, err = r.Parse([]string{"prog"})
		require.NoError(t, err, "the parse sweep only checks flags at their default")

		err = r.ValidateAll()
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, []string{"port"}, parseErrorNames(t, err))

		_, err = r.Set("port", "8080")
		require.NoError(t, err)
		assert.NoError(t, r.ValidateAll())
	})
}
