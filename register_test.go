// FILE: lixenwraith/flags/register_test.go
package flags

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverFlags struct {
	Host    string `flag:"host" help:"listen address"`
	Port    int32  `flag:"port"`
	Verbose bool
	Limits  struct {
		Rate  float64 `flag:"rate"`
		Burst uint32  `flag:"burst"`
	} `flag:"limits"`
	Secret   string `flag:"-"`
	internal int
}

func TestRegisterStruct(t *testing.T) {
	t.Run("Fields", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		s := &serverFlags{Host: "localhost", Port: 80}
		s.Limits.Rate = 2.5
		require.NoError(t, r.RegisterStruct("", s))

		host, ok := r.Lookup("host")
		require.True(t, ok)
		assert.Equal(t, "localhost", host.DefaultValue)
		assert.Equal(t, "listen address", host.Description)
		assert.Contains(t, host.Filename, "register_test.go")

		_, ok = r.Lookup("verbose")
		assert.True(t, ok, "untagged fields use the lower-cased field name")

		rate, ok := r.Lookup("limits.rate")
		require.True(t, ok)
		assert.Equal(t, "double", rate.Type)
		assert.Equal(t, "2.5", rate.CurrentValue)

		_, ok = r.Lookup("secret")
		assert.False(t, ok)
		_, ok = r.Lookup("internal")
		assert.False(t, ok)
	})

	t.Run("WritesThroughToStruct", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		s := &serverFlags{}
		require.NoError(t, r.RegisterStruct("srv", s))

		_, err := r.Parse([]string{"prog", "--srv.port=8080", "--srv.limits.burst=10", "--srv.verbose"})
		require.NoError(t, err)
		assert.Equal(t, int32(8080), s.Port)
		assert.Equal(t, uint32(10), s.Limits.Burst)
		assert.True(t, s.Verbose)
	})

	t.Run("PrefixWithDot", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		require.NoError(t, r.RegisterStruct("a.", &serverFlags{}))
		_, ok := r.Lookup("a.port")
		assert.True(t, ok)
	})

	t.Run("UnsupportedField", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		err := r.RegisterStruct("", &struct {
			Timeout time.Duration `flag:"timeout"`
			Name    string        `flag:"name"`
		}{})
		assert.ErrorContains(t, err, "unsupported flag type")

		_, ok := r.Lookup("name")
		assert.True(t, ok, "supported fields are still registered")
	})

	t.Run("DuplicateExits", func(t *testing.T) {
		r, rec, stderr := newTestRegistry(t)
		require.NoError(t, r.RegisterStruct("", &serverFlags{}))
		assert.Empty(t, rec.codes)

		err := r.RegisterStruct("", &serverFlags{})
		assert.ErrorIs(t, err, ErrDuplicateFlag)
		assert.Equal(t, []int{1}, rec.codes)
		assert.Contains(t, stderr.String(), "something wrong with flag")
	})

	t.Run("UnsupportedFieldDoesNotExit", func(t *testing.T) {
		r, rec, _ := newTestRegistry(t)
		err := r.RegisterStruct("", &struct {
			Timeout time.Duration `flag:"timeout"`
		}{})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrDuplicateFlag)
		assert.Empty(t, rec.codes)
	})

	t.Run("NotAStructPointer", func(t *testing.T) {
		r, _, _ := newTestRegistry(t)
		assert.Error(t, r.RegisterStruct("", serverFlags{}))
		assert.Error(t, r.RegisterStruct("", (*serverFlags)(nil)))
		n := 1
		assert.Error(t, r.RegisterStruct("", &n))
	})
}
