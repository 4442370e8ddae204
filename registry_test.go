package dbind

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constLoader(v any) Loader {
	return func([]byte) (any, error) { return v, nil }
}

func TestRegistry_Register(t *testing.T) {
	t.Run("valid name registration succeeds", func(t *testing.T) {
		r := newRegistry()
		err := r.Register("json", constLoader(1))
		require.NoError(t, err)
		assert.True(t, r.Has("json"))
	})

	t.Run("duplicate name returns error", func(t *testing.T) {
		r := newRegistry()
		require.NoError(t, r.Register("dup", constLoader(1)))

		err := r.Register("dup", constLoader(2))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("invalid names return error", func(t *testing.T) {
		r := newRegistry()
		invalid := []string{"", ".json", "JSON", "a.b", "t s v", "x-y"}
		for _, name := range invalid {
			err := r.Register(name, constLoader(1))
			require.Error(t, err, "expected error for name %q", name)
		}
	})

	t.Run("nil loader returns error", func(t *testing.T) {
		r := newRegistry()
		err := r.Register("nil", nil)
		require.Error(t, err)
	})
}

func TestRegistry_Load(t *testing.T) {
	t.Run("registered loader receives source", func(t *testing.T) {
		r := newRegistry()
		var seen []byte
		require.NoError(t, r.Register("raw", func(src []byte) (any, error) {
			seen = src
			return string(src), nil
		}))

		got, err := r.Load("raw", []byte("abc"))
		require.NoError(t, err)
		assert.Equal(t, "abc", got)
		assert.Equal(t, []byte("abc"), seen)
	})

	t.Run("missing format returns ErrUnknownFormat", func(t *testing.T) {
		r := newRegistry()
		got, err := r.Load("missing", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownFormat)
		assert.Nil(t, got)
	})

	t.Run("loader error wraps error", func(t *testing.T) {
		r := newRegistry()
		require.NoError(t, r.Register("fail", func([]byte) (any, error) { return nil, assert.AnError }))

		got, err := r.Load("fail", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), `"fail"`)
		assert.Nil(t, got)
	})
}

func TestRegistry_FormatOf(t *testing.T) {
	r := newRegistry()
	require.NoError(t, r.Register("json", constLoader("json")))
	require.NoError(t, r.Register("tsv", constLoader("tsv")))

	tests := []struct {
		path string
		want string
	}{
		{"data.json", "json"},
		{"dir/people.tsv", "tsv"},
		{"PEOPLE.TSV", "tsv"},
		{"data.yaml", DefaultFormat},
		{"data", DefaultFormat},
		{"", DefaultFormat},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, r.FormatOf(tt.path))
		})
	}

	t.Run("load file dispatches on extension", func(t *testing.T) {
		got, err := r.LoadFile("rows.tsv", nil)
		require.NoError(t, err)
		assert.Equal(t, "tsv", got)
	})
}

func TestRegistryEdgeCases(t *testing.T) {
	t.Run("concurrent registration and loads are safe", func(t *testing.T) {
		r := newRegistry()
		done := make(chan bool, 2)

		go func() {
			defer func() { done <- true }()
			assert.NoError(t, r.Register("concurrent", constLoader(42)))
		}()

		go func() {
			defer func() { done <- true }()
			_, _ = r.Load("concurrent", nil) // might not be registered yet
		}()

		<-done
		<-done

		got, err := r.Load("concurrent", nil)
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("errors.Is sees through load wrapping", func(t *testing.T) {
		_, err := newRegistry().LoadFile("x.json", nil)
		assert.True(t, errors.Is(err, ErrUnknownFormat))
	})
}
