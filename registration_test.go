package dbind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	t.Run("load wraps value", func(t *testing.T) {
		r, err := NewRegistry(NewFormat(func([]byte) (int, error) { return 11, nil }, "num"))
		require.NoError(t, err)

		got, err := r.Load("num", nil)
		require.NoError(t, err)
		assert.Equal(t, 11, got)
	})

	t.Run("error bubbles up", func(t *testing.T) {
		r, err := NewRegistry(NewFormat(func([]byte) (int, error) { return 0, assert.AnError }, "err"))
		require.NoError(t, err)

		got, err := r.Load("err", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, got)
	})

	t.Run("registers every name", func(t *testing.T) {
		r, err := NewRegistry(NewFormat(func([]byte) (string, error) { return "x", nil }, "a", "b"))
		require.NoError(t, err)
		assert.True(t, r.Has("a"))
		assert.True(t, r.Has("b"))
	})

	t.Run("invalid name fails registration", func(t *testing.T) {
		_, err := NewRegistry(NewFormat(func([]byte) (string, error) { return "x", nil }, "ok", "Not OK"))
		require.Error(t, err)
	})
}

func TestGroup(t *testing.T) {
	t.Run("empty bundle succeeds", func(t *testing.T) {
		r, err := NewRegistry(Group())
		require.NoError(t, err)
		assert.NotNil(t, r)
	})

	t.Run("combines multiple formats", func(t *testing.T) {
		r, err := NewRegistry(Group(
			NewFormat(func([]byte) (string, error) { return "A", nil }, "a"),
			NewFormat(func([]byte) (string, error) { return "B", nil }, "b"),
		))
		require.NoError(t, err)

		gotA, err := r.Load("a", nil)
		require.NoError(t, err)
		assert.Equal(t, "A", gotA)

		gotB, err := r.Load("b", nil)
		require.NoError(t, err)
		assert.Equal(t, "B", gotB)
	})

	t.Run("registration error stops processing", func(t *testing.T) {
		called := false
		_, err := NewRegistry(Group(
			Registration(func(r *Registry) error { return assert.AnError }),
			Registration(func(r *Registry) error { called = true; return nil }),
		))
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.False(t, called, "later registration ran after error")
	})
}

func TestApply(t *testing.T) {
	t.Run("empty registration list succeeds", func(t *testing.T) {
		r := newRegistry()
		err := Apply(r)
		assert.NoError(t, err)
	})

	t.Run("applies all registrations", func(t *testing.T) {
		count := 0
		r := newRegistry()
		err := Apply(r,
			Registration(func(r *Registry) error { count++; return nil }),
			Registration(func(r *Registry) error { count++; return nil }),
		)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("duplicate format across registrations fails", func(t *testing.T) {
		r := newRegistry()
		err := Apply(r, JSONFormat, JSONFormat)
		require.Error(t, err)
	})
}

func TestNewRegistry(t *testing.T) {
	t.Run("empty build creates empty registry", func(t *testing.T) {
		r, err := NewRegistry()
		require.NoError(t, err)
		assert.NotNil(t, r)

		got, err := r.Load("json", []byte(`{}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownFormat)
		assert.Nil(t, got)
	})

	t.Run("registration error returns error", func(t *testing.T) {
		r, err := NewRegistry(Registration(func(r *Registry) error { return assert.AnError }))
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Nil(t, r)
	})
}
