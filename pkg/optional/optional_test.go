package optional

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	t.Run("None is absent", func(t *testing.T) {
		v := None[int]()
		assert.True(t, v.IsNone())
		assert.False(t, v.IsSome())
		got, ok := v.Get()
		assert.False(t, ok)
		assert.Equal(t, 0, got)
		assert.Nil(t, v.Ptr())
	})

	t.Run("zero value is absent", func(t *testing.T) {
		var v Value[string]
		assert.True(t, v.IsNone())
	})

	t.Run("Some keeps an explicit zero", func(t *testing.T) {
		v := Some(0)
		got, ok := v.Get()
		require.True(t, ok)
		assert.Equal(t, 0, got)

		b := Some(false)
		flag, ok := b.Get()
		require.True(t, ok)
		assert.False(t, flag)
	})

	t.Run("Some of a nil map is absent", func(t *testing.T) {
		var headers map[string]string
		assert.True(t, Some(headers).IsNone())
	})

	t.Run("Some of a nil pointer is absent", func(t *testing.T) {
		var p *int
		assert.True(t, Some(p).IsNone())
	})

	t.Run("UnwrapOr", func(t *testing.T) {
		assert.Equal(t, 7, None[int]().UnwrapOr(7))
		assert.Equal(t, 3, Some(3).UnwrapOr(7))
	})

	t.Run("Ptr returns a copy", func(t *testing.T) {
		v := Some(5)
		p := v.Ptr()
		require.NotNil(t, p)
		*p = 6
		got, _ := v.Get()
		assert.Equal(t, 5, got)
	})
}
