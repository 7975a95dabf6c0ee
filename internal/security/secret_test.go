package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	require.NoError(t, err)
	b, err := GenerateSecret()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestResolveSecret(t *testing.T) {
	t.Run("hex", func(t *testing.T) {
		secret, generated, err := ResolveSecret("00ff10")
		require.NoError(t, err)
		assert.False(t, generated)
		assert.Equal(t, []byte{0x00, 0xff, 0x10}, secret)
	})

	t.Run("raw", func(t *testing.T) {
		secret, generated, err := ResolveSecret("not hex at all")
		require.NoError(t, err)
		assert.False(t, generated)
		assert.Equal(t, []byte("not hex at all"), secret)
	})

	t.Run("generated", func(t *testing.T) {
		secret, generated, err := ResolveSecret("")
		require.NoError(t, err)
		assert.True(t, generated)
		assert.Len(t, secret, 32)
	})
}
