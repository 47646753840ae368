package uid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Run("Uniqueness", func(t *testing.T) {
		existing := make(map[string]struct{})
		for i := 0; i < 1000; i++ {
			id, err := Generate(DefaultLength, existing)
			require.NoError(t, err)
			_, dup := existing[id]
			require.False(t, dup, "generated duplicate uid %q", id)
			existing[id] = struct{}{}
		}
		assert.Len(t, existing, 1000)
	})

	t.Run("Length And Alphabet", func(t *testing.T) {
		id, err := Generate(DefaultLength, nil)
		require.NoError(t, err)
		assert.Len(t, id, DefaultLength)
		for _, c := range id {
			assert.True(t, strings.ContainsRune(Chars, c), "unexpected character %q", c)
		}
	})

	t.Run("Avoids Existing", func(t *testing.T) {
		// With a single-character uid and all digits taken, only the 26
		// letters remain valid.
		existing := make(map[string]struct{})
		for _, c := range "0123456789" {
			existing[string(c)] = struct{}{}
		}
		for i := 0; i < 50; i++ {
			id, err := Generate(1, existing)
			require.NoError(t, err)
			assert.NotContains(t, existing, id)
		}
	})

	t.Run("Invalid Length", func(t *testing.T) {
		_, err := Generate(0, nil)
		assert.Error(t, err)
	})

	t.Run("Exhaustion", func(t *testing.T) {
		// Every single-character uid taken: the bounded loop must give up
		// with an error instead of spinning forever.
		existing := make(map[string]struct{})
		for _, c := range Chars {
			existing[string(c)] = struct{}{}
		}
		_, err := Generate(1, existing)
		assert.Error(t, err)
	})
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("0123456789", 10))
	assert.True(t, Valid("a1b2c3d4e5", 10))
	assert.False(t, Valid("short", 10))
	assert.False(t, Valid("0123-56789", 10))
	assert.False(t, Valid("ABCDEFGHIJ", 10))
}
