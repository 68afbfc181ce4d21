package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionSecret(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		secret, err := GenerateSessionSecret()
		require.NoError(t, err)
		assert.Len(t, secret, SessionSecretLength)
		for _, r := range secret {
			assert.True(t, strings.ContainsRune(sessionSecretAlphabet, r), "unexpected character %q", r)
		}
		seen[secret] = struct{}{}
	}
	assert.Len(t, seen, 50)
}

func TestHMACDigester(t *testing.T) {
	t.Parallel()

	d := NewHMACDigester([]byte("key-one"))

	a := d.Digest("secret")
	assert.Equal(t, a, d.Digest("secret"), "digest is deterministic")
	assert.Len(t, a, 64, "hex-encoded sha256")
	assert.NotEqual(t, a, d.Digest("secret2"))
	assert.NotEqual(t, a, NewHMACDigester([]byte("key-two")).Digest("secret"), "digest depends on the key")

	// RFC 4231 test case 2.
	rfc := NewHMACDigester([]byte("Jefe")).Digest("what do ya want for nothing?")
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", rfc)
}
