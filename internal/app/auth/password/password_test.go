package password

import (
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/require"
)

// cheap params keep the suite fast
var testParams = &argon2id.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHasher_HashIsSalted(t *testing.T) {
	h := NewHasher("", testParams)

	first, err := h.Hash("admin888")
	require.NoError(t, err)
	second, err := h.Hash("admin888")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.True(t, h.Verify("admin888", first))
	require.True(t, h.Verify("admin888", second))
}

func TestHasher_VerifyMismatch(t *testing.T) {
	h := NewHasher("", testParams)
	hash, err := h.Hash("correct horse")
	require.NoError(t, err)

	require.False(t, h.Verify("battery staple", hash))
	require.False(t, h.Verify("", hash))
}

func TestHasher_MalformedHash(t *testing.T) {
	h := NewHasher("", testParams)

	for _, bad := range []string{"", "plaintext", "$argon2id$v=19$broken", "$bcrypt$10$abc"} {
		require.False(t, h.Verify("whatever", bad), "hash %q", bad)
	}
}

func TestHasher_Pepper(t *testing.T) {
	peppered := NewHasher("pepper", testParams)
	hash, err := peppered.Hash("secret")
	require.NoError(t, err)

	require.True(t, peppered.Verify("secret", hash))
	require.False(t, NewHasher("", testParams).Verify("secret", hash))
	require.False(t, NewHasher("other", testParams).Verify("secret", hash))
}

func TestHasher_HashNeverContainsPlaintext(t *testing.T) {
	h := NewHasher("", testParams)
	hash, err := h.Hash("visible-password")
	require.NoError(t, err)
	require.NotContains(t, hash, "visible-password")
	require.Contains(t, hash, "$argon2id$")
}

func TestHasher_BurnDoesNotPanic(t *testing.T) {
	NewHasher("", testParams).Burn("anything")
}
