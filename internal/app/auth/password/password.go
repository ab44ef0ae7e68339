// Package password hashes and verifies user passwords with argon2id.
package password

import (
	"github.com/alexedwards/argon2id"

	customErrors "github.com/fastskeleton/backend/internal/domain/auth/errors"
)

var DefaultParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// dummyHash is verified against when no user matches so that unknown
// usernames cost the same as wrong passwords.
const dummyHash = "$argon2id$v=19$m=65536,t=2,p=4$c29tZXNhbHRzb21lc2FsdA$RdescudvJCsgt3ub+b+dWRWJTmaaJObG"

type Hasher struct {
	params *argon2id.Params
	pepper string
}

func NewHasher(pepper string, params *argon2id.Params) *Hasher {
	if params == nil {
		params = DefaultParams
	}
	return &Hasher{params: params, pepper: pepper}
}

// Hash returns a PHC-encoded argon2id hash with a fresh random salt.
func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := argon2id.CreateHash(plain+h.pepper, h.params)
	if err != nil {
		return "", customErrors.WrapInternal(err, "hash password")
	}
	return hash, nil
}

// Verify compares in constant time. A malformed hash is a mismatch.
func (h *Hasher) Verify(plain, hash string) bool {
	ok, err := argon2id.ComparePasswordAndHash(plain+h.pepper, hash)
	if err != nil {
		return false
	}
	return ok
}

// Burn runs a verification whose result is discarded.
func (h *Hasher) Burn(plain string) {
	_ = h.Verify(plain, dummyHash)
}
