package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	customErrors "github.com/fastskeleton/backend/internal/domain/auth/errors"
)

// Codec failure kinds. Each one is also an ErrInvalidToken so callers that
// only care about "unauthenticated" can test for that alone.
var (
	ErrMalformed        = fmt.Errorf("%w: malformed", customErrors.ErrInvalidToken)
	ErrSignatureInvalid = fmt.Errorf("%w: signature invalid", customErrors.ErrInvalidToken)
	ErrExpired          = fmt.Errorf("%w: expired", customErrors.ErrInvalidToken)
)

type AccessClaims struct {
	jwt.RegisteredClaims
}

type TokenCodec interface {
	Issue(subject string, ttl time.Duration) (token string, exp time.Time, err error)
	Verify(token string) (claims AccessClaims, err error)
}
