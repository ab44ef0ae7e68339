package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	customErrors "github.com/fastskeleton/backend/internal/domain/auth/errors"
	jwt2 "github.com/fastskeleton/backend/internal/domain/auth/jwt"
)

const minSecretLen = 32

type Option func(*JwtUtilImpl)

// WithClock replaces time.Now for issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(j *JwtUtilImpl) { j.now = now }
}

type JwtUtilImpl struct {
	secret []byte
	now    func() time.Time
}

func NewJWTUtil(secret string, opts ...Option) (*JwtUtilImpl, error) {
	if len(secret) < minSecretLen {
		return nil, customErrors.NewInvalidArgument("secret key must be at least 32 bytes")
	}
	j := &JwtUtilImpl{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

func (j *JwtUtilImpl) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, customErrors.NewInvalidArgument("empty subject")
	}
	if ttl <= 0 {
		return "", time.Time{}, customErrors.NewInvalidArgument("non-positive ttl")
	}
	now := j.now()

	claims := jwt2.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, customErrors.WrapInternal(err, "sign access token")
	}

	return signed, claims.ExpiresAt.Time, nil
}

func (j *JwtUtilImpl) Verify(raw string) (jwt2.AccessClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(j.now),
	)

	token, err := parser.ParseWithClaims(raw, &jwt2.AccessClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt2.ErrSignatureInvalid
		}
		return j.secret, nil
	})
	if err != nil {
		return jwt2.AccessClaims{}, classify(err)
	}

	claims, ok := token.Claims.(*jwt2.AccessClaims)
	if !ok || !token.Valid {
		return jwt2.AccessClaims{}, jwt2.ErrMalformed
	}
	if claims.Subject == "" {
		return jwt2.AccessClaims{}, jwt2.ErrMalformed
	}

	return *claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return jwt2.ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable),
		errors.Is(err, jwt2.ErrSignatureInvalid):
		return jwt2.ErrSignatureInvalid
	default:
		return jwt2.ErrMalformed
	}
}
