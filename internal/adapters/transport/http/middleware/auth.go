package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fastskeleton/backend/internal/adapters/transport/http/dto"
	customErrors "github.com/fastskeleton/backend/internal/domain/auth/errors"
	"github.com/fastskeleton/backend/internal/domain/auth/model"
)

const (
	currentUserKey = "currentUser"

	DetailCredentials = "Could not validate credentials"
	DetailUnavailable = "Service temporarily unavailable"
)

type Resolver interface {
	ResolveRequest(ctx context.Context, token string) (model.User, error)
}

// RequireUser resolves the bearer token into the current user and stores it on the context.
// Every authentication failure, disabled accounts included, gets the same 401 challenge;
// only a credential store outage is reported as 503.
func RequireUser(r Resolver, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c)
			return
		}

		user, err := r.ResolveRequest(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(currentUserKey, user)
			c.Next()
		case customErrors.IsStoreUnavailable(err):
			log.Error("resolve request: store unavailable", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.ErrorResponse{Detail: DetailUnavailable})
		default:
			unauthorized(c)
		}
	}
}

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(c *gin.Context) (model.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return model.User{}, false
	}
	user, ok := v.(model.User)
	return user, ok
}

func unauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Detail: DetailCredentials})
}

// bearerToken accepts "Bearer <token>" with a case-insensitive scheme.
func bearerToken(value string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(value), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
