package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fastskeleton/backend/internal/adapters/transport/http/dto"
	"github.com/fastskeleton/backend/internal/app/auth/password"
	customErrors "github.com/fastskeleton/backend/internal/domain/auth/errors"
	"github.com/fastskeleton/backend/internal/domain/auth/jwt"
	"github.com/fastskeleton/backend/internal/domain/auth/model"
	"github.com/fastskeleton/backend/internal/domain/auth/repo"
	"github.com/fastskeleton/backend/internal/infra/config"
	lg "github.com/fastskeleton/backend/internal/infra/log"
	"github.com/fastskeleton/backend/internal/infra/metrics"
)

const TokenTypeBearer = "bearer"

type Service interface {
	Register(context.Context, dto.RegisterDTO) (model.User, error)
	Login(context.Context, dto.LoginDTO) (model.Session, error)
	ResolveRequest(ctx context.Context, token string) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	Deactivate(ctx context.Context, id int64) error
}

type authService struct {
	userRepo repo.UserRepo
	sessions repo.SessionCache
	codec    jwt.TokenCodec
	hasher   *password.Hasher
	cfg      *config.Config
	v        *validator.Validate
	log      *zap.Logger
	metrics  *metrics.Metrics
}

type Deps struct {
	Users    repo.UserRepo
	Sessions repo.SessionCache
	Codec    jwt.TokenCodec
	Hasher   *password.Hasher
	Config   *config.Config
	Validate *validator.Validate
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

func New(d Deps) Service {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Validate == nil {
		d.Validate = validator.New()
	}
	return &authService{
		userRepo: d.Users,
		sessions: d.Sessions,
		codec:    d.Codec,
		hasher:   d.Hasher,
		cfg:      d.Config,
		v:        d.Validate,
		log:      d.Logger,
		metrics:  d.Metrics,
	}
}

func (a *authService) Register(ctx context.Context, in dto.RegisterDTO) (model.User, error) {
	if err := a.v.Struct(in); err != nil {
		return model.User{}, customErrors.NewInvalidArgument(err.Error())
	}

	passwordHash, err := a.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	user, err := a.userRepo.CreateUser(ctx, model.User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: passwordHash,
		IsActive:     active,
		IsSuperuser:  in.IsSuperuser,
	})
	if err != nil {
		if !customErrors.IsConflict(err) {
			a.log.Error("register: store failure", lg.Subject(in.Email), zap.Error(err))
		}
		return model.User{}, err
	}

	a.log.Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

func (a *authService) Login(ctx context.Context, in dto.LoginDTO) (model.Session, error) {
	if err := a.v.Struct(in); err != nil {
		a.metrics.Login("invalid_argument")
		return model.Session{}, customErrors.NewInvalidArgument(err.Error())
	}

	user, err := a.userRepo.GetUserByUsername(ctx, in.Username)
	switch {
	case customErrors.IsNotFound(err):
		a.hasher.Burn(in.Password)
		return model.Session{}, a.loginFailed(in.Username, customErrors.ErrInvalidCredentials)
	case err != nil:
		a.metrics.Login("store_unavailable")
		a.log.Error("login: store failure", lg.Subject(in.Username), zap.Error(err))
		return model.Session{}, err
	}

	if !a.hasher.Verify(in.Password, user.PasswordHash) {
		return model.Session{}, a.loginFailed(in.Username, customErrors.ErrInvalidCredentials)
	}
	if !user.IsActive {
		return model.Session{}, a.loginFailed(in.Username, customErrors.ErrAccountDisabled)
	}

	ttl := a.cfg.AccessTokenTTL
	token, exp, err := a.codec.Issue(user.Username, ttl)
	if err != nil {
		a.metrics.Login("internal")
		return model.Session{}, customErrors.WrapInternal(err, "Issue")
	}

	a.sessions.RecordSession(ctx, token, user.ID, ttl)

	a.metrics.Login("ok")
	a.log.Info("login succeeded", zap.Int64("user_id", user.ID))

	return model.Session{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   exp,
		TTL:         ttl,
		User:        user,
	}, nil
}

func (a *authService) loginFailed(username string, err error) error {
	outcome := "invalid_credentials"
	if errors.Is(err, customErrors.ErrAccountDisabled) {
		outcome = "account_disabled"
	}
	a.metrics.Login(outcome)
	a.log.Info("login rejected", lg.Subject(username), zap.String("reason", outcome))
	return err
}

// ResolveRequest is the single authority on whether a bearer token
// authenticates a request. The session cache is only consulted when
// single-session enforcement is on, and only a positive "newer token exists"
// answer rejects.
func (a *authService) ResolveRequest(ctx context.Context, token string) (model.User, error) {
	claims, err := a.codec.Verify(token)
	if err != nil {
		a.metrics.Resolve("invalid_token")
		a.log.Debug("token rejected", zap.Error(err))
		return model.User{}, customErrors.ErrInvalidToken
	}

	user, err := a.userRepo.GetUserByUsername(ctx, claims.Subject)
	switch {
	case customErrors.IsNotFound(err):
		a.metrics.Resolve("invalid_token")
		a.log.Debug("token subject unknown", lg.Subject(claims.Subject))
		return model.User{}, customErrors.ErrInvalidToken
	case err != nil:
		a.metrics.Resolve("store_unavailable")
		a.log.Error("resolve: store failure", zap.Error(err))
		return model.User{}, err
	}

	if a.cfg.SingleSession {
		if latest, ok := a.sessions.LookupLatestToken(ctx, user.ID); ok && latest != token {
			a.metrics.Resolve("superseded")
			a.log.Debug("token superseded by a newer login", zap.Int64("user_id", user.ID))
			return model.User{}, customErrors.ErrInvalidToken
		}
	}

	if !user.IsActive {
		a.metrics.Resolve("account_disabled")
		return model.User{}, customErrors.ErrAccountDisabled
	}

	a.metrics.Resolve("ok")
	return user, nil
}

func (a *authService) GetUser(ctx context.Context, id int64) (model.User, error) {
	return a.userRepo.GetUserByID(ctx, id)
}

func (a *authService) Deactivate(ctx context.Context, id int64) error {
	if err := a.userRepo.SetActive(ctx, id, false); err != nil {
		return err
	}
	a.log.Info("user deactivated", zap.Int64("user_id", id))
	return nil
}
