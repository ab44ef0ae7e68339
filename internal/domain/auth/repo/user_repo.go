package repo

import (
	"context"

	"github.com/fastskeleton/backend/internal/domain/auth/model"
)

// UserRepo is the credential store. Lookups return errors.ErrNotFound when no
// row matches and errors.ErrStoreUnavailable on infrastructure failures.
type UserRepo interface {
	CreateUser(ctx context.Context, u model.User) (model.User, error)

	GetUserByID(ctx context.Context, id int64) (model.User, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	GetUserByUsername(ctx context.Context, username string) (model.User, error)

	SetActive(ctx context.Context, id int64, active bool) error
}
