package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fastskeleton/backend/internal/adapters/db/postgres"
	"github.com/fastskeleton/backend/internal/app/auth/jwt"
	"github.com/fastskeleton/backend/internal/app/auth/password"
	appsvc "github.com/fastskeleton/backend/internal/app/auth/service"
	"github.com/fastskeleton/backend/internal/infra/config"
	"github.com/fastskeleton/backend/internal/infra/database"
)

func sqliteService(t *testing.T) appsvc.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), database.Config())
	require.NoError(t, err)
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db))

	codec, err := jwt.NewJWTUtil("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	return appsvc.New(appsvc.Deps{
		Users: postgres.NewPostgresUserRepo(db),
		Codec: codec,
		Hasher: password.NewHasher("", &argon2id.Params{
			Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
		}),
		Config: &config.Config{AccessTokenTTL: time.Minute},
	})
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()
	for _, path := range [][]string{{"serve"}, {"user", "create"}, {"user", "deactivate"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, "%v", path)
		require.Equal(t, path[len(path)-1], cmd.Name())
	}
	require.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestUserCreate_DefaultsSeedAdmin(t *testing.T) {
	cmd, _, err := NewRootCmd().Find([]string{"user", "create"})
	require.NoError(t, err)
	require.Equal(t, "admin", cmd.Flag("username").DefValue)
	require.Equal(t, "admin@example.com", cmd.Flag("email").DefValue)
	require.Equal(t, "admin888", cmd.Flag("password").DefValue)
	require.Equal(t, "true", cmd.Flag("superuser").DefValue)
}

func TestRunUserCreate_Idempotent(t *testing.T) {
	svc := sqliteService(t)
	ctx := context.Background()
	opts := &userCreateOptions{
		email: "admin@example.com", username: "admin", password: "admin888", superuser: true,
	}

	var out bytes.Buffer
	require.NoError(t, runUserCreate(ctx, svc, opts, &out))
	require.Contains(t, out.String(), "created user 1 (admin)")

	out.Reset()
	require.NoError(t, runUserCreate(ctx, svc, opts, &out))
	require.Contains(t, out.String(), "already exists")

	u, err := svc.GetUser(ctx, 1)
	require.NoError(t, err)
	require.True(t, u.IsSuperuser)
	require.True(t, u.IsActive)
}

func TestRunUserCreate_InvalidInput(t *testing.T) {
	svc := sqliteService(t)
	opts := &userCreateOptions{email: "nope", username: "admin", password: "admin888"}
	require.Error(t, runUserCreate(context.Background(), svc, opts, &bytes.Buffer{}))
}

func TestRunUserDeactivate(t *testing.T) {
	svc := sqliteService(t)
	ctx := context.Background()
	require.NoError(t, runUserCreate(ctx, svc, &userCreateOptions{
		email: "bob@example.com", username: "bob", password: "secret1",
	}, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, runUserDeactivate(ctx, svc, 1, &out))
	require.Contains(t, out.String(), "deactivated user 1")

	u, err := svc.GetUser(ctx, 1)
	require.NoError(t, err)
	require.False(t, u.IsActive)

	err = runUserDeactivate(ctx, svc, 99, &bytes.Buffer{})
	require.ErrorContains(t, err, "not found")
}

func TestUserDeactivate_RejectsBadID(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"user", "deactivate", "abc"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	require.ErrorContains(t, root.Execute(), "invalid user id")
}

func TestRunServe_MissingConfig(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("SECRET_KEY", "")
	configFile = ""

	err := runServe(context.Background())
	require.ErrorContains(t, err, "DATABASE_URL")
}
