package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fastskeleton/backend/internal/domain/auth/errors"
	"github.com/fastskeleton/backend/internal/domain/auth/model"
	"github.com/fastskeleton/backend/internal/infra/database"
)

func setupDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), database.Config())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newUser(name string) model.User {
	return model.User{
		Email:        name + "@example.com",
		Username:     name,
		PasswordHash: "$argon2id$v=19$m=65536,t=2,p=4$c2FsdA$aGFzaA",
		IsActive:     true,
	}
}

func TestPostgresUserRepo_CRUD(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, newUser("admin"))
	if err != nil {
		t.Fatalf("create %v", err)
	}
	if created.ID == 0 {
		t.Fatal("id must be assigned")
	}

	got, err := repo.GetUserByEmail(ctx, "admin@example.com")
	if err != nil || got.ID != created.ID {
		t.Fatalf("get by email %v", err)
	}
	got2, err := repo.GetUserByUsername(ctx, "admin")
	if err != nil || got2.Email != created.Email {
		t.Fatalf("get by username %v", err)
	}
	got3, err := repo.GetUserByID(ctx, created.ID)
	if err != nil || got3.Username != "admin" || !got3.IsActive {
		t.Fatalf("get by id %v", err)
	}

	if err := repo.SetActive(ctx, created.ID, false); err != nil {
		t.Fatalf("deactivate %v", err)
	}
	got4, _ := repo.GetUserByID(ctx, created.ID)
	if got4.IsActive {
		t.Fatal("user must be inactive")
	}
}

func TestPostgresUserRepo_NotFound(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	if _, err := repo.GetUserByUsername(ctx, "ghost"); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.GetUserByEmail(ctx, "ghost@example.com"); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := repo.GetUserByID(ctx, 404); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.SetActive(ctx, 404, false); !errors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPostgresUserRepo_CreateInactive(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	u := newUser("sleeper")
	u.IsActive = false
	created, err := repo.CreateUser(ctx, u)
	require.NoError(t, err)

	got, err := repo.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive, "false must be stored, not replaced by a column default")
}

func TestPostgresUserRepo_Conflict(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	_, err := repo.CreateUser(ctx, newUser("alice"))
	require.NoError(t, err)

	sameEmail := newUser("alice2")
	sameEmail.Email = "alice@example.com"
	_, err = repo.CreateUser(ctx, sameEmail)
	require.True(t, errors.IsConflict(err), "got %v", err)

	sameName := newUser("alice")
	sameName.Email = "other@example.com"
	_, err = repo.CreateUser(ctx, sameName)
	require.True(t, errors.IsConflict(err), "got %v", err)
}

func TestPostgresUserRepo_ConcurrentDuplicateRegistration(t *testing.T) {
	repo := NewPostgresUserRepo(setupDB(t))
	ctx := context.Background()

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := newUser(fmt.Sprintf("racer%d", i))
			u.Email = "race@example.com"
			_, err := repo.CreateUser(ctx, u)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 1, ok)
	require.Equal(t, n-1, conflicts)
}

func TestPostgresUserRepo_StoreUnavailable(t *testing.T) {
	db := setupDB(t)
	repo := NewPostgresUserRepo(db)
	sqlDB, _ := db.DB()
	require.NoError(t, sqlDB.Close())

	_, err := repo.GetUserByUsername(context.Background(), "admin")
	require.True(t, errors.IsStoreUnavailable(err), "got %v", err)

	_, err = repo.CreateUser(context.Background(), newUser("late"))
	require.True(t, errors.IsStoreUnavailable(err), "got %v", err)
}

func TestIsUniqueViolation(t *testing.T) {
	require.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	require.False(t, isUniqueViolation(gorm.ErrRecordNotFound))
}
