package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fastskeleton/backend/internal/adapters/transport/http/dto"
	appsvc "github.com/fastskeleton/backend/internal/app/auth/service"
	customErrors "github.com/fastskeleton/backend/internal/domain/auth/errors"
)

const defaultUserTimeout = 30 * time.Second

type userCreateOptions struct {
	email     string
	username  string
	password  string
	superuser bool
	inactive  bool
}

func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}
	cmd.AddCommand(newUserCreateCmd())
	cmd.AddCommand(newUserDeactivateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	opts := &userCreateOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user (defaults seed the admin account)",
		Long: `Creates a user account. Without flags it seeds admin / admin@example.com
as a superuser. Running it again for an existing email is not an error.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withService(cmd, func(ctx context.Context, svc appsvc.Service) error {
				return runUserCreate(ctx, svc, opts, cmd.OutOrStdout())
			})
		},
	}

	cmd.Flags().StringVar(&opts.email, "email", "admin@example.com", "email address")
	cmd.Flags().StringVar(&opts.username, "username", "admin", "login name")
	cmd.Flags().StringVar(&opts.password, "password", "admin888", "plaintext password")
	cmd.Flags().BoolVar(&opts.superuser, "superuser", true, "grant superuser")
	cmd.Flags().BoolVar(&opts.inactive, "inactive", false, "create the account disabled")

	return cmd
}

func newUserDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Disable a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid user id %q", args[0])
			}
			return withService(cmd, func(ctx context.Context, svc appsvc.Service) error {
				return runUserDeactivate(ctx, svc, id, cmd.OutOrStdout())
			})
		},
	}
}

// withService wires the credential store only; user management never touches the session cache.
func withService(cmd *cobra.Command, fn func(context.Context, appsvc.Service) error) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, sqlDB, err := openDatabase(cfg, logger)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	svc, err := newService(serviceDeps{cfg: cfg, logger: logger, db: db})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), defaultUserTimeout)
	defer cancel()
	return fn(ctx, svc)
}

func runUserCreate(ctx context.Context, svc appsvc.Service, opts *userCreateOptions, out io.Writer) error {
	active := !opts.inactive
	user, err := svc.Register(ctx, dto.RegisterDTO{
		Email:       opts.email,
		Username:    opts.username,
		Password:    opts.password,
		IsActive:    &active,
		IsSuperuser: opts.superuser,
	})
	if customErrors.IsConflict(err) {
		_, _ = fmt.Fprintf(out, "user %s already exists, nothing to do\n", opts.email)
		return nil
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "created user %d (%s)\n", user.ID, user.Username)
	return nil
}

func runUserDeactivate(ctx context.Context, svc appsvc.Service, id int64, out io.Writer) error {
	if err := svc.Deactivate(ctx, id); err != nil {
		if customErrors.IsNotFound(err) {
			return fmt.Errorf("user %d not found", id)
		}
		return err
	}
	_, _ = fmt.Fprintf(out, "deactivated user %d\n", id)
	return nil
}
