// Command admin manages moderator accounts and sessions.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"spincat/internal/config"
	"spincat/internal/database"
	"spincat/internal/models"
	"spincat/internal/repository"
	"spincat/internal/validation"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// passwordEnv supplies the password when neither flag is given.
const passwordEnv = "SPINCAT_ADMIN_PASSWORD"

type app struct {
	open       func(ctx context.Context) (*gorm.DB, error)
	now        func() time.Time
	bcryptCost int
}

func main() {
	a := &app{
		open: func(ctx context.Context) (*gorm.DB, error) {
			cfg, err := config.LoadConfig()
			if err != nil {
				return nil, fmt.Errorf("load config: %w", err)
			}
			return database.Connect(ctx, cfg)
		},
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Manage spincat moderator accounts",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(a.createCmd(), a.listCmd(), a.setPasswordCmd(), a.purgeSessionsCmd())
	return root
}

func addPasswordFlags(cmd *cobra.Command) {
	cmd.Flags().String("password", "", "password (prefer --password-stdin or "+passwordEnv+")")
	cmd.Flags().Bool("password-stdin", false, "read the password from stdin")
}

// readPassword resolves the password from --password, --password-stdin or the environment, in that order.
func readPassword(cmd *cobra.Command) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	if password != "" {
		return password, nil
	}
	if fromStdin, _ := cmd.Flags().GetBool("password-stdin"); fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	if env := os.Getenv(passwordEnv); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("no password given: use --password, --password-stdin or %s", passwordEnv)
}

func (a *app) hash(password string) (string, error) {
	if err := validation.ValidatePassword(password); err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (a *app) createCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a moderator account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := strings.TrimSpace(args[0])
			if err := validation.ValidateUsername(username); err != nil {
				return err
			}
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			hash, err := a.hash(password)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := a.open(ctx)
			if err != nil {
				return err
			}
			admin := &models.Admin{Username: username, PasswordHash: hash, CreatedAt: a.now().UTC()}
			if err := repository.NewAdminRepository(db).Create(ctx, admin); err != nil {
				if errors.Is(err, repository.ErrDuplicateAdmin) {
					return fmt.Errorf("admin %q already exists", username)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Created admin %s (ID: %d)\n", admin.Username, admin.ID)
			return nil
		},
	}
	addPasswordFlags(cmd)
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List moderator accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := a.open(ctx)
			if err != nil {
				return err
			}
			admins, err := repository.NewAdminRepository(db).List(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(admins) == 0 {
				fmt.Fprintln(out, "No admins found")
				return nil
			}
			for _, admin := range admins {
				fmt.Fprintf(out, "ID: %d | Username: %s | Created: %s\n",
					admin.ID, admin.Username, admin.CreatedAt.UTC().Format(time.RFC3339))
			}
			return nil
		},
	}
}

func (a *app) setPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-password <username>",
		Short: "Replace a moderator's password. Existing sessions stay valid until they expire.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			hash, err := a.hash(password)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := a.open(ctx)
			if err != nil {
				return err
			}
			admins := repository.NewAdminRepository(db)
			admin, err := admins.GetByUsername(ctx, strings.TrimSpace(args[0]))
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("admin %q not found", args[0])
			}
			if err != nil {
				return err
			}
			if err := admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Password updated for %s\n", admin.Username)
			return nil
		},
	}
	addPasswordFlags(cmd)
	return cmd
}

func (a *app) purgeSessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge-sessions",
		Short: "Delete expired admin sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			db, err := a.open(ctx)
			if err != nil {
				return err
			}
			n, err := repository.NewSessionRepository(db).PurgeExpired(ctx, a.now().UTC())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired sessions\n", n)
			return nil
		},
	}
}
