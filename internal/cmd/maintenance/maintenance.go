// Package maintenance implements the operator CLI: schema migration, session
// housekeeping, key generation and health probes.
package maintenance

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/louisbranch/subtrack/internal/app"
	entrypoint "github.com/louisbranch/subtrack/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/subtrack/internal/platform/grpc"
	"github.com/louisbranch/subtrack/internal/platform/logging"
	"github.com/louisbranch/subtrack/internal/services/auth/session"
	"github.com/louisbranch/subtrack/internal/services/healthcheck"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Config holds maintenance defaults loaded from the environment.
type Config struct {
	DBPath     string        `env:"SUBTRACK_DB_PATH" envDefault:"data/subtrack.db"`
	HealthAddr string        `env:"SUBTRACK_MAINTENANCE_HEALTH_ADDR" envDefault:"localhost:8081"`
	Timeout    time.Duration `env:"SUBTRACK_MAINTENANCE_TIMEOUT" envDefault:"30s"`
	Logging    logging.Config
}

// ParseConfig loads Config from the environment. Flags are parsed by the
// command tree.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the command named by args.
func Run(ctx context.Context, cfg Config, args []string, stdout io.Writer, stderr io.Writer) error {
	logger, err := entrypoint.NewLogger(entrypoint.ServiceMaintenance, cfg.Logging)
	if err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceMaintenance, logger, func(ctx context.Context) error {
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		root := NewRootCommand(cfg, logger)
		root.SetArgs(args)
		root.SetOut(stdout)
		root.SetErr(stderr)
		return root.ExecuteContext(ctx)
	})
}

type commands struct {
	dbPath string
	logger *zap.Logger
	now    func() time.Time
}

// NewRootCommand builds the maintenance command tree.
func NewRootCommand(cfg Config, logger *zap.Logger) *cobra.Command {
	c := &commands{logger: logging.OrNop(logger), now: time.Now}

	root := &cobra.Command{
		Use:           "maintenance",
		Short:         "subtrack maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.dbPath, "db-path", cfg.DBPath, "The SQLite database path")

	root.AddCommand(
		c.newMigrate(),
		c.newSessions(),
		newSessionKey(),
		newHealthcheck(cfg.HealthAddr, c.logger),
	)
	return root
}

func (c *commands) open(ctx context.Context) (*app.App, error) {
	return app.Open(ctx, app.Options{DBPath: c.dbPath, Logger: c.logger, Now: c.now})
}

func (c *commands) newMigrate() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			cmd.Printf("database migrated: %s\n", c.dbPath)
			return nil
		},
	}
}

func (c *commands) newSessions() *cobra.Command {
	sessions := &cobra.Command{
		Use:   "sessions",
		Short: "Session housekeeping",
	}
	sessions.AddCommand(c.newSessionsPurge(), c.newSessionsRevokeUser())
	return sessions
}

func (c *commands) newSessionsPurge() *cobra.Command {
	var grace time.Duration
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete expired and revoked sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if grace < 0 {
				return errors.New("--grace must not be negative")
			}
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			deleted, err := a.Auth.PurgeExpiredSessions(cmd.Context(), c.now().Add(-grace))
			if err != nil {
				return fmt.Errorf("purge sessions: %w", err)
			}
			cmd.Printf("purged %d session(s)\n", deleted)
			return nil
		},
	}
	cmd.Flags().DurationVar(&grace, "grace", 0, "keep sessions that ended within this window")
	return cmd
}

func (c *commands) newSessionsRevokeUser() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-user <email>",
		Short: "Sign a user out of every browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			u, err := a.Auth.UserByEmail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("find user %q: %w", args[0], err)
			}
			revoked, err := a.Auth.RevokeUserSessions(cmd.Context(), u.ID)
			if err != nil {
				return fmt.Errorf("revoke sessions: %w", err)
			}
			cmd.Printf("revoked %d session(s) for %s\n", revoked, u.Email)
			return nil
		},
	}
}

func newSessionKey() *cobra.Command {
	var size int
	cmd := &cobra.Command{
		Use:   "session-key",
		Short: "Print a new random SUBTRACK_SESSION_KEY value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := generateKey(size)
			if err != nil {
				return err
			}
			cmd.Println(key)
			return nil
		},
	}
	cmd.Flags().IntVar(&size, "bytes", session.MinKeyBytes, "key length in bytes")
	return cmd
}

func generateKey(size int) (string, error) {
	if size < session.MinKeyBytes {
		return "", fmt.Errorf("key must be at least %d bytes", session.MinKeyBytes)
	}
	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

func newHealthcheck(defaultAddr string, logger *zap.Logger) *cobra.Command {
	var (
		addr    string
		service string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Wait until the server reports SERVING",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr = strings.TrimSpace(addr)
			if addr == "" {
				return errors.New("--addr is required")
			}
			conn, err := platformgrpc.DialWithHealth(cmd.Context(), addr, service, timeout, logger)
			if err != nil {
				return err
			}
			defer conn.Close()
			cmd.Printf("%s at %s is SERVING\n", service, addr)
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "gRPC health address")
	cmd.Flags().StringVar(&service, "service", healthcheck.Service, "health service name")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long to wait for SERVING")
	return cmd
}
