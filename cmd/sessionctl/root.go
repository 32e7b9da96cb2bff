package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	sessionredis "github.com/weekian/telegraf-session-redis"
	"github.com/weekian/telegraf-session-redis/internal/config"
	"github.com/weekian/telegraf-session-redis/internal/logging"
	"github.com/weekian/telegraf-session-redis/pkg/adapters/memory"
	"github.com/weekian/telegraf-session-redis/pkg/persistence/middleware"
)

// app carries the state resolved by the root command for its subcommands.
type app struct {
	cfg    config.File
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: logging.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "sessionctl",
		Short:         "sessionctl manages bot sessions stored in Redis",
		Long:          `Inspect, remove and exercise the user and chat sessions persisted by telegraf-session-redis.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "sessionctl.yaml", "Config file (YAML, or JSON by extension)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newInspectCmd(a),
		newRmCmd(a),
		newServeCmd(a),
		newRunCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) load(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg, err = config.ApplyEnv(cfg, nil)
	if err != nil {
		return err
	}

	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.NewJSON(cmd.ErrOrStderr(), level)
	return nil
}

// open builds a RedisSession from the resolved configuration. With inMemory
// the sessions live only for the lifetime of the process.
func (a *app) open(inMemory bool, extra ...sessionredis.Option) (*sessionredis.RedisSession, error) {
	opts := []sessionredis.Option{sessionredis.WithLogger(a.logger)}

	if key := a.cfg.EncryptionKey; key != "" {
		if len(key) != 32 {
			return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
		}
		opts = append(opts, sessionredis.WithBackendMiddleware(
			middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte(key)}),
		))
	}
	opts = append(opts, extra...)

	if inMemory {
		return sessionredis.NewWithBackend(memory.NewBackend(), a.cfg.Config, opts...), nil
	}
	rs, err := sessionredis.New(a.cfg.Config, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	return rs, nil
}
