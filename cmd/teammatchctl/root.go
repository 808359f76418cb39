package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/teammatch/backend/internal/app"
	"github.com/teammatch/backend/internal/config"
)

// env holds what PersistentPreRunE prepared for the subcommands
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	backend *app.Backend
}

type envKey struct{}

var rootCmd = &cobra.Command{
	Use:   "teammatchctl",
	Short: "Operate the TeamMatch backend",
	Long: `teammatchctl runs maintenance tasks against the TeamMatch store:
applying the schema, seeding demo events, regenerating matches and minting
development tokens.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := cfg.NewLogger()
		if err != nil {
			return err
		}

		e := &env{cfg: cfg, logger: logger}
		if needsStore(cmd) {
			backend, err := app.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			e.backend = backend
		}

		cmd.SetContext(context.WithValue(cmd.Context(), envKey{}, e))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if e := envFrom(cmd); e != nil {
			if e.backend != nil {
				e.backend.Close()
			}
			_ = e.logger.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("database-url", "", "PostgreSQL connection string (env DATABASE_URL)")
	flags.String("redis-url", "", "Redis URL (env REDIS_URL)")
	flags.String("store", "", "store driver: postgres or memory (env STORE_DRIVER)")
	flags.String("log-level", "", "log level (env LOG_LEVEL)")

	for key, flag := range map[string]string{
		"database_url": "database-url",
		"redis_url":    "redis-url",
		"store_driver": "store",
		"log_level":    "log-level",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// loadConfig reads the environment the way the API does, then lets flags
// override it.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := viper.GetString("database_url"); v != "" {
		cfg.Database.URL = v
	}
	if v := viper.GetString("redis_url"); v != "" {
		cfg.Redis.URL = v
	}
	if v := viper.GetString("store_driver"); v != "" {
		cfg.Store.Driver = strings.ToLower(v)
	}
	if v := viper.GetString("log_level"); v != "" {
		cfg.Log.Level = v
	}
	// The CLI migrates explicitly.
	cfg.Database.AutoMigrate = false
	return cfg, nil
}

func needsStore(cmd *cobra.Command) bool {
	return cmd.Annotations["store"] == "true"
}

func envFrom(cmd *cobra.Command) *env {
	e, _ := cmd.Context().Value(envKey{}).(*env)
	return e
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
