// Package main provides the vibe-dna command-line tool.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/vibe-dna/internal/ensembl"
	"github.com/inodb/vibe-dna/internal/resolver"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := newRootCmd().Execute(); err != nil {
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "vibe-dna",
		Short: "Gene sequence lookups and a genomics quiz",
		Long: `vibe-dna resolves gene symbols to nucleotide sequences through the Ensembl
REST API, with a bundled fallback table, and serves a small genomics quiz.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.vibe-dna.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newRandomCmd())
	cmd.AddCommand(newGeneCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ensembl.base_url", ensembl.DefaultBaseURL)
	v.SetDefault("ensembl.timeout", ensembl.DefaultTimeout)
	v.SetDefault("resolver.organisms", resolver.DefaultOrganisms)
	v.SetDefault("resolver.max_retries", resolver.DefaultMaxRetries)
	v.SetDefault("resolver.preview_length", 0)
	v.SetDefault("resolver.attempt_timeout", resolver.DefaultAttemptTimeout)
	v.SetDefault("fallback.path", "")
	v.SetDefault("pool.path", "")
	v.SetDefault("db.path", defaultDBPath())
	v.SetDefault("server.addr", "127.0.0.1:8206")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("quiz.preview_length", 30)
	v.SetDefault("log.level", "info")
}

// initConfig reads ~/.vibe-dna.yaml (or the given file) and VIBE_DNA_* env vars.
func initConfig(cfgFile string) error {
	setDefaults(viper.GetViper())

	viper.SetEnvPrefix("VIBE_DNA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".vibe-dna")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "vibe-dna.duckdb"
	}
	return filepath.Join(home, ".vibe-dna", "quiz.duckdb")
}

// newLogger builds a zap logger writing to stderr at the configured level.
func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
