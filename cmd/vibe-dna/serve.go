package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-dna/internal/duckdb"
	"github.com/inodb/vibe-dna/internal/genes"
	"github.com/inodb/vibe-dna/internal/metrics"
	"github.com/inodb/vibe-dna/internal/quiz"
	"github.com/inodb/vibe-dna/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sequence and quiz HTTP API",
		Example: `  vibe-dna serve
  vibe-dna serve --addr 0.0.0.0:8080 --cors-origin http://127.0.0.1:4504`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default from server.addr)")
	cmd.Flags().StringSlice("cors-origin", nil, "Allowed CORS origin, repeatable or comma-separated; \"*\" disables credentials (default from server.cors_origins)")
	cmd.Flags().String("db", "", "DuckDB database path (default from db.path)")
	viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.cors_origins", cmd.Flags().Lookup("cors-origin"))
	viper.BindPFlag("db.path", cmd.Flags().Lookup("db"))

	return cmd
}

func runServe(ctx context.Context) error {
	logger, err := newLogger(viper.GetString("log.level"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	rec := metrics.New()

	lookup, err := newResolver(logger, "resolver.preview_length")
	if err != nil {
		return err
	}
	lookup.SetObserver(rec)

	quizResolver, err := newResolver(logger, "quiz.preview_length")
	if err != nil {
		return err
	}
	quizResolver.SetObserver(rec)

	pool, err := loadPool(logger)
	if err != nil {
		return err
	}

	dbPath := viper.GetString("db.path")
	store, err := duckdb.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", dbPath, err)
	}
	defer store.Close()

	catalog := genes.NewCatalog(newEnsemblClient(), store)
	catalog.SetLogger(logger.Named("genes"))

	game := quiz.NewGame(store, quizResolver, pool)
	game.SetLogger(logger.Named("quiz"))
	game.SetObserver(rec)
	game.SetGeneInfo(catalog)
	if _, err := game.SeedTrivia(ctx); err != nil {
		return fmt.Errorf("seeding trivia: %w", err)
	}

	srv := server.New(server.Config{
		Addr:            viper.GetString("server.addr"),
		CORSOrigins:     configList("server.cors_origins"),
		ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		GeneSymbols:     pool.Symbols(),
	}, lookup, pool, game, catalog, rec, logger.Named("http"))

	logger.Info("starting server",
		zap.String("addr", viper.GetString("server.addr")),
		zap.String("db", dbPath),
		zap.Strings("organisms", lookup.Organisms()))

	return srv.Run(ctx)
}
