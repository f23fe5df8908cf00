package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-dna/internal/ensembl"
	"github.com/inodb/vibe-dna/internal/fallback"
	"github.com/inodb/vibe-dna/internal/genepool"
	"github.com/inodb/vibe-dna/internal/resolver"
)

// configList reads a list setting. Env vars and flags arrive as one string,
// so every item is split again on commas and whitespace.
func configList(key string) []string {
	var out []string
	for _, item := range viper.GetStringSlice(key) {
		out = append(out, strings.FieldsFunc(item, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})...)
	}
	return out
}

// loadFallback returns the configured fallback table, or the bundled one.
func loadFallback(logger *zap.Logger) (*fallback.Table, error) {
	path := viper.GetString("fallback.path")
	if path == "" {
		return fallback.LoadBundled()
	}
	tbl, err := fallback.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded fallback table", zap.String("path", path), zap.Int("genes", tbl.Len()))
	return tbl, nil
}

// loadPool returns the configured gene pool, or the built-in list.
func loadPool(logger *zap.Logger) (*genepool.Pool, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	path := viper.GetString("pool.path")
	if path == "" {
		return genepool.Default(rng), nil
	}
	p, err := genepool.Load(path, rng)
	if err != nil {
		return nil, err
	}
	logger.Info("loaded gene pool", zap.String("path", path), zap.Int("genes", p.Len()))
	return p, nil
}

// newEnsemblClient builds the REST client from the ensembl.* settings.
func newEnsemblClient() *ensembl.Client {
	return ensembl.NewClient(
		ensembl.WithBaseURL(viper.GetString("ensembl.base_url")),
		ensembl.WithTimeout(viper.GetDuration("ensembl.timeout")),
	)
}

// newResolver wires the Ensembl client and fallback table into a resolver.
// previewKey names the config key holding the preview length.
func newResolver(logger *zap.Logger, previewKey string) (*resolver.Resolver, error) {
	tbl, err := loadFallback(logger)
	if err != nil {
		return nil, fmt.Errorf("loading fallback table: %w", err)
	}

	r := resolver.New(newEnsemblClient(), tbl)
	r.SetOrganisms(configList("resolver.organisms"))
	r.SetMaxRetries(viper.GetInt("resolver.max_retries"))
	r.SetAttemptTimeout(viper.GetDuration("resolver.attempt_timeout"))
	r.SetPreviewLength(viper.GetInt(previewKey))
	r.SetLogger(logger.Named("resolver"))
	return r, nil
}
