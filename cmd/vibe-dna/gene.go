package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-dna/internal/duckdb"
	"github.com/inodb/vibe-dna/internal/genes"
)

func newGeneCmd() *cobra.Command {
	var (
		organism string
		dbPath   string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "gene <symbol>",
		Short: "Explain where a gene lives and what it does",
		Example: `  vibe-dna gene CFTR
  vibe-dna gene --organism mus_musculus --json Trp53`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("db") {
				viper.Set("db.path", dbPath)
			}
			logger, err := newLogger(viper.GetString("log.level"))
			if err != nil {
				return err
			}
			defer logger.Sync()

			path := viper.GetString("db.path")
			store, err := duckdb.Open(path)
			if err != nil {
				return fmt.Errorf("opening database %s: %w", path, err)
			}
			defer store.Close()

			catalog := genes.NewCatalog(newEnsemblClient(), store)
			catalog.SetLogger(logger.Named("genes"))

			r, err := catalog.Get(cmd.Context(), args[0], organism)
			if errors.Is(err, genes.ErrNotFound) {
				return fmt.Errorf("no gene information for %s", args[0])
			}
			if err != nil {
				return err
			}
			return printResource(cmd.OutOrStdout(), r, asJSON)
		},
	}

	cmd.Flags().StringVar(&organism, "organism", "", "Organism to query (default homo_sapiens)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB database path used as lookup cache (default from db.path)")

	return cmd
}

func printResource(w io.Writer, r *genes.Resource, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	fmt.Fprintln(w, r.FriendlyName)
	fmt.Fprintf(w, "  Organism:    %s\n", r.Organism)
	fmt.Fprintf(w, "  Chromosome:  %s. %s\n", r.Chromosome, r.ChromosomeInfo)
	fmt.Fprintf(w, "  Gene type:   %s. %s\n", r.GeneType, r.GeneTypeInfo)
	fmt.Fprintf(w, "  Ensembl:     %s\n", r.GeneID)
	fmt.Fprintf(w, "  Learn more:  %s\n", r.LearnMoreLink)
	return nil
}
