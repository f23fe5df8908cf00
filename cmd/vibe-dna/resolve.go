package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vibe-dna/internal/resolver"
)

func newResolveCmd() *cobra.Command {
	var (
		organism string
		length   int
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <gene>",
		Short: "Resolve a gene symbol to its nucleotide sequence",
		Example: `  vibe-dna resolve BRCA1
  vibe-dna resolve --organism mus_musculus --length 30 Trp53
  vibe-dna resolve --json TP53`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("length") {
				viper.Set("resolver.preview_length", length)
			}
			logger, err := newLogger(viper.GetString("log.level"))
			if err != nil {
				return err
			}
			defer logger.Sync()

			r, err := newResolver(logger, "resolver.preview_length")
			if err != nil {
				return err
			}

			rec, err := r.Resolve(cmd.Context(), args[0], organism)
			if err != nil {
				return describeFailure(err)
			}
			return printRecord(cmd.OutOrStdout(), rec, asJSON)
		},
	}

	cmd.Flags().StringVar(&organism, "organism", "", "Organism to query (default: try the configured candidates in order)")
	cmd.Flags().IntVar(&length, "length", 0, "Only print the first N bases (0 prints the full sequence)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

func newRandomCmd() *cobra.Command {
	var (
		length  int
		retries int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Resolve the sequence of a random gene from the gene pool",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("length") {
				viper.Set("resolver.preview_length", length)
			}
			if cmd.Flags().Changed("retries") {
				viper.Set("resolver.max_retries", retries)
			}
			logger, err := newLogger(viper.GetString("log.level"))
			if err != nil {
				return err
			}
			defer logger.Sync()

			pool, err := loadPool(logger)
			if err != nil {
				return err
			}
			r, err := newResolver(logger, "resolver.preview_length")
			if err != nil {
				return err
			}

			rec, err := r.ResolveFromPool(cmd.Context(), pool)
			if err != nil {
				return describeFailure(err)
			}
			return printRecord(cmd.OutOrStdout(), rec, asJSON)
		},
	}

	cmd.Flags().IntVar(&length, "length", 0, "Only print the first N bases (0 prints the full sequence)")
	cmd.Flags().IntVar(&retries, "retries", resolver.DefaultMaxRetries, "Maximum number of genes to draw")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

// describeFailure turns resolver errors into user-facing messages.
func describeFailure(err error) error {
	switch {
	case errors.Is(err, resolver.ErrValidation):
		return fmt.Errorf("invalid input: %w", err)
	case errors.Is(err, resolver.ErrResolution):
		return fmt.Errorf("no sequence available: %w", err)
	default:
		return err
	}
}

func printRecord(w io.Writer, rec *resolver.SequenceRecord, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}

	fmt.Fprintf(w, ">%s %s", rec.Gene, rec.Organism)
	if rec.Identifier != "" {
		fmt.Fprintf(w, " %s", rec.Identifier)
	}
	if rec.Source == resolver.SourceFallback {
		fmt.Fprint(w, " (fallback)")
	}
	fmt.Fprintln(w)

	// Wrap at 60 columns like FASTA
	seq := rec.Sequence
	for len(seq) > 60 {
		fmt.Fprintln(w, seq[:60])
		seq = seq[60:]
	}
	if seq != "" {
		fmt.Fprintln(w, seq)
	}
	return nil
}
