package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GeneResource is a cached gene annotation for the resource browser.
type GeneResource struct {
	Symbol      string
	Organism    string
	GeneID      string
	Description string
	Chromosome  string
	GeneType    string
	CreatedAt   time.Time
}

// SaveGeneResource inserts or replaces the annotation of a gene in an organism.
func (s *Store) SaveGeneResource(ctx context.Context, r *GeneResource) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO gene_resources
		(symbol, organism, gene_id, description, chromosome, gene_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Symbol, r.Organism, r.GeneID, r.Description, r.Chromosome, r.GeneType, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert gene resource: %w", err)
	}
	return nil
}

// GetGeneResource returns the cached annotation or ErrNotFound.
func (s *Store) GetGeneResource(ctx context.Context, symbol, organism string) (*GeneResource, error) {
	row := s.db.QueryRowContext(ctx, `SELECT symbol, organism, gene_id, description, chromosome, gene_type, created_at
		FROM gene_resources WHERE symbol = ? AND organism = ?`, symbol, organism)
	r, err := scanGeneResource(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("gene resource %s/%s: %w", organism, symbol, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query gene resource: %w", err)
	}
	return r, nil
}

// ListGeneResources returns all cached annotations ordered by symbol and organism.
func (s *Store) ListGeneResources(ctx context.Context) ([]GeneResource, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT symbol, organism, gene_id, description, chromosome, gene_type, created_at
		FROM gene_resources ORDER BY symbol, organism`)
	if err != nil {
		return nil, fmt.Errorf("query gene resources: %w", err)
	}
	defer rows.Close()

	var out []GeneResource
	for rows.Next() {
		r, err := scanGeneResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gene resource: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGeneResource(row scanner) (*GeneResource, error) {
	var r GeneResource
	var desc, chrom, geneType sql.NullString
	if err := row.Scan(&r.Symbol, &r.Organism, &r.GeneID, &desc, &chrom, &geneType, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Description = desc.String
	r.Chromosome = chrom.String
	r.GeneType = geneType.String
	return &r, nil
}
