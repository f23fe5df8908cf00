// Package genes keeps a browsable catalog of gene annotations fetched from
// Ensembl and cached in DuckDB.
package genes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/vibe-dna/internal/duckdb"
	"github.com/inodb/vibe-dna/internal/ensembl"
	"github.com/inodb/vibe-dna/internal/resolver"
)

// DefaultOrganism is used when a lookup names none.
const DefaultOrganism = "homo_sapiens"

// ErrNotFound is returned when neither the cache nor Ensembl know a gene.
var ErrNotFound = errors.New("gene not found")

// Source looks up gene annotations.
type Source interface {
	LookupGene(ctx context.Context, organism, symbol string) (*ensembl.Gene, error)
}

// Store caches gene annotations.
type Store interface {
	SaveGeneResource(ctx context.Context, r *duckdb.GeneResource) error
	GetGeneResource(ctx context.Context, symbol, organism string) (*duckdb.GeneResource, error)
	ListGeneResources(ctx context.Context) ([]duckdb.GeneResource, error)
}

// Resource is a gene as shown in the resource browser.
type Resource struct {
	Symbol         string `json:"symbol"`
	FriendlyName   string `json:"friendly_name"`
	Description    string `json:"description"`
	Organism       string `json:"organism"`
	Chromosome     string `json:"chromosome"`
	ChromosomeInfo string `json:"chromosome_info"`
	GeneType       string `json:"gene_type"`
	GeneTypeInfo   string `json:"gene_type_info"`
	GeneID         string `json:"gene_id"`
	LearnMoreLink  string `json:"learn_more_link"`
}

// Catalog serves gene resources, fetching unknown genes on demand.
type Catalog struct {
	source Source
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewCatalog creates a catalog.
func NewCatalog(source Source, store Store) *Catalog {
	return &Catalog{
		source: source,
		store:  store,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SetLogger sets the logger. nil restores the no-op logger.
func (c *Catalog) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	c.logger = l
}

// Get returns the resource for a gene, consulting the cache before Ensembl.
func (c *Catalog) Get(ctx context.Context, symbol, organism string) (*Resource, error) {
	q, err := resolver.NewQuery(symbol, organism)
	if err != nil {
		return nil, err
	}
	if q.Organism == "" {
		q.Organism = DefaultOrganism
	}

	cached, err := c.store.GetGeneResource(ctx, q.Symbol, q.Organism)
	if err == nil {
		return explain(cached), nil
	}
	if !errors.Is(err, duckdb.ErrNotFound) {
		return nil, err
	}

	g, err := c.source.LookupGene(ctx, q.Organism, q.Symbol)
	if errors.Is(err, ensembl.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, q.Symbol, q.Organism)
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", q.Symbol, err)
	}

	r := &duckdb.GeneResource{
		Symbol:      q.Symbol,
		Organism:    q.Organism,
		GeneID:      g.ID,
		Description: g.Description,
		Chromosome:  g.Chromosome,
		GeneType:    g.Biotype,
		CreatedAt:   c.now(),
	}
	if err := c.store.SaveGeneResource(ctx, r); err != nil {
		return nil, err
	}
	c.logger.Debug("cached gene resource",
		zap.String("gene", r.Symbol),
		zap.String("organism", r.Organism),
		zap.String("chromosome", r.Chromosome))
	return explain(r), nil
}

// Browse makes sure every symbol is cached and returns the whole catalog.
// Symbols that cannot be looked up are skipped.
func (c *Catalog) Browse(ctx context.Context, symbols []string) ([]Resource, error) {
	for _, s := range symbols {
		if _, err := c.Get(ctx, s, DefaultOrganism); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Debug("skipping gene", zap.String("gene", s), zap.Error(err))
		}
	}
	return c.List(ctx)
}

// List returns the cached resources.
func (c *Catalog) List(ctx context.Context) ([]Resource, error) {
	rows, err := c.store.ListGeneResources(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Resource, 0, len(rows))
	for i := range rows {
		out = append(out, *explain(&rows[i]))
	}
	return out, nil
}

func explain(r *duckdb.GeneResource) *Resource {
	return &Resource{
		Symbol:         r.Symbol,
		FriendlyName:   FriendlyName(r.Symbol, r.Description),
		Description:    r.Description,
		Organism:       r.Organism,
		Chromosome:     r.Chromosome,
		ChromosomeInfo: ChromosomeInfo(r.Organism, r.Chromosome),
		GeneType:       strings.ReplaceAll(r.GeneType, "_", "-"),
		GeneTypeInfo:   GeneTypeInfo(r.GeneType),
		GeneID:         r.GeneID,
		LearnMoreLink:  LearnMoreLink(r.Organism, r.GeneID),
	}
}
