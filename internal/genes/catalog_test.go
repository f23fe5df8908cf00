package genes

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-dna/internal/duckdb"
	"github.com/inodb/vibe-dna/internal/ensembl"
	"github.com/inodb/vibe-dna/internal/resolver"
)

type fakeSource struct {
	genes   map[string]*ensembl.Gene // organism/SYMBOL
	err     error
	lookups []string
}

func (f *fakeSource) LookupGene(ctx context.Context, organism, symbol string) (*ensembl.Gene, error) {
	f.lookups = append(f.lookups, organism+"/"+symbol)
	if f.err != nil {
		return nil, f.err
	}
	g, ok := f.genes[organism+"/"+symbol]
	if !ok {
		return nil, ensembl.ErrNotFound
	}
	return g, nil
}

func newTestCatalog(t *testing.T, src Source) *Catalog {
	t.Helper()
	store, err := duckdb.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	c := NewCatalog(src, store)
	c.now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }
	return c
}

var testGenes = map[string]*ensembl.Gene{
	"homo_sapiens/BRCA1": {ID: "ENSG00000012048", Description: "BRCA1 DNA repair associated", Chromosome: "17", Biotype: "protein_coding"},
	"homo_sapiens/CFTR":  {ID: "ENSG00000001626", Description: "CF transmembrane conductance regulator", Chromosome: "7", Biotype: "protein_coding"},
	"mus_musculus/TRP53": {ID: "ENSMUSG00000059552", Description: "transformation related protein 53", Chromosome: "11", Biotype: "protein_coding"},
}

func TestGet(t *testing.T) {
	src := &fakeSource{genes: testGenes}
	c := newTestCatalog(t, src)
	ctx := context.Background()

	r, err := c.Get(ctx, "brca1", "")
	require.NoError(t, err)
	assert.Equal(t, "BRCA1", r.Symbol)
	assert.Equal(t, "homo_sapiens", r.Organism)
	assert.Equal(t, "BRCA1: BRCA1 DNA repair associated", r.FriendlyName)
	assert.Equal(t, "protein-coding", r.GeneType)
	assert.Contains(t, r.ChromosomeInfo, "BRCA1")
	assert.Contains(t, r.GeneTypeInfo, "making a protein")
	assert.Equal(t, "https://www.ensembl.org/Homo_sapiens/Gene/Summary?g=ENSG00000012048", r.LearnMoreLink)

	again, err := c.Get(ctx, "BRCA1", "homo sapiens")
	require.NoError(t, err)
	assert.Equal(t, r, again)
	assert.Equal(t, []string{"homo_sapiens/BRCA1"}, src.lookups, "second lookup is served from the cache")

	mouse, err := c.Get(ctx, "Trp53", "mus_musculus")
	require.NoError(t, err)
	assert.Equal(t, unknownChromosome, mouse.ChromosomeInfo)
}

func TestGet_Errors(t *testing.T) {
	c := newTestCatalog(t, &fakeSource{genes: testGenes})
	ctx := context.Background()

	_, err := c.Get(ctx, " ", "")
	assert.ErrorIs(t, err, resolver.ErrValidation)

	_, err = c.Get(ctx, "FAKEGENE", "")
	assert.ErrorIs(t, err, ErrNotFound)

	down := newTestCatalog(t, &fakeSource{err: errors.New("connection refused")})
	_, err = down.Get(ctx, "BRCA1", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestBrowse(t *testing.T) {
	c := newTestCatalog(t, &fakeSource{genes: testGenes})

	list, err := c.Browse(context.Background(), []string{"CFTR", "FAKEGENE", "BRCA1"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "BRCA1", list[0].Symbol)
	assert.Equal(t, "CFTR", list[1].Symbol)
	assert.Contains(t, list[1].ChromosomeInfo, "cystic fibrosis")
}

func TestBrowse_Empty(t *testing.T) {
	c := newTestCatalog(t, &fakeSource{})

	list, err := c.Browse(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestExplainers(t *testing.T) {
	assert.Equal(t, geneTypeInfo["pseudogene"], GeneTypeInfo("processed_pseudogene"))
	assert.Equal(t, geneTypeInfo["lncrna"], GeneTypeInfo("lncRNA"))
	assert.Equal(t, unknownGeneType, GeneTypeInfo("TEC"))

	assert.Contains(t, ChromosomeInfo("homo_sapiens", "x"), "X chromosome")
	assert.Equal(t, unknownChromosome, ChromosomeInfo("homo_sapiens", "KI270728.1"))

	assert.Equal(t, "HBB: hemoglobin subunit beta", FriendlyName("HBB", "hemoglobin subunit beta, beta globin"))
	assert.Equal(t, "HBB", FriendlyName("HBB", ""))
}
