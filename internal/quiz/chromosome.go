package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vibe-dna/internal/duckdb"
	"github.com/inodb/vibe-dna/internal/genes"
)

// ChromosomeDraws bounds the pool draws for one chromosome question.
const ChromosomeDraws = 5

// HumanChromosomes are the answer options of chromosome questions.
var HumanChromosomes = []string{
	"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12",
	"13", "14", "15", "16", "17", "18", "19", "20", "21", "22", "X", "Y",
}

// GeneInfo looks up where a gene lives.
type GeneInfo interface {
	Get(ctx context.Context, symbol, organism string) (*genes.Resource, error)
}

// ChromosomeQuestion is a question as shown to a player; it has no answer.
type ChromosomeQuestion struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question"`
	Gene    string   `json:"gene"`
	Options []string `json:"options"`
}

// SetGeneInfo sets the gene lookup used by chromosome questions.
func (g *Game) SetGeneInfo(info GeneInfo) {
	g.genes = info
}

// NewChromosomeQuestion draws a pool gene with a known human chromosome and
// stores a multiple-choice question asking where it lives.
func (g *Game) NewChromosomeQuestion(ctx context.Context) (*ChromosomeQuestion, error) {
	if g.genes == nil {
		return nil, fmt.Errorf("%w: chromosome questions are not configured", ErrNotFound)
	}

	var gene *genes.Resource
	for i := 0; i < ChromosomeDraws && gene == nil; i++ {
		symbol := g.pool.Draw()
		r, err := g.genes.Get(ctx, symbol, genes.DefaultOrganism)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			g.logger.Debug("no gene information", zap.String("gene", symbol), zap.Error(err))
			continue
		}
		if !isHumanChromosome(r.Chromosome) {
			continue
		}
		gene = r
	}
	if gene == nil {
		return nil, fmt.Errorf("%w: no gene with a known chromosome after %d draws", ErrNotFound, ChromosomeDraws)
	}

	chrom := strings.ToUpper(gene.Chromosome)
	options := append([]string{chrom}, g.chromosomeDistractors(chrom, OptionCount-1)...)
	g.pool.Shuffle(options)

	stored := &duckdb.ChromosomeQuestion{
		ID:         g.newID(),
		Gene:       gene.Symbol,
		Chromosome: chrom,
		Prompt:     g.chromosomePrompt(gene),
		Options:    options,
		CreatedAt:  g.now(),
	}
	if err := g.store.SaveChromosomeQuestion(ctx, stored); err != nil {
		return nil, err
	}

	return &ChromosomeQuestion{
		ID:      stored.ID,
		Prompt:  stored.Prompt,
		Gene:    stored.Gene,
		Options: options,
	}, nil
}

func (g *Game) chromosomeDistractors(exclude string, n int) []string {
	candidates := make([]string, 0, len(HumanChromosomes))
	for _, c := range HumanChromosomes {
		if c != exclude {
			candidates = append(candidates, c)
		}
	}
	g.pool.Shuffle(candidates)
	return candidates[:n]
}

func (g *Game) chromosomePrompt(r *genes.Resource) string {
	templates := []string{
		fmt.Sprintf("Which chromosome contains the gene known as %s?", r.Symbol),
		fmt.Sprintf("Select the chromosome number for the gene %s:", r.Symbol),
		fmt.Sprintf("What number chromosome contains the gene %s?", r.Symbol),
		fmt.Sprintf("Fill in the blank: %s is found on chromosome ___.", r.Symbol),
		fmt.Sprintf("On which human chromosome does %s sit?", r.Symbol),
	}
	if d := r.Description; d != "" {
		templates = append(templates,
			fmt.Sprintf("Which chromosome houses the %s gene (%s)?", d, r.Symbol),
			fmt.Sprintf("On which chromosome is %s (%q) found?", r.Symbol, d),
			fmt.Sprintf("%s (%s) is located on which chromosome?", r.Symbol, d),
			fmt.Sprintf("%s (%s) can be found on which human chromosome?", d, r.Symbol),
			fmt.Sprintf("The gene %s, which codes for %s, lives on chromosome ___.", r.Symbol, d),
		)
	}
	return g.pool.Pick(templates)
}

func isHumanChromosome(c string) bool {
	c = strings.ToUpper(c)
	for _, h := range HumanChromosomes {
		if c == h {
			return true
		}
	}
	return false
}

// normalizeChromosome accepts "7", "chr7" or "Chromosome 7".
func normalizeChromosome(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "CHROMOSOME")
	s = strings.TrimPrefix(s, "CHR")
	return strings.TrimSpace(s)
}

// AnswerChromosome checks a player's choice for a chromosome question and records the attempt.
func (g *Game) AnswerChromosome(ctx context.Context, player, questionID, choice string) (*AnswerResult, error) {
	player = strings.TrimSpace(player)
	if player == "" || questionID == "" || strings.TrimSpace(choice) == "" {
		return nil, fmt.Errorf("%w: name, question_id and answer are required", ErrInvalidInput)
	}

	q, err := g.store.GetChromosomeQuestion(ctx, questionID)
	if errors.Is(err, duckdb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, questionID)
	}
	if err != nil {
		return nil, err
	}

	answer := normalizeChromosome(choice)
	return g.record(ctx, "chromosome", player, q.ID, answer, q.Chromosome, answer == q.Chromosome)
}
