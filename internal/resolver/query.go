// Package resolver resolves gene symbols to nucleotide sequences through the
// Ensembl symbol and sequence lookups, with a bundled fallback table.
package resolver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation reports missing or malformed input. It is never retried.
	ErrValidation = errors.New("invalid gene query")

	// ErrResolution reports that no candidate yielded a sequence.
	// It is an expected outcome, not a fault.
	ErrResolution = errors.New("could not resolve sequence")
)

// Source tells where a sequence came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"

	// SourceNone is reported to observers when no sequence was produced.
	SourceNone Source = "failed"
)

// GeneQuery is a normalized lookup request.
type GeneQuery struct {
	Symbol   string // upper case, e.g. BRCA1
	Organism string // lower case with underscores, e.g. homo_sapiens; empty means any candidate
}

// NewQuery normalizes symbol and organism. An empty symbol is an ErrValidation.
func NewQuery(symbol, organism string) (GeneQuery, error) {
	q := GeneQuery{
		Symbol:   NormalizeSymbol(symbol),
		Organism: NormalizeOrganism(organism),
	}
	if q.Symbol == "" {
		return GeneQuery{}, fmt.Errorf("%w: gene symbol is required", ErrValidation)
	}
	return q, nil
}

// NormalizeSymbol trims and upper-cases a gene symbol.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeOrganism lower-cases an organism name and replaces spaces with underscores.
func NormalizeOrganism(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "_")
}

// SequenceRecord is a resolved sequence. It is never mutated after creation.
type SequenceRecord struct {
	Gene            string `json:"gene"`
	Organism        string `json:"organism"`
	Identifier      string `json:"ensembl_id,omitempty"`
	Sequence        string `json:"sequence"`
	TruncatedLength int    `json:"truncated_length,omitempty"`
	Source          Source `json:"source"`

	Attempt ResolutionAttempt `json:"-"`
}

// ResolutionAttempt records what one resolution call tried.
type ResolutionAttempt struct {
	OrganismsTried []string
	SymbolsTried   []string
	TriesUsed      int
	Succeeded      bool
}

// ResolutionError is the terminal failure of a resolution call. It matches ErrResolution.
type ResolutionError struct {
	Symbol  string
	Attempt ResolutionAttempt
}

func (e *ResolutionError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("%s after %d tries", ErrResolution, e.Attempt.TriesUsed)
	}
	return fmt.Sprintf("%s for %s (organisms tried: %s)",
		ErrResolution, e.Symbol, strings.Join(e.Attempt.OrganismsTried, ", "))
}

func (e *ResolutionError) Unwrap() error {
	return ErrResolution
}

// IsNucleotide reports whether seq is non-empty and made only of A, C, G, T and N.
func IsNucleotide(seq string) bool {
	if seq == "" {
		return false
	}
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			return false
		}
	}
	return true
}

// Truncate returns the first n characters of seq. n <= 0 disables truncation.
// Short sequences are returned unchanged, never padded.
func Truncate(seq string, n int) string {
	if n <= 0 || len(seq) <= n {
		return seq
	}
	return seq[:n]
}
