// Package genepool provides the candidate gene symbols drawn by random
// sequence lookups and the sequence quiz.
package genepool

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
)

// DefaultSymbols is the built-in candidate list.
var DefaultSymbols = []string{
	"APOE", "CFTR", "HBB", "KRAS", "EGFR", "MYC", "TP53", "BRCA1", "TNF", "FMR1",
}

// Pool is an ordered set of candidate gene symbols with an injected random source.
// Draws are safe for concurrent use.
type Pool struct {
	symbols []string

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a pool from symbols. Symbols are upper-cased and de-duplicated;
// blank entries are dropped. A nil rng is replaced by one seeded with 1.
func New(symbols []string, rng *rand.Rand) *Pool {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	seen := make(map[string]bool, len(symbols))
	p := &Pool{rng: rng}
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		p.symbols = append(p.symbols, s)
	}
	return p
}

// Default returns a pool over DefaultSymbols.
func Default(rng *rand.Rand) *Pool {
	return New(DefaultSymbols, rng)
}

// Load reads a pool from a TSV file with a "Hugo Symbol" column in the header.
// A file without a tab-separated header is read as one symbol per line.
func Load(path string, rng *rand.Rand) (*Pool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gene pool: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)

	if !scanner.Scan() {
		return nil, fmt.Errorf("gene pool: empty file")
	}
	header := strings.Split(scanner.Text(), "\t")

	hugoIdx := -1
	for i, col := range header {
		if strings.TrimSpace(col) == "Hugo Symbol" {
			hugoIdx = i
		}
	}

	var symbols []string
	if hugoIdx < 0 {
		// Plain list, the first line is already a symbol
		if len(header) > 1 {
			return nil, fmt.Errorf("gene pool: missing 'Hugo Symbol' column")
		}
		symbols = append(symbols, header[0])
		hugoIdx = 0
	}

	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= hugoIdx {
			continue
		}
		symbols = append(symbols, fields[hugoIdx])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading gene pool: %w", err)
	}

	p := New(symbols, rng)
	if p.Len() == 0 {
		return nil, fmt.Errorf("gene pool: no symbols in %s", path)
	}
	return p, nil
}

// Len returns the number of candidate symbols.
func (p *Pool) Len() int {
	return len(p.symbols)
}

// Symbols returns a copy of the candidate symbols in pool order.
func (p *Pool) Symbols() []string {
	return append([]string(nil), p.symbols...)
}

// Contains reports whether symbol is a candidate.
func (p *Pool) Contains(symbol string) bool {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	for _, s := range p.symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// Draw returns a random symbol, or "" when the pool is empty.
func (p *Pool) Draw() string {
	if len(p.symbols) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.symbols[p.rng.Intn(len(p.symbols))]
}

// Intn returns a random index in [0, n) from the pool's source, or 0 when n <= 0.
func (p *Pool) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Intn(n)
}

// Pick returns a random element of choices, or "" when it is empty.
func (p *Pool) Pick(choices []string) string {
	if len(choices) == 0 {
		return ""
	}
	return choices[p.Intn(len(choices))]
}

// Distractors returns up to n distinct symbols other than exclude, in random order.
func (p *Pool) Distractors(exclude string, n int) []string {
	exclude = strings.ToUpper(exclude)
	candidates := make([]string, 0, len(p.symbols))
	for _, s := range p.symbols {
		if s != exclude {
			candidates = append(candidates, s)
		}
	}

	p.mu.Lock()
	p.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	p.mu.Unlock()

	if n < len(candidates) {
		candidates = candidates[:n]
	}
	return candidates
}

// Shuffle permutes s in place with the pool's random source.
func (p *Pool) Shuffle(s []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rng.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}
