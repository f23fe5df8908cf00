// Package fallback provides the locally bundled gene sequence table that is
// consulted when live sequence resolution fails.
package fallback

import (
	"bufio"
	"compress/gzip"
	"embed"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

//go:embed data/fallback.fa
var bundled embed.FS

const bundledPath = "data/fallback.fa"

// Entry is a previously captured sequence for one gene symbol.
type Entry struct {
	Symbol   string
	Organism string
	Sequence string
}

// Table maps upper-case gene symbols to captured sequences.
// It is populated once and only read afterwards.
type Table struct {
	entries map[string]Entry
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Entry)}
}

// LoadBundled returns the table compiled into the binary.
func LoadBundled() (*Table, error) {
	f, err := bundled.Open(bundledPath)
	if err != nil {
		return nil, fmt.Errorf("open bundled fallback table: %w", err)
	}
	defer f.Close()

	t := NewTable()
	if err := t.parseFASTA(f); err != nil {
		return nil, err
	}
	return t, nil
}

// Load reads a fallback table from a FASTA file. Gzipped files (".gz") are supported.
// Headers have the form ">SYMBOL [organism]".
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fallback table: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	t := NewTable()
	if err := t.parseFASTA(reader); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) parseFASTA(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var current Entry
	var seq strings.Builder

	flush := func() {
		if current.Symbol != "" && seq.Len() > 0 {
			current.Sequence = seq.String()
			t.entries[current.Symbol] = current
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, ">") {
			flush()
			current = parseHeader(line)
			seq.Reset()
			continue
		}
		seq.WriteString(strings.ToUpper(line))
	}
	flush()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan FASTA: %w", err)
	}
	return nil
}

// parseHeader splits ">BRCA1 homo_sapiens" into symbol and organism.
func parseHeader(header string) Entry {
	fields := strings.Fields(strings.TrimPrefix(header, ">"))
	if len(fields) == 0 {
		return Entry{}
	}
	e := Entry{Symbol: strings.ToUpper(fields[0])}
	if len(fields) > 1 {
		e.Organism = strings.ToLower(fields[1])
	}
	return e
}

// Lookup returns the entry for a gene symbol. The symbol is case-insensitive.
func (t *Table) Lookup(symbol string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[strings.ToUpper(strings.TrimSpace(symbol))]
	return e, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Symbols returns the gene symbols in the table, sorted.
func (t *Table) Symbols() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.entries))
	for s := range t.entries {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
