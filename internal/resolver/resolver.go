package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/vibe-dna/internal/ensembl"
	"github.com/inodb/vibe-dna/internal/fallback"
)

// Defaults for a resolver.
const (
	DefaultMaxRetries     = 20
	DefaultAttemptTimeout = 10 * time.Second
)

// DefaultOrganisms is the candidate organism order used when none is given.
var DefaultOrganisms = []string{"homo_sapiens", "mus_musculus"}

// Upstream is the pair of external lookups a resolver depends on.
type Upstream interface {
	LookupSymbol(ctx context.Context, organism, symbol string) ([]ensembl.XRef, error)
	FetchSequence(ctx context.Context, id string) (string, error)
}

// FallbackSource provides previously captured sequences.
type FallbackSource interface {
	Lookup(symbol string) (fallback.Entry, bool)
}

// Picker draws candidate gene symbols for pool resolution.
type Picker interface {
	Draw() string
}

// Observer receives resolution events, e.g. for metrics.
type Observer interface {
	ObserveAttempt(organism string, outcome string)
	ObserveResolution(source string)
}

// Resolver resolves gene symbols to sequences.
// A configured Resolver holds no mutable state and is safe for concurrent use.
type Resolver struct {
	upstream       Upstream
	fallback       FallbackSource
	organisms      []string
	maxRetries     int
	previewLength  int
	attemptTimeout time.Duration
	logger         *zap.Logger
	observer       Observer
}

// New creates a resolver. fb may be nil to disable the fallback table.
func New(upstream Upstream, fb FallbackSource) *Resolver {
	return &Resolver{
		upstream:       upstream,
		fallback:       fb,
		organisms:      DefaultOrganisms,
		maxRetries:     DefaultMaxRetries,
		attemptTimeout: DefaultAttemptTimeout,
		logger:         zap.NewNop(),
	}
}

// SetOrganisms sets the candidate organism order. Empty entries are ignored.
func (r *Resolver) SetOrganisms(organisms []string) {
	var out []string
	for _, o := range organisms {
		if o = NormalizeOrganism(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) > 0 {
		r.organisms = out
	}
}

// Organisms returns the candidate organism order.
func (r *Resolver) Organisms() []string {
	return append([]string(nil), r.organisms...)
}

// SetMaxRetries sets the number of pool draws for ResolveFromPool.
func (r *Resolver) SetMaxRetries(n int) {
	if n > 0 {
		r.maxRetries = n
	}
}

// SetPreviewLength sets the returned sequence prefix length. 0 returns full sequences.
func (r *Resolver) SetPreviewLength(n int) {
	if n >= 0 {
		r.previewLength = n
	}
}

// SetAttemptTimeout bounds a single organism attempt. 0 disables the bound.
func (r *Resolver) SetAttemptTimeout(d time.Duration) {
	if d >= 0 {
		r.attemptTimeout = d
	}
}

// SetLogger sets the logger for attempt diagnostics. nil restores the no-op logger.
func (r *Resolver) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	r.logger = l
}

// SetObserver sets the observer for resolution events.
func (r *Resolver) SetObserver(o Observer) {
	r.observer = o
}

// attemptOutcome is the typed result of trying one organism.
type attemptOutcome int

const (
	attemptResolved attemptOutcome = iota
	attemptNoIdentifier
	attemptNoSequence
)

func (o attemptOutcome) String() string {
	switch o {
	case attemptResolved:
		return "resolved"
	case attemptNoIdentifier:
		return "no_identifier"
	case attemptNoSequence:
		return "no_sequence"
	default:
		return "unknown"
	}
}

type attemptResult struct {
	organism   string
	identifier string
	sequence   string
	outcome    attemptOutcome
	err        error
}

// Resolve resolves one gene symbol. When organism is empty the candidate
// organisms are tried in order; otherwise only the given organism is tried.
// The fallback table is consulted only after live resolution failed.
func (r *Resolver) Resolve(ctx context.Context, symbol, organism string) (*SequenceRecord, error) {
	q, err := NewQuery(symbol, organism)
	if err != nil {
		return nil, err
	}

	var attempt ResolutionAttempt
	attempt.TriesUsed = 1
	attempt.SymbolsTried = []string{q.Symbol}

	if rec := r.resolveLive(ctx, q, &attempt); rec != nil {
		return rec, nil
	}

	if rec := r.resolveFallback(q.Symbol, &attempt); rec != nil {
		return rec, nil
	}

	return nil, r.fail(q.Symbol, attempt)
}

// ResolveFromPool draws up to the configured number of symbols from pool and
// returns the first one that resolves live. If every draw fails, the first drawn
// symbol present in the fallback table is used; otherwise it is a ResolutionError.
func (r *Resolver) ResolveFromPool(ctx context.Context, pool Picker) (*SequenceRecord, error) {
	return r.ResolveFromPoolN(ctx, pool, r.maxRetries)
}

// ResolveFromPoolN is ResolveFromPool with an explicit number of draws.
// maxRetries <= 0 uses the configured number.
func (r *Resolver) ResolveFromPoolN(ctx context.Context, pool Picker, maxRetries int) (*SequenceRecord, error) {
	if pool == nil {
		return nil, fmt.Errorf("%w: gene pool is required", ErrValidation)
	}
	if maxRetries <= 0 {
		maxRetries = r.maxRetries
	}

	var attempt ResolutionAttempt
	for i := 0; i < maxRetries; i++ {
		symbol := NormalizeSymbol(pool.Draw())
		if symbol == "" {
			return nil, fmt.Errorf("%w: gene pool is empty", ErrValidation)
		}
		attempt.TriesUsed++
		attempt.SymbolsTried = append(attempt.SymbolsTried, symbol)

		if rec := r.resolveLive(ctx, GeneQuery{Symbol: symbol}, &attempt); rec != nil {
			return rec, nil
		}
	}

	for _, symbol := range attempt.SymbolsTried {
		if rec := r.resolveFallback(symbol, &attempt); rec != nil {
			return rec, nil
		}
	}

	return nil, r.fail("", attempt)
}

func (r *Resolver) resolveLive(ctx context.Context, q GeneQuery, attempt *ResolutionAttempt) *SequenceRecord {
	organisms := r.organisms
	if q.Organism != "" {
		organisms = []string{q.Organism}
	}

	for _, organism := range organisms {
		attempt.OrganismsTried = append(attempt.OrganismsTried, organism)

		res := r.tryOrganism(ctx, organism, q.Symbol)
		if r.observer != nil {
			r.observer.ObserveAttempt(organism, res.outcome.String())
		}
		if res.outcome != attemptResolved {
			r.logger.Debug("organism attempt failed",
				zap.String("gene", q.Symbol),
				zap.String("organism", organism),
				zap.Stringer("outcome", res.outcome),
				zap.Error(res.err))
			continue
		}

		attempt.Succeeded = true
		if r.observer != nil {
			r.observer.ObserveResolution(string(SourceLive))
		}
		return r.record(q.Symbol, res.organism, res.identifier, res.sequence, SourceLive, *attempt)
	}
	return nil
}

// tryOrganism runs the identifier then sequence lookup for one organism.
// Every failure is folded into the returned result.
func (r *Resolver) tryOrganism(ctx context.Context, organism, symbol string) attemptResult {
	if r.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.attemptTimeout)
		defer cancel()
	}

	res := attemptResult{organism: organism}

	xrefs, err := r.upstream.LookupSymbol(ctx, organism, symbol)
	if err != nil || len(xrefs) == 0 {
		res.outcome = attemptNoIdentifier
		res.err = err
		return res
	}
	res.identifier = xrefs[0].ID

	seq, err := r.upstream.FetchSequence(ctx, res.identifier)
	seq = strings.ToUpper(strings.TrimSpace(seq))
	if err != nil || seq == "" {
		res.outcome = attemptNoSequence
		res.err = err
		return res
	}
	if !IsNucleotide(seq) {
		res.outcome = attemptNoSequence
		res.err = fmt.Errorf("sequence for %s has non-nucleotide characters", res.identifier)
		return res
	}

	res.sequence = seq
	res.outcome = attemptResolved
	return res
}

func (r *Resolver) resolveFallback(symbol string, attempt *ResolutionAttempt) *SequenceRecord {
	if r.fallback == nil {
		return nil
	}
	e, ok := r.fallback.Lookup(symbol)
	if !ok || !IsNucleotide(e.Sequence) {
		return nil
	}

	r.logger.Info("using fallback sequence",
		zap.String("gene", symbol),
		zap.Strings("organisms_tried", attempt.OrganismsTried))

	attempt.Succeeded = true
	if r.observer != nil {
		r.observer.ObserveResolution(string(SourceFallback))
	}
	return r.record(symbol, e.Organism, "", e.Sequence, SourceFallback, *attempt)
}

func (r *Resolver) record(symbol, organism, id, seq string, src Source, attempt ResolutionAttempt) *SequenceRecord {
	rec := &SequenceRecord{
		Gene:       symbol,
		Organism:   organism,
		Identifier: id,
		Sequence:   Truncate(seq, r.previewLength),
		Source:     src,
		Attempt:    attempt,
	}
	if r.previewLength > 0 {
		rec.TruncatedLength = r.previewLength
	}
	return rec
}

func (r *Resolver) fail(symbol string, attempt ResolutionAttempt) error {
	r.logger.Info("no sequence available",
		zap.String("gene", symbol),
		zap.Int("tries", attempt.TriesUsed),
		zap.Strings("organisms_tried", attempt.OrganismsTried))
	if r.observer != nil {
		r.observer.ObserveResolution(string(SourceNone))
	}
	return &ResolutionError{Symbol: symbol, Attempt: attempt}
}
