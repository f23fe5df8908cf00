// Package quiz implements the sequence quiz and trivia game on top of the
// sequence resolver and the DuckDB store.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inodb/vibe-dna/internal/duckdb"
	"github.com/inodb/vibe-dna/internal/genepool"
	"github.com/inodb/vibe-dna/internal/resolver"
)

// PointsPerCorrectAnswer is awarded for each correct answer.
const PointsPerCorrectAnswer = 10

// OptionCount is the number of choices offered per sequence question.
const OptionCount = 4

var (
	// ErrInvalidInput reports a malformed request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound reports a missing question.
	ErrNotFound = errors.New("question not found")
)

// Store is the persistence the game needs.
type Store interface {
	SaveSequenceQuestion(ctx context.Context, q *duckdb.SequenceQuestion) error
	GetSequenceQuestion(ctx context.Context, id string) (*duckdb.SequenceQuestion, error)
	SaveChromosomeQuestion(ctx context.Context, q *duckdb.ChromosomeQuestion) error
	GetChromosomeQuestion(ctx context.Context, id string) (*duckdb.ChromosomeQuestion, error)
	AddTrivia(ctx context.Context, q *duckdb.TriviaQuestion) error
	GetTrivia(ctx context.Context, id string) (*duckdb.TriviaQuestion, error)
	TriviaAt(ctx context.Context, offset int) (*duckdb.TriviaQuestion, error)
	CountTrivia(ctx context.Context) (int, error)
	RecordAttempt(ctx context.Context, a *duckdb.Attempt) error
	PlayerScore(ctx context.Context, player string) (int64, error)
	Leaderboard(ctx context.Context, limit int) ([]duckdb.ScoreEntry, error)
}

// SequenceSource resolves a sequence for a random pool gene.
type SequenceSource interface {
	ResolveFromPool(ctx context.Context, pool resolver.Picker) (*resolver.SequenceRecord, error)
}

// AnswerObserver is notified of every answer, e.g. for metrics.
type AnswerObserver interface {
	ObserveAnswer(kind string, correct bool)
}

// Game serves quiz questions and records answers.
type Game struct {
	store    Store
	source   SequenceSource
	pool     *genepool.Pool
	genes    GeneInfo
	logger   *zap.Logger
	observer AnswerObserver
	now      func() time.Time
	newID    func() string
}

// NewGame creates a game. The pool provides both the drawn genes and the distractors.
func NewGame(store Store, source SequenceSource, pool *genepool.Pool) *Game {
	return &Game{
		store:  store,
		source: source,
		pool:   pool,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// SetLogger sets the logger. nil restores the no-op logger.
func (g *Game) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	g.logger = l
}

// SetObserver sets the answer observer.
func (g *Game) SetObserver(o AnswerObserver) {
	g.observer = o
}

// SequenceQuestion is a question as shown to a player; it has no answer.
type SequenceQuestion struct {
	ID       string   `json:"id"`
	Prompt   string   `json:"question"`
	Sequence string   `json:"sequence"`
	Organism string   `json:"organism,omitempty"`
	Options  []string `json:"options"`
}

// AnswerResult is the outcome of an answer.
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Score         int    `json:"score"`
	Message       string `json:"message"`
}

// NewSequenceQuestion resolves a random pool gene and stores a multiple-choice
// question asking which gene the sequence preview belongs to.
func (g *Game) NewSequenceQuestion(ctx context.Context) (*SequenceQuestion, error) {
	rec, err := g.source.ResolveFromPool(ctx, g.pool)
	if err != nil {
		return nil, err
	}

	options := append([]string{rec.Gene}, g.pool.Distractors(rec.Gene, OptionCount-1)...)
	g.pool.Shuffle(options)

	stored := &duckdb.SequenceQuestion{
		ID:        g.newID(),
		Gene:      rec.Gene,
		Organism:  rec.Organism,
		Sequence:  rec.Sequence,
		Source:    string(rec.Source),
		Options:   options,
		CreatedAt: g.now(),
	}
	if err := g.store.SaveSequenceQuestion(ctx, stored); err != nil {
		return nil, err
	}

	return &SequenceQuestion{
		ID:       stored.ID,
		Prompt:   sequencePrompt(rec),
		Sequence: rec.Sequence,
		Organism: rec.Organism,
		Options:  options,
	}, nil
}

func sequencePrompt(rec *resolver.SequenceRecord) string {
	organism := strings.ReplaceAll(rec.Organism, "_", " ")
	if organism == "" {
		return fmt.Sprintf("Which gene starts with this %d-base sequence?", len(rec.Sequence))
	}
	return fmt.Sprintf("Which %s gene starts with this %d-base sequence?", organism, len(rec.Sequence))
}

// AnswerSequence checks a player's choice for a sequence question and records the attempt.
func (g *Game) AnswerSequence(ctx context.Context, player, questionID, choice string) (*AnswerResult, error) {
	player = strings.TrimSpace(player)
	if player == "" || questionID == "" || strings.TrimSpace(choice) == "" {
		return nil, fmt.Errorf("%w: name, question_id and answer are required", ErrInvalidInput)
	}

	q, err := g.store.GetSequenceQuestion(ctx, questionID)
	if errors.Is(err, duckdb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, questionID)
	}
	if err != nil {
		return nil, err
	}

	correct := resolver.NormalizeSymbol(choice) == q.Gene
	return g.record(ctx, "sequence", player, q.ID, resolver.NormalizeSymbol(choice), q.Gene, correct)
}

func (g *Game) record(ctx context.Context, kind, player, questionID, answer, correctAnswer string, correct bool) (*AnswerResult, error) {
	res := &AnswerResult{Correct: correct, CorrectAnswer: correctAnswer}
	if correct {
		res.Score = PointsPerCorrectAnswer
		res.Message = "Correct!"
	} else {
		res.Message = fmt.Sprintf("Incorrect. It was %s.", correctAnswer)
	}

	attempt := &duckdb.Attempt{
		ID:         g.newID(),
		Player:     player,
		Kind:       kind,
		QuestionID: questionID,
		Answer:     answer,
		Correct:    correct,
		Score:      res.Score,
		CreatedAt:  g.now(),
	}
	if err := g.store.RecordAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	g.logger.Debug("answer recorded",
		zap.String("kind", kind),
		zap.String("player", player),
		zap.String("question_id", questionID),
		zap.Bool("correct", correct))
	if g.observer != nil {
		g.observer.ObserveAnswer(kind, correct)
	}
	return res, nil
}

// Score returns the total score of a player.
func (g *Game) Score(ctx context.Context, player string) (int64, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	return g.store.PlayerScore(ctx, player)
}

// Leaderboard returns the top players. limit <= 0 means 10.
func (g *Game) Leaderboard(ctx context.Context, limit int) ([]duckdb.ScoreEntry, error) {
	entries, err := g.store.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []duckdb.ScoreEntry{}
	}
	return entries, nil
}
