package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SequenceQuestion is a stored "which gene is this sequence?" question.
type SequenceQuestion struct {
	ID        string
	Gene      string
	Organism  string
	Sequence  string
	Source    string
	Options   []string
	CreatedAt time.Time
}

// SaveSequenceQuestion inserts a sequence question.
func (s *Store) SaveSequenceQuestion(ctx context.Context, q *SequenceQuestion) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO sequence_questions
		(id, gene, organism, sequence, source, options, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Gene, q.Organism, q.Sequence, q.Source, strings.Join(q.Options, ","), q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert sequence question: %w", err)
	}
	return nil
}

// GetSequenceQuestion returns the question with the given id or ErrNotFound.
func (s *Store) GetSequenceQuestion(ctx context.Context, id string) (*SequenceQuestion, error) {
	var q SequenceQuestion
	var organism, source sql.NullString
	var options string
	err := s.db.QueryRowContext(ctx, `SELECT id, gene, organism, sequence, source, options, created_at
		FROM sequence_questions WHERE id = ?`, id).
		Scan(&q.ID, &q.Gene, &organism, &q.Sequence, &source, &options, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sequence question %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query sequence question: %w", err)
	}
	q.Organism = organism.String
	q.Source = source.String
	if options != "" {
		q.Options = strings.Split(options, ",")
	}
	return &q, nil
}

// ChromosomeQuestion is a stored "which chromosome houses this gene?" question.
type ChromosomeQuestion struct {
	ID         string
	Gene       string
	Chromosome string
	Prompt     string
	Options    []string
	CreatedAt  time.Time
}

// SaveChromosomeQuestion inserts a chromosome question.
func (s *Store) SaveChromosomeQuestion(ctx context.Context, q *ChromosomeQuestion) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO chromosome_questions
		(id, gene, chromosome, prompt, options, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID, q.Gene, q.Chromosome, q.Prompt, strings.Join(q.Options, ","), q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert chromosome question: %w", err)
	}
	return nil
}

// GetChromosomeQuestion returns the question with the given id or ErrNotFound.
func (s *Store) GetChromosomeQuestion(ctx context.Context, id string) (*ChromosomeQuestion, error) {
	var q ChromosomeQuestion
	var options string
	err := s.db.QueryRowContext(ctx, `SELECT id, gene, chromosome, prompt, options, created_at
		FROM chromosome_questions WHERE id = ?`, id).
		Scan(&q.ID, &q.Gene, &q.Chromosome, &q.Prompt, &options, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("chromosome question %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query chromosome question: %w", err)
	}
	if options != "" {
		q.Options = strings.Split(options, ",")
	}
	return &q, nil
}

// TriviaQuestion is a multiple-choice trivia question with options A to D.
type TriviaQuestion struct {
	ID            string
	Question      string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string
	Category      string
	Difficulty    string
	CreatedAt     time.Time
}

const triviaColumns = `id, question, option_a, option_b, option_c, option_d,
	correct_answer, category, difficulty, created_at`

// AddTrivia inserts a trivia question.
func (s *Store) AddTrivia(ctx context.Context, q *TriviaQuestion) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO trivia_questions (`+triviaColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.Question, q.OptionA, q.OptionB, q.OptionC, q.OptionD,
		q.CorrectAnswer, q.Category, q.Difficulty, q.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert trivia question: %w", err)
	}
	return nil
}

// GetTrivia returns the trivia question with the given id or ErrNotFound.
func (s *Store) GetTrivia(ctx context.Context, id string) (*TriviaQuestion, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+triviaColumns+` FROM trivia_questions WHERE id = ?`, id)
	q, err := scanTrivia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trivia question %s: %w", id, ErrNotFound)
	}
	return q, err
}

// TriviaAt returns the trivia question at offset in insertion order, or
// ErrNotFound when offset is out of range.
func (s *Store) TriviaAt(ctx context.Context, offset int) (*TriviaQuestion, error) {
	if offset < 0 {
		return nil, fmt.Errorf("trivia offset %d: %w", offset, ErrNotFound)
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+triviaColumns+` FROM trivia_questions
		ORDER BY created_at, id LIMIT 1 OFFSET ?`, offset)
	q, err := scanTrivia(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trivia offset %d: %w", offset, ErrNotFound)
	}
	return q, err
}

// CountTrivia returns the number of stored trivia questions.
func (s *Store) CountTrivia(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trivia_questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trivia questions: %w", err)
	}
	return n, nil
}

func scanTrivia(row *sql.Row) (*TriviaQuestion, error) {
	var q TriviaQuestion
	if err := row.Scan(&q.ID, &q.Question, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD,
		&q.CorrectAnswer, &q.Category, &q.Difficulty, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan trivia question: %w", err)
	}
	return &q, nil
}
