package quiz

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/inodb/vibe-dna/internal/duckdb"
)

//go:embed data/trivia.yaml
var seedTriviaYAML []byte

// DefaultDifficulty is used when a trivia question has none.
const DefaultDifficulty = "medium"

var optionLetters = []string{"A", "B", "C", "D"}

// TriviaInput is a new trivia question. Answer is an option letter or the text of an option.
type TriviaInput struct {
	Question   string   `yaml:"question" json:"question"`
	Options    []string `yaml:"options" json:"options"`
	Answer     string   `yaml:"answer" json:"correct_answer"`
	Difficulty string   `yaml:"difficulty" json:"difficulty"`
	Category   string   `yaml:"category" json:"category"`
}

// TriviaQuestion is a trivia question as shown to a player.
type TriviaQuestion struct {
	ID         string            `json:"id"`
	Question   string            `json:"question"`
	Options    map[string]string `json:"options"`
	Category   string            `json:"category"`
	Difficulty string            `json:"difficulty"`
}

// AddTrivia validates and stores a trivia question, returning its id.
func (g *Game) AddTrivia(ctx context.Context, in TriviaInput) (string, error) {
	q, err := g.buildTrivia(in)
	if err != nil {
		return "", err
	}
	if err := g.store.AddTrivia(ctx, q); err != nil {
		return "", err
	}
	return q.ID, nil
}

func (g *Game) buildTrivia(in TriviaInput) (*duckdb.TriviaQuestion, error) {
	question := strings.TrimSpace(in.Question)
	category := strings.TrimSpace(in.Category)
	if question == "" || category == "" || len(in.Options) != len(optionLetters) {
		return nil, fmt.Errorf("%w: question, category and four options are required", ErrInvalidInput)
	}
	opts := make([]string, len(in.Options))
	for i, o := range in.Options {
		if opts[i] = strings.TrimSpace(o); opts[i] == "" {
			return nil, fmt.Errorf("%w: option %s is empty", ErrInvalidInput, optionLetters[i])
		}
	}

	answer := answerLetter(in.Answer, opts)
	if answer == "" {
		return nil, fmt.Errorf("%w: correct answer %q is not one of the options", ErrInvalidInput, in.Answer)
	}

	difficulty := strings.ToLower(strings.TrimSpace(in.Difficulty))
	if difficulty == "" {
		difficulty = DefaultDifficulty
	}

	return &duckdb.TriviaQuestion{
		ID:            g.newID(),
		Question:      question,
		OptionA:       opts[0],
		OptionB:       opts[1],
		OptionC:       opts[2],
		OptionD:       opts[3],
		CorrectAnswer: answer,
		Category:      category,
		Difficulty:    difficulty,
		CreatedAt:     g.now(),
	}, nil
}

// answerLetter maps a letter or option text to its option letter, "" if neither.
func answerLetter(answer string, opts []string) string {
	answer = strings.TrimSpace(answer)
	for _, l := range optionLetters {
		if strings.EqualFold(answer, l) {
			return l
		}
	}
	for i, o := range opts {
		if answer != "" && strings.EqualFold(answer, o) {
			return optionLetters[i]
		}
	}
	return ""
}

// RandomTrivia returns a stored trivia question picked with the pool's random source.
func (g *Game) RandomTrivia(ctx context.Context) (*TriviaQuestion, error) {
	n, err := g.store.CountTrivia(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: no trivia questions available", ErrNotFound)
	}

	q, err := g.store.TriviaAt(ctx, g.pool.Intn(n))
	if errors.Is(err, duckdb.ErrNotFound) {
		return nil, fmt.Errorf("%w: no trivia questions available", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &TriviaQuestion{
		ID:       q.ID,
		Question: q.Question,
		Options: map[string]string{
			"A": q.OptionA,
			"B": q.OptionB,
			"C": q.OptionC,
			"D": q.OptionD,
		},
		Category:   q.Category,
		Difficulty: q.Difficulty,
	}, nil
}

// AnswerTrivia checks a trivia answer (letter or option text) and records the attempt.
func (g *Game) AnswerTrivia(ctx context.Context, player, questionID, choice string) (*AnswerResult, error) {
	player = strings.TrimSpace(player)
	if player == "" || questionID == "" || strings.TrimSpace(choice) == "" {
		return nil, fmt.Errorf("%w: name, question_id and selected_answer are required", ErrInvalidInput)
	}

	q, err := g.store.GetTrivia(ctx, questionID)
	if errors.Is(err, duckdb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, questionID)
	}
	if err != nil {
		return nil, err
	}

	selected := answerLetter(choice, []string{q.OptionA, q.OptionB, q.OptionC, q.OptionD})
	correct := selected == q.CorrectAnswer
	return g.record(ctx, "trivia", player, q.ID, selected, q.CorrectAnswer, correct)
}

// SeedTrivia stores the bundled trivia questions when the store has none.
// It returns the number of questions added.
func (g *Game) SeedTrivia(ctx context.Context) (int, error) {
	n, err := g.store.CountTrivia(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	var seed []TriviaInput
	if err := yaml.Unmarshal(seedTriviaYAML, &seed); err != nil {
		return 0, fmt.Errorf("parse bundled trivia: %w", err)
	}

	added := 0
	for _, in := range seed {
		if _, err := g.AddTrivia(ctx, in); err != nil {
			return added, fmt.Errorf("seed trivia %q: %w", in.Question, err)
		}
		added++
	}
	g.logger.Info("seeded trivia questions", zap.Int("count", added))
	return added, nil
}
