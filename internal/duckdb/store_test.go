package duckdb

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Empty(t, s.Path())
}

func TestOpenFile_Persists(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "quiz.duckdb")

	s, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.AddTrivia(ctx, sampleTrivia("t1")))
	require.NoError(t, s.Close())

	s, err = Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.CountTrivia(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSequenceQuestions(t *testing.T) {
	ctx := context.Background()
	s := openInMemory(t)

	q := &SequenceQuestion{
		ID:        "q-1",
		Gene:      "BRCA1",
		Organism:  "homo_sapiens",
		Sequence:  "ACGTACGTACGT",
		Source:    "live",
		Options:   []string{"TP53", "BRCA1", "KRAS", "HBB"},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.SaveSequenceQuestion(ctx, q))

	got, err := s.GetSequenceQuestion(ctx, "q-1")
	require.NoError(t, err)
	assert.Equal(t, "BRCA1", got.Gene)
	assert.Equal(t, "homo_sapiens", got.Organism)
	assert.Equal(t, "ACGTACGTACGT", got.Sequence)
	assert.Equal(t, "live", got.Source)
	assert.Equal(t, q.Options, got.Options)
	assert.WithinDuration(t, q.CreatedAt, got.CreatedAt, time.Millisecond)

	_, err = s.GetSequenceQuestion(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, s.SaveSequenceQuestion(ctx, q), "duplicate id must be rejected")
}

func sampleTrivia(id string) *TriviaQuestion {
	return &TriviaQuestion{
		ID:            id,
		Question:      "What is the shape of DNA?",
		OptionA:       "Single helix",
		OptionB:       "Double helix",
		OptionC:       "Triple helix",
		OptionD:       "Flat sheet",
		CorrectAnswer: "B",
		Category:      "Genetics",
		Difficulty:    "easy",
		CreatedAt:     time.Now().UTC(),
	}
}

func TestTrivia(t *testing.T) {
	ctx := context.Background()
	s := openInMemory(t)

	_, err := s.TriviaAt(ctx, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	t2 := sampleTrivia("t2")
	t2.CreatedAt = t2.CreatedAt.Add(time.Second)
	require.NoError(t, s.AddTrivia(ctx, sampleTrivia("t1")))
	require.NoError(t, s.AddTrivia(ctx, t2))

	n, err := s.CountTrivia(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	q, err := s.TriviaAt(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "t2", q.ID)
	assert.Equal(t, "Double helix", q.OptionB)

	_, err = s.TriviaAt(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.TriviaAt(ctx, -1)
	assert.ErrorIs(t, err, ErrNotFound)

	q, err = s.GetTrivia(ctx, "t2")
	require.NoError(t, err)
	assert.Equal(t, "B", q.CorrectAnswer)
	assert.Equal(t, "easy", q.Difficulty)

	_, err = s.GetTrivia(ctx, "t3")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScores(t *testing.T) {
	ctx := context.Background()
	s := openInMemory(t)
	now := time.Now().UTC()

	record := func(id, player string, score int) {
		require.NoError(t, s.RecordAttempt(ctx, &Attempt{
			ID: id, Player: player, Kind: "sequence", QuestionID: "q",
			Answer: "BRCA1", Correct: score > 0, Score: score, CreatedAt: now,
		}))
	}
	record("a1", "ada", 10)
	record("a2", "ada", 0)
	record("a3", "ada", 10)
	record("a4", "bob", 10)
	record("a5", "cy", 0)

	total, err := s.PlayerScore(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, int64(20), total)

	total, err = s.PlayerScore(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, total)

	board, err := s.Leaderboard(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []ScoreEntry{
		{Player: "ada", TotalScore: 20},
		{Player: "bob", TotalScore: 10},
		{Player: "cy", TotalScore: 0},
	}, board)

	board, err = s.Leaderboard(ctx, 1)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "ada", board[0].Player)

	attempts, err := s.Attempts(ctx, "ada")
	require.NoError(t, err)
	assert.Len(t, attempts, 3)
}

func TestLeaderboard_LimitsToTen(t *testing.T) {
	ctx := context.Background()
	s := openInMemory(t)

	for i := 0; i < 15; i++ {
		require.NoError(t, s.RecordAttempt(ctx, &Attempt{
			ID: fmt.Sprintf("a%d", i), Player: fmt.Sprintf("p%02d", i), Kind: "trivia",
			QuestionID: "t1", Answer: "B", Correct: true, Score: i, CreatedAt: time.Now().UTC(),
		}))
	}

	board, err := s.Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, board, 10)
	assert.Equal(t, "p14", board[0].Player)
	assert.Equal(t, int64(14), board[0].TotalScore)
}
