package quiz

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTrivia_Validation(t *testing.T) {
	g, _ := newTestGame(t, &stubSource{})
	ctx := context.Background()

	valid := TriviaInput{
		Question: "Which base pairs with guanine?",
		Options:  []string{"Adenine", "Cytosine", "Thymine", "Uracil"},
		Answer:   "Cytosine",
		Category: "Genetics",
	}

	tests := []struct {
		name   string
		mutate func(in *TriviaInput)
	}{
		{"missing question", func(in *TriviaInput) { in.Question = " " }},
		{"missing category", func(in *TriviaInput) { in.Category = "" }},
		{"three options", func(in *TriviaInput) { in.Options = in.Options[:3] }},
		{"empty option", func(in *TriviaInput) { in.Options = []string{"Adenine", "", "Thymine", "Uracil"} }},
		{"unknown answer", func(in *TriviaInput) { in.Answer = "E" }},
		{"missing answer", func(in *TriviaInput) { in.Answer = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			in.Options = append([]string(nil), valid.Options...)
			tt.mutate(&in)
			_, err := g.AddTrivia(ctx, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	id, err := g.AddTrivia(ctx, valid)
	require.NoError(t, err)

	q, err := g.store.GetTrivia(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "B", q.CorrectAnswer)
	assert.Equal(t, DefaultDifficulty, q.Difficulty)
}

func TestAnswerTrivia(t *testing.T) {
	g, _ := newTestGame(t, &stubSource{})
	ctx := context.Background()

	id, err := g.AddTrivia(ctx, TriviaInput{
		Question:   "What is the shape of DNA?",
		Options:    []string{"Single helix", "Double helix", "Triple helix", "Flat sheet"},
		Answer:     "b",
		Category:   "Genetics",
		Difficulty: "Easy",
	})
	require.NoError(t, err)

	q, err := g.RandomTrivia(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, q.ID)
	assert.Equal(t, "Double helix", q.Options["B"])
	assert.Equal(t, "easy", q.Difficulty)

	res, err := g.AnswerTrivia(ctx, "bob", id, "double helix")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 10, res.Score)

	res, err = g.AnswerTrivia(ctx, "bob", id, "A")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, "B", res.CorrectAnswer)

	_, err = g.AnswerTrivia(ctx, "bob", "missing", "A")
	assert.ErrorIs(t, err, ErrNotFound)

	board, err := g.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, "bob", board[0].Player)
	assert.Equal(t, int64(10), board[0].TotalScore)
}

func TestRandomTrivia_Empty(t *testing.T) {
	g, _ := newTestGame(t, &stubSource{})

	_, err := g.RandomTrivia(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRandomTrivia_UsesPoolSource(t *testing.T) {
	g, _ := newTestGame(t, &stubSource{})
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := g.AddTrivia(ctx, TriviaInput{
			Question: fmt.Sprintf("Question %d?", i),
			Options:  []string{"A1", "B1", "C1", "D1"},
			Answer:   "A",
			Category: "Genetics",
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	// newTestGame seeds the pool with 3 and nothing else draws from it here.
	want := rand.New(rand.NewSource(3))
	for i := 0; i < 5; i++ {
		q, err := g.RandomTrivia(ctx)
		require.NoError(t, err)
		assert.Equal(t, ids[want.Intn(len(ids))], q.ID)
	}
}

func TestSeedTrivia(t *testing.T) {
	g, store := newTestGame(t, &stubSource{})
	ctx := context.Background()

	added, err := g.SeedTrivia(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, added)

	n, err := store.CountTrivia(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	added, err = g.SeedTrivia(ctx)
	require.NoError(t, err)
	assert.Zero(t, added, "seeding is skipped when questions exist")
}
