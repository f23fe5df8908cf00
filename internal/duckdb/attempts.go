package duckdb

import (
	"context"
	"fmt"
	"time"
)

// Attempt is one answered question.
type Attempt struct {
	ID         string
	Player     string
	Kind       string // "sequence" or "trivia"
	QuestionID string
	Answer     string
	Correct    bool
	Score      int
	CreatedAt  time.Time
}

// ScoreEntry is one leaderboard row.
type ScoreEntry struct {
	Player     string `json:"name"`
	TotalScore int64  `json:"total_score"`
}

// RecordAttempt inserts an answer attempt.
func (s *Store) RecordAttempt(ctx context.Context, a *Attempt) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO quiz_attempts
		(id, player, kind, question_id, answer, correct, score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Player, a.Kind, a.QuestionID, a.Answer, a.Correct, a.Score, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// PlayerScore returns the total score of a player, 0 for unknown players.
func (s *Store) PlayerScore(ctx context.Context, player string) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT CAST(COALESCE(SUM(score), 0) AS BIGINT)
		FROM quiz_attempts WHERE player = ?`, player).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("query player score: %w", err)
	}
	return total, nil
}

// Leaderboard returns the top players by total score, highest first.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `SELECT player, CAST(SUM(score) AS BIGINT) AS total
		FROM quiz_attempts
		GROUP BY player
		ORDER BY total DESC, player
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		if err := rows.Scan(&e.Player, &e.TotalScore); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard: %w", err)
	}
	return entries, nil
}

// Attempts returns a player's attempts, newest first.
func (s *Store) Attempts(ctx context.Context, player string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, player, kind, question_id, answer, correct, score, created_at
		FROM quiz_attempts WHERE player = ? ORDER BY created_at DESC, id`, player)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.Player, &a.Kind, &a.QuestionID, &a.Answer, &a.Correct, &a.Score, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return out, nil
}
