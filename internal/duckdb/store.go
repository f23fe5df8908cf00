// Package duckdb persists quiz questions, trivia and answer attempts in DuckDB.
package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// Store manages a DuckDB connection for quiz state.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sequence_questions (
			id VARCHAR PRIMARY KEY,
			gene VARCHAR NOT NULL,
			organism VARCHAR,
			sequence VARCHAR NOT NULL,
			source VARCHAR,
			options VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chromosome_questions (
			id VARCHAR PRIMARY KEY,
			gene VARCHAR NOT NULL,
			chromosome VARCHAR NOT NULL,
			prompt VARCHAR NOT NULL,
			options VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS gene_resources (
			symbol VARCHAR NOT NULL,
			organism VARCHAR NOT NULL,
			gene_id VARCHAR NOT NULL,
			description VARCHAR,
			chromosome VARCHAR,
			gene_type VARCHAR,
			created_at TIMESTAMP NOT NULL,
			PRIMARY KEY (symbol, organism)
		)`,
		`CREATE TABLE IF NOT EXISTS trivia_questions (
			id VARCHAR PRIMARY KEY,
			question VARCHAR NOT NULL,
			option_a VARCHAR NOT NULL,
			option_b VARCHAR NOT NULL,
			option_c VARCHAR NOT NULL,
			option_d VARCHAR NOT NULL,
			correct_answer VARCHAR NOT NULL,
			category VARCHAR NOT NULL,
			difficulty VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_attempts (
			id VARCHAR PRIMARY KEY,
			player VARCHAR NOT NULL,
			kind VARCHAR NOT NULL,
			question_id VARCHAR NOT NULL,
			answer VARCHAR,
			correct BOOLEAN NOT NULL,
			score INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
