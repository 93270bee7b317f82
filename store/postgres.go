package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/papycha/duocup/models"
	_ "github.com/lib/pq" // postgres driver
)

// PostgresStore keeps the tournament document as a single jsonb row. The
// state is one small aggregate mutated under one lock, so a document
// column beats a relational breakdown here.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string, timeout time.Duration) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS tournament_state (
			id  INT PRIMARY KEY,
			doc JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err = db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure tournament_state table: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*models.Tournament, error) {
	const query = `SELECT doc FROM tournament_state WHERE id = 1`

	var raw []byte
	err := s.db.QueryRowContext(ctx, query).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewTournament(), nil
	}
	if err != nil {
		return nil, err
	}

	t := models.NewTournament()
	if err := json.Unmarshal(raw, t); err != nil {
		return nil, fmt.Errorf("unmarshaling tournament state: %w", err)
	}
	if t.Surfaces == nil {
		t.Surfaces = map[models.SurfaceKind]string{}
	}
	return t, nil
}

func (s *PostgresStore) Save(ctx context.Context, t *models.Tournament) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling tournament state: %w", err)
	}

	const query = `
		INSERT INTO tournament_state (id, doc, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`

	_, err = s.db.ExecContext(ctx, query, data)
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
