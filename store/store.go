package store

import (
	"context"

	"github.com/papycha/duocup/models"
)

// Store persists the tournament document. Load returns a fresh default
// tournament when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (*models.Tournament, error)
	Save(ctx context.Context, t *models.Tournament) error
	Close() error
}
