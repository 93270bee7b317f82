package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/papycha/duocup/models"
	bolt "go.etcd.io/bbolt"
)

const (
	bucketTournament = "tournament"
	keyState         = "state"
)

// BoltStore keeps the tournament document in an embedded bbolt file. This
// is the default store when no database URL is configured.
type BoltStore struct {
	db *bolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketTournament))
		if err != nil {
			return fmt.Errorf("creating tournament bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load(_ context.Context) (*models.Tournament, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if data := tx.Bucket([]byte(bucketTournament)).Get([]byte(keyState)); data != nil {
			raw = append(raw, data...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return models.NewTournament(), nil
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

func (s *BoltStore) Save(_ context.Context, t *models.Tournament) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling tournament state: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketTournament)).Put([]byte(keyState), data)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
