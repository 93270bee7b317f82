// Package state owns the single mutable tournament aggregate. Handlers and
// the reminder monitor never touch the aggregate directly; every access
// goes through the Manager so that mutations are serialized and committed
// to the snapshot store before any presentation side effect runs.
package state

import (
	"context"
	"sync"

	"github.com/papycha/duocup/models"
	"github.com/papycha/duocup/store"
)

type Manager struct {
	mu    sync.Mutex
	t     *models.Tournament
	store store.Store
}

// NewManager loads the persisted snapshot (or a fresh default) and wraps it.
func NewManager(ctx context.Context, s store.Store) (*Manager, error) {
	t, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Manager{t: t, store: s}, nil
}

// Update runs fn against the aggregate under the state lock and persists
// the result. If fn returns an error nothing is saved and the error is
// returned untouched; fn must leave the aggregate unchanged on error.
func (m *Manager) Update(ctx context.Context, fn func(t *models.Tournament) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := fn(m.t); err != nil {
		return err
	}
	return m.store.Save(ctx, m.t)
}

// View runs fn with read access to the aggregate under the state lock.
// fn must not retain or mutate the aggregate.
func (m *Manager) View(fn func(t *models.Tournament)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.t)
}

// Snapshot returns a deep copy of the current state, safe to use outside
// the lock. Presentation and the resync endpoint read from copies only.
func (m *Manager) Snapshot() *models.Tournament {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneTournament(m.t)
}

func cloneTournament(t *models.Tournament) *models.Tournament {
	out := &models.Tournament{
		Phase:        t.Phase,
		CurrentRound: t.CurrentRound,
		Players:      make([]*models.Player, len(t.Players)),
		Teams:        make([]*models.Team, len(t.Teams)),
		Matches:      make([]*models.Match, len(t.Matches)),
		Surfaces:     make(map[models.SurfaceKind]string, len(t.Surfaces)),
	}
	for i, p := range t.Players {
		cp := *p
		if p.Class != nil {
			cls := *p.Class
			cp.Class = &cls
		}
		out.Players[i] = &cp
	}
	for i, team := range t.Teams {
		ct := *team
		if team.EliminatedRound != nil {
			r := *team.EliminatedRound
			ct.EliminatedRound = &r
		}
		for j, p := range team.Players {
			if p.Class != nil {
				cls := *p.Class
				ct.Players[j].Class = &cls
			}
		}
		out.Teams[i] = &ct
	}
	for i, match := range t.Matches {
		cm := *match
		cm.Thumbs = append([]string(nil), match.Thumbs...)
		if match.MapName != nil {
			v := *match.MapName
			cm.MapName = &v
		}
		if match.MapImage != nil {
			v := *match.MapImage
			cm.MapImage = &v
		}
		if match.WinnerTeamID != nil {
			v := *match.WinnerTeamID
			cm.WinnerTeamID = &v
		}
		if match.ResultImageKey != nil {
			v := *match.ResultImageKey
			cm.ResultImageKey = &v
		}
		out.Matches[i] = &cm
	}
	for k, v := range t.Surfaces {
		out.Surfaces[k] = v
	}
	return out
}
