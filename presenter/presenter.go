// Package presenter regenerates every externally visible view of the
// tournament after each mutation. It consumes read-only snapshots and only
// ever writes surface references back to state; rendering failures are
// logged and never surfaced to the caller.
package presenter

import (
	"context"
	"log/slog"

	"github.com/papycha/duocup/chat"
	"github.com/papycha/duocup/models"
	"github.com/papycha/duocup/state"
	"golang.org/x/sync/errgroup"
)

type Presenter struct {
	client       chat.Client
	manager      *state.Manager
	embedChannel string
	logger       *slog.Logger
}

func New(client chat.Client, manager *state.Manager, embedChannel string, logger *slog.Logger) *Presenter {
	return &Presenter{
		client:       client,
		manager:      manager,
		embedChannel: embedChannel,
		logger:       logger,
	}
}

type surfaceSpec struct {
	kind  models.SurfaceKind
	build func(*models.Tournament) chat.Embed
}

var summarySurfaces = []surfaceSpec{
	{models.SurfaceTeams, TeamsEmbed},
	{models.SurfaceUpcoming, UpcomingEmbed},
	{models.SurfaceHistory, HistoryEmbed},
}

// ensureSurface creates the surface message if no reference is recorded
// yet and returns the stable reference. Idempotent by contract: a second
// call finds the recorded reference and creates nothing.
func (p *Presenter) ensureSurface(ctx context.Context, spec surfaceSpec) (string, error) {
	var ref string
	err := p.manager.Update(ctx, func(t *models.Tournament) error {
		if existing := t.Surfaces[spec.kind]; existing != "" {
			ref = existing
			return nil
		}
		created, err := p.client.SendEmbed(ctx, p.embedChannel, spec.build(t))
		if err != nil {
			return err
		}
		t.Surfaces[spec.kind] = created
		ref = created
		return nil
	})
	return ref, err
}

// RefreshPlayers re-renders the registration roster surface, creating it
// on first use.
func (p *Presenter) RefreshPlayers(ctx context.Context) {
	spec := surfaceSpec{models.SurfacePlayers, PlayersEmbed}
	ref, err := p.ensureSurface(ctx, spec)
	if err != nil {
		p.logger.Error("failed to ensure players surface", slog.Any("error", err))
		return
	}
	snap := p.manager.Snapshot()
	if err := p.client.EditEmbed(ctx, p.embedChannel, ref, PlayersEmbed(snap)); err != nil {
		p.logger.Error("failed to refresh players surface", slog.Any("error", err))
	}
}

// TearDownPlayers deletes the roster surface after the draw. Best-effort:
// a missing message is fine.
func (p *Presenter) TearDownPlayers(ctx context.Context) {
	err := p.manager.Update(ctx, func(t *models.Tournament) error {
		ref := t.Surfaces[models.SurfacePlayers]
		if ref == "" {
			return nil
		}
		if err := p.client.DeleteMessage(ctx, p.embedChannel, ref); err != nil {
			p.logger.Warn("failed to delete players surface", slog.Any("error", err))
		}
		delete(t.Surfaces, models.SurfacePlayers)
		return nil
	})
	if err != nil {
		p.logger.Error("failed to tear down players surface", slog.Any("error", err))
	}
}

// RefreshSummaries regenerates the teams, upcoming and history surfaces
// from the current state, creating any that are missing. The three
// refreshes are independent and idempotent, so they run concurrently.
func (p *Presenter) RefreshSummaries(ctx context.Context) {
	refs := make(map[models.SurfaceKind]string, len(summarySurfaces))
	for _, spec := range summarySurfaces {
		ref, err := p.ensureSurface(ctx, spec)
		if err != nil {
			p.logger.Error("failed to ensure summary surface",
				slog.String("surface", string(spec.kind)), slog.Any("error", err))
			continue
		}
		refs[spec.kind] = ref
	}

	snap := p.manager.Snapshot()

	g, gctx := errgroup.WithContext(ctx)
	for _, spec := range summarySurfaces {
		ref, ok := refs[spec.kind]
		if !ok {
			continue
		}
		spec := spec
		g.Go(func() error {
			return p.client.EditEmbed(gctx, p.embedChannel, ref, spec.build(snap))
		})
	}
	if err := g.Wait(); err != nil {
		p.logger.Error("failed to refresh summary surfaces", slog.Any("error", err))
	}
}

// RefreshMatchCard re-renders one match's card in place.
func (p *Presenter) RefreshMatchCard(ctx context.Context, matchID int) {
	snap := p.manager.Snapshot()
	m := snap.FindMatch(matchID)
	if m == nil || m.CardMessageID == "" {
		return
	}
	card := BuildMatchCard(snap, m)
	if err := p.client.EditMatchCard(ctx, m.ChannelID, m.CardMessageID, card); err != nil {
		p.logger.Error("failed to refresh match card",
			slog.Int("match_id", matchID), slog.Any("error", err))
	}
}

// RefreshAfterMatchMutation is the standard post-transition fan-out: the
// match's own card plus all three summary surfaces.
func (p *Presenter) RefreshAfterMatchMutation(ctx context.Context, matchID int) {
	p.RefreshMatchCard(ctx, matchID)
	p.RefreshSummaries(ctx)
}
