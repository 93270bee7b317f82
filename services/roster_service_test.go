package services

import (
	"context"
	"errors"
	"testing"

	"github.com/papycha/duocup/models"
)

func TestRegisterPlayer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.roster.RegisterPlayer(ctx, strangerActor, "p1"); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("RegisterPlayer(stranger) = %v, want ErrAccessDenied", err)
	}

	if err := env.roster.RegisterPlayer(ctx, orgaActor, "p1"); err != nil {
		t.Fatalf("RegisterPlayer: %v", err)
	}
	if err := env.roster.RegisterPlayer(ctx, adminActor, "p2"); err != nil {
		t.Fatalf("RegisterPlayer(admin role): %v", err)
	}
	if err := env.roster.RegisterPlayer(ctx, orgaActor, "p1"); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("duplicate RegisterPlayer = %v, want ErrAlreadyRegistered", err)
	}

	snap := env.manager.Snapshot()
	if len(snap.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(snap.Players))
	}
	if snap.Players[0].Class != nil {
		t.Fatal("a fresh player must have no class")
	}
}

func TestAssignClass(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.roster.RegisterPlayer(ctx, orgaActor, "p1"); err != nil {
		t.Fatalf("RegisterPlayer: %v", err)
	}

	if err := env.roster.AssignClass(ctx, orgaActor, "p1", "paladin"); !errors.Is(err, ErrInvalidClass) {
		t.Fatalf("AssignClass(unknown class) = %v, want ErrInvalidClass", err)
	}
	if err := env.roster.AssignClass(ctx, orgaActor, "ghost", "iop"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("AssignClass(unknown player) = %v, want ErrPlayerNotFound", err)
	}

	// Class names are normalized before validation.
	if err := env.roster.AssignClass(ctx, orgaActor, "p1", "  IOP "); err != nil {
		t.Fatalf("AssignClass: %v", err)
	}
	p := env.manager.Snapshot().FindPlayer("p1")
	if p.Class == nil || *p.Class != "iop" {
		t.Fatalf("class = %v, want iop", p.Class)
	}

	// Reassignment overwrites.
	if err := env.roster.AssignClass(ctx, orgaActor, "p1", "cra"); err != nil {
		t.Fatalf("AssignClass(reassign): %v", err)
	}
	if p := env.manager.Snapshot().FindPlayer("p1"); *p.Class != "cra" {
		t.Fatalf("class = %s, want cra", *p.Class)
	}
}

func TestRemovePlayer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if err := env.roster.RegisterPlayer(ctx, orgaActor, "p1"); err != nil {
		t.Fatalf("RegisterPlayer: %v", err)
	}
	if err := env.roster.RemovePlayer(ctx, orgaActor, "ghost"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("RemovePlayer(unknown) = %v, want ErrPlayerNotFound", err)
	}
	if err := env.roster.RemovePlayer(ctx, orgaActor, "p1"); err != nil {
		t.Fatalf("RemovePlayer: %v", err)
	}
	if len(env.manager.Snapshot().Players) != 0 {
		t.Fatal("expected empty roster after removal")
	}
}

func TestRemovePlayerAfterDraw(t *testing.T) {
	env := newTestEnv(t)
	env.setupRound(t, 4)

	err := env.roster.RemovePlayer(context.Background(), orgaActor, "p1")
	if !errors.Is(err, ErrRemoveAfterDraw) {
		t.Fatalf("RemovePlayer(after draw) = %v, want ErrRemoveAfterDraw", err)
	}
}

func TestReset(t *testing.T) {
	env := newTestEnv(t)
	env.setupRound(t, 4)
	ctx := context.Background()

	if err := env.roster.Reset(ctx, strangerActor); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("Reset(stranger) = %v, want ErrAccessDenied", err)
	}

	if err := env.roster.Reset(ctx, orgaActor); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	snap := env.manager.Snapshot()
	if snap.Phase != models.PhasePlayers {
		t.Fatalf("phase = %s, want %s", snap.Phase, models.PhasePlayers)
	}
	if len(snap.Players) != 0 || len(snap.Teams) != 0 || len(snap.Matches) != 0 {
		t.Fatalf("expected empty state, got %d players, %d teams, %d matches",
			len(snap.Players), len(snap.Teams), len(snap.Matches))
	}
	if snap.CurrentRound != 0 {
		t.Fatalf("current round = %d, want 0", snap.CurrentRound)
	}

	// Registration reopens after a reset.
	if err := env.roster.RegisterPlayer(ctx, orgaActor, "fresh"); err != nil {
		t.Fatalf("RegisterPlayer after reset: %v", err)
	}
}
