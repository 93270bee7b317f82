package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/papycha/duocup/brackets"
	"github.com/papycha/duocup/config"
	"github.com/papycha/duocup/models"
)

func TestDrawTeams(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		userID := fmt.Sprintf("p%d", i+1)
		if err := env.roster.RegisterPlayer(ctx, orgaActor, userID); err != nil {
			t.Fatalf("RegisterPlayer: %v", err)
		}
		if err := env.roster.AssignClass(ctx, orgaActor, userID, config.Classes[i]); err != nil {
			t.Fatalf("AssignClass: %v", err)
		}
	}

	if err := env.tournament.DrawTeams(ctx, strangerActor); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("DrawTeams(stranger) = %v, want ErrAccessDenied", err)
	}

	if err := env.tournament.DrawTeams(ctx, orgaActor); err != nil {
		t.Fatalf("DrawTeams: %v", err)
	}

	snap := env.manager.Snapshot()
	if snap.Phase != models.PhaseTeams {
		t.Fatalf("phase = %s, want %s", snap.Phase, models.PhaseTeams)
	}
	if len(snap.Teams) != 2 {
		t.Fatalf("expected 2 teams, got %d", len(snap.Teams))
	}
	for _, team := range snap.Teams {
		if *team.Players[0].Class == *team.Players[1].Class {
			t.Fatalf("team %d pairs two %s players", team.ID, *team.Players[0].Class)
		}
	}

	// The draw closes registration and cannot run twice.
	if err := env.roster.RegisterPlayer(ctx, orgaActor, "late"); !errors.Is(err, ErrRegistrationClosed) {
		t.Fatalf("RegisterPlayer after draw = %v, want ErrRegistrationClosed", err)
	}
	if err := env.tournament.DrawTeams(ctx, orgaActor); !errors.Is(err, ErrDrawAlreadyDone) {
		t.Fatalf("second DrawTeams = %v, want ErrDrawAlreadyDone", err)
	}
}

func TestDrawTeamsRejectsBadRoster(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Odd roster.
	for i := 0; i < 3; i++ {
		userID := fmt.Sprintf("p%d", i+1)
		if err := env.roster.RegisterPlayer(ctx, orgaActor, userID); err != nil {
			t.Fatalf("RegisterPlayer: %v", err)
		}
		if err := env.roster.AssignClass(ctx, orgaActor, userID, config.Classes[i]); err != nil {
			t.Fatalf("AssignClass: %v", err)
		}
	}
	if err := env.tournament.DrawTeams(ctx, orgaActor); !errors.Is(err, brackets.ErrOddRoster) {
		t.Fatalf("DrawTeams(odd roster) = %v, want ErrOddRoster", err)
	}

	// Even roster but one player without a class.
	if err := env.roster.RegisterPlayer(ctx, orgaActor, "p4"); err != nil {
		t.Fatalf("RegisterPlayer: %v", err)
	}
	if err := env.tournament.DrawTeams(ctx, orgaActor); !errors.Is(err, brackets.ErrMissingClass) {
		t.Fatalf("DrawTeams(missing class) = %v, want ErrMissingClass", err)
	}

	// Nothing was committed.
	snap := env.manager.Snapshot()
	if snap.Phase != models.PhasePlayers || len(snap.Teams) != 0 {
		t.Fatalf("failed draw mutated state: phase=%s teams=%d", snap.Phase, len(snap.Teams))
	}
}

func TestStartRoundCreatesMatchesAndChannels(t *testing.T) {
	env := newTestEnv(t)
	env.setupRound(t, 8)

	snap := env.manager.Snapshot()
	if snap.CurrentRound != 1 {
		t.Fatalf("current round = %d, want 1", snap.CurrentRound)
	}
	if len(snap.Matches) != 2 {
		t.Fatalf("expected 2 matches for 4 teams, got %d", len(snap.Matches))
	}
	if len(env.client.Channels) != 2 {
		t.Fatalf("expected 2 match channels, got %d", len(env.client.Channels))
	}

	for _, m := range snap.Matches {
		if m.Status != models.MatchStatusWaitingAvail {
			t.Fatalf("match %d status = %s, want %s", m.ID, m.Status, models.MatchStatusWaitingAvail)
		}
		if m.Date != "14/09" || m.Time != "21h30" {
			t.Fatalf("match %d schedule = %s %s", m.ID, m.Date, m.Time)
		}
		if m.ChannelID == "" {
			t.Fatalf("match %d has no channel", m.ID)
		}
		if m.CardMessageID == "" {
			t.Fatalf("match %d has no card reference", m.ID)
		}
	}

	// Each channel request names both rosters.
	for _, req := range env.client.Channels {
		if len(req.MemberIDs) != 4 {
			t.Fatalf("channel %q has %d members, want 4", req.Name, len(req.MemberIDs))
		}
	}
}

func TestStartRoundGating(t *testing.T) {
	env := newTestEnv(t)
	env.setupRound(t, 8)
	ctx := context.Background()

	// Round 1 still has open matches.
	err := env.tournament.StartRound(ctx, orgaActor, "21/09", "21h30")
	if !errors.Is(err, ErrRoundInProgress) {
		t.Fatalf("StartRound(round open) = %v, want ErrRoundInProgress", err)
	}

	// Close round 1.
	snap := env.manager.Snapshot()
	for _, m := range snap.Matches {
		env.validateMatch(t, m.ID)
		if err := env.match.SetWinner(ctx, orgaActor, m.ID, m.Team1ID); err != nil {
			t.Fatalf("SetWinner(match %d): %v", m.ID, err)
		}
	}

	if err := env.tournament.StartRound(ctx, orgaActor, "21/09", "21h30"); err != nil {
		t.Fatalf("StartRound(round 2): %v", err)
	}

	snap = env.manager.Snapshot()
	if snap.CurrentRound != 2 {
		t.Fatalf("current round = %d, want 2", snap.CurrentRound)
	}
	if len(snap.Matches) != 3 {
		t.Fatalf("expected 3 matches total, got %d", len(snap.Matches))
	}
	final := snap.FindMatch(3)
	if final == nil || final.Round != 2 {
		t.Fatalf("expected match 3 in round 2, got %+v", final)
	}
}

func TestStartRoundRejectsOddSurvivors(t *testing.T) {
	env := newTestEnv(t)
	env.setupRound(t, 4)
	ctx := context.Background()

	env.validateMatch(t, 1)
	m := env.manager.Snapshot().FindMatch(1)
	if err := env.match.SetWinner(ctx, orgaActor, 1, m.Team1ID); err != nil {
		t.Fatalf("SetWinner: %v", err)
	}

	// One surviving team cannot be paired.
	err := env.tournament.StartRound(ctx, orgaActor, "21/09", "21h30")
	if !errors.Is(err, brackets.ErrOddSurvivingTeams) {
		t.Fatalf("StartRound(1 survivor) = %v, want ErrOddSurvivingTeams", err)
	}
}

func TestStartRoundRequiresTeams(t *testing.T) {
	env := newTestEnv(t)
	err := env.tournament.StartRound(context.Background(), orgaActor, "14/09", "21h30")
	if !errors.Is(err, ErrNoTeams) {
		t.Fatalf("StartRound(no draw) = %v, want ErrNoTeams", err)
	}
}

func TestReschedule(t *testing.T) {
	env := newTestEnv(t)
	env.setupRound(t, 4)
	env.validateMatch(t, 1)
	ctx := context.Background()

	before := env.manager.Snapshot().FindMatch(1)
	oldCard := before.CardMessageID
	mapName := *before.MapName

	if err := env.tournament.Reschedule(ctx, strangerActor, 1, "15/09", "20h00"); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("Reschedule(stranger) = %v, want ErrAccessDenied", err)
	}

	if err := env.tournament.Reschedule(ctx, orgaActor, 1, "15/09", "20h00"); err != nil {
		t.Fatalf("Reschedule: %v", err)
	}

	m := env.manager.Snapshot().FindMatch(1)
	if m.Date != "15/09" || m.Time != "20h00" {
		t.Fatalf("schedule = %s %s, want 15/09 20h00", m.Date, m.Time)
	}
	if m.Status != models.MatchStatusWaitingAvail {
		t.Fatalf("status = %s, want %s", m.Status, models.MatchStatusWaitingAvail)
	}
	if len(m.Thumbs) != 0 {
		t.Fatalf("expected thumbs cleared, got %d", len(m.Thumbs))
	}
	if m.MapName == nil || *m.MapName != mapName {
		t.Fatal("reschedule must preserve the assigned map")
	}
	if m.CardMessageID == "" || m.CardMessageID == oldCard {
		t.Fatalf("expected a fresh card, got %q (old %q)", m.CardMessageID, oldCard)
	}

	found := false
	for _, del := range env.client.Deleted {
		if del == oldCard {
			found = true
		}
	}
	if !found {
		t.Fatal("expected the outdated card to be deleted")
	}

	// Terminal matches cannot be rescheduled.
	if err := env.match.SetWinner(ctx, orgaActor, 1, m.Team1ID); err != nil {
		t.Fatalf("SetWinner: %v", err)
	}
	if err := env.tournament.Reschedule(ctx, orgaActor, 1, "16/09", "20h00"); !errors.Is(err, ErrMatchTerminal) {
		t.Fatalf("Reschedule(DONE) = %v, want ErrMatchTerminal", err)
	}
}

func TestMatchIDByChannel(t *testing.T) {
	env := newTestEnv(t)
	env.setupRound(t, 4)

	m := env.manager.Snapshot().FindMatch(1)
	id, err := env.tournament.MatchIDByChannel(m.ChannelID)
	if err != nil {
		t.Fatalf("MatchIDByChannel: %v", err)
	}
	if id != 1 {
		t.Fatalf("id = %d, want 1", id)
	}

	if _, err := env.tournament.MatchIDByChannel("nope"); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("MatchIDByChannel(unknown) = %v, want ErrMatchNotFound", err)
	}

	// A finished match no longer binds its channel.
	env.validateMatch(t, 1)
	if err := env.match.SetWinner(context.Background(), orgaActor, 1, m.Team1ID); err != nil {
		t.Fatalf("SetWinner: %v", err)
	}
	if _, err := env.tournament.MatchIDByChannel(m.ChannelID); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("MatchIDByChannel(terminal) = %v, want ErrMatchNotFound", err)
	}
}
