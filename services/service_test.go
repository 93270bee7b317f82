package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/papycha/duocup/auth"
	"github.com/papycha/duocup/brackets"
	"github.com/papycha/duocup/chat"
	"github.com/papycha/duocup/config"
	"github.com/papycha/duocup/models"
	"github.com/papycha/duocup/presenter"
	"github.com/papycha/duocup/state"
)

// memStore keeps the snapshot in memory; tests only care that Save is
// called on every commit.
type memStore struct {
	mu    sync.Mutex
	saves int
}

func (s *memStore) Load(context.Context) (*models.Tournament, error) {
	return models.NewTournament(), nil
}

func (s *memStore) Save(context.Context, *models.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	return nil
}

func (s *memStore) Close() error { return nil }

type sentNotice struct {
	ChannelID string
	Text      string
}

// fakeClient records every outbound chat call and mints sequential refs.
type fakeClient struct {
	mu       sync.Mutex
	seq      int
	Notices  []sentNotice
	Cards    []chat.MatchCard
	Embeds   int
	Edits    int
	Deleted  []string
	Channels []chat.ChannelRequest
}

func (f *fakeClient) next(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeClient) SendEmbed(_ context.Context, _ string, _ chat.Embed) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Embeds++
	return f.next("msg"), nil
}

func (f *fakeClient) EditEmbed(_ context.Context, _, _ string, _ chat.Embed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Edits++
	return nil
}

func (f *fakeClient) DeleteMessage(_ context.Context, _, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, messageID)
	return nil
}

func (f *fakeClient) SendMatchCard(_ context.Context, _ string, card chat.MatchCard) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Cards = append(f.Cards, card)
	return f.next("card"), nil
}

func (f *fakeClient) EditMatchCard(_ context.Context, _, _ string, _ chat.MatchCard) error {
	return nil
}

func (f *fakeClient) AddReaction(_ context.Context, _, _, _ string) error { return nil }

func (f *fakeClient) CreateMatchChannel(_ context.Context, req chat.ChannelRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Channels = append(f.Channels, req)
	return f.next("chan"), nil
}

func (f *fakeClient) SendNotice(_ context.Context, channelID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Notices = append(f.Notices, sentNotice{ChannelID: channelID, Text: text})
	return nil
}

func (f *fakeClient) noticeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Notices)
}

type testEnv struct {
	cfg        *config.Config
	manager    *state.Manager
	client     *fakeClient
	roster     RosterService
	tournament TournamentService
	match      MatchService
}

var (
	orgaActor     = auth.Actor{UserID: "orga"}
	adminActor    = auth.Actor{UserID: "someone", RoleIDs: []string{"admin-role"}}
	strangerActor = auth.Actor{UserID: "stranger"}
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		OrgaUserIDs:    []string{"orga"},
		AdminRoleID:    "admin-role",
		EmbedChannelID: "embed-chan",
		Location:       time.UTC,
	}

	manager, err := state.NewManager(context.Background(), &memStore{})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	client := &fakeClient{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pres := presenter.New(client, manager, cfg.EmbedChannelID, logger)
	generator := brackets.NewRandomDuoGenerator(rand.New(rand.NewSource(1)))
	rng := rand.New(rand.NewSource(1))

	return &testEnv{
		cfg:        cfg,
		manager:    manager,
		client:     client,
		roster:     NewRosterService(cfg, manager, client, pres, logger),
		tournament: NewTournamentService(cfg, manager, client, pres, generator, logger),
		match:      NewMatchService(cfg, manager, client, pres, nil, rng, logger),
	}
}

// setupRound registers n players with distinct classes, draws teams and
// starts round 1.
func (e *testEnv) setupRound(t *testing.T, n int) {
	t.Helper()
	ctx := context.Background()

	for i := 0; i < n; i++ {
		userID := fmt.Sprintf("p%d", i+1)
		if err := e.roster.RegisterPlayer(ctx, orgaActor, userID); err != nil {
			t.Fatalf("RegisterPlayer(%s): %v", userID, err)
		}
		if err := e.roster.AssignClass(ctx, orgaActor, userID, config.Classes[i%len(config.Classes)]); err != nil {
			t.Fatalf("AssignClass(%s): %v", userID, err)
		}
	}
	if err := e.tournament.DrawTeams(ctx, orgaActor); err != nil {
		t.Fatalf("DrawTeams: %v", err)
	}
	if err := e.tournament.StartRound(ctx, orgaActor, "14/09", "21h30"); err != nil {
		t.Fatalf("StartRound: %v", err)
	}
}

// confirmAll confirms availability for all four participants of a match.
func (e *testEnv) confirmAll(t *testing.T, matchID int) {
	t.Helper()
	snap := e.manager.Snapshot()
	m := snap.FindMatch(matchID)
	if m == nil {
		t.Fatalf("match %d not found", matchID)
	}
	for _, id := range snap.MatchParticipantIDs(m) {
		if err := e.match.ConfirmAvailability(context.Background(), auth.Actor{UserID: id}, matchID); err != nil {
			t.Fatalf("ConfirmAvailability(%s): %v", id, err)
		}
	}
}

// validateMatch drives a fresh match to VALIDATED.
func (e *testEnv) validateMatch(t *testing.T, matchID int) {
	t.Helper()
	e.confirmAll(t, matchID)
	if err := e.match.Validate(context.Background(), orgaActor, matchID); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func (e *testEnv) matchStatus(t *testing.T, matchID int) models.MatchStatus {
	t.Helper()
	m := e.manager.Snapshot().FindMatch(matchID)
	if m == nil {
		t.Fatalf("match %d not found", matchID)
	}
	return m.Status
}
