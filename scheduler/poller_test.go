package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/papycha/duocup/chat"
	"github.com/papycha/duocup/models"
	"github.com/papycha/duocup/state"
)

type memStore struct{}

func (memStore) Load(context.Context) (*models.Tournament, error) {
	return models.NewTournament(), nil
}
func (memStore) Save(context.Context, *models.Tournament) error { return nil }
func (memStore) Close() error                                   { return nil }

type noticeRecorder struct {
	mu      sync.Mutex
	notices []string
}

func (r *noticeRecorder) SendNotice(_ context.Context, _, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, text)
	return nil
}

func (r *noticeRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}

func (r *noticeRecorder) SendEmbed(context.Context, string, chat.Embed) (string, error) {
	return "", nil
}
func (r *noticeRecorder) EditEmbed(context.Context, string, string, chat.Embed) error { return nil }
func (r *noticeRecorder) DeleteMessage(context.Context, string, string) error         { return nil }
func (r *noticeRecorder) SendMatchCard(context.Context, string, chat.MatchCard) (string, error) {
	return "", nil
}
func (r *noticeRecorder) EditMatchCard(context.Context, string, string, chat.MatchCard) error {
	return nil
}
func (r *noticeRecorder) AddReaction(context.Context, string, string, string) error { return nil }
func (r *noticeRecorder) CreateMatchChannel(context.Context, chat.ChannelRequest) (string, error) {
	return "", nil
}

func class(s string) *string { return &s }

// newPollerEnv builds a manager holding one match and a poller whose clock
// is pinned to now.
func newPollerEnv(t *testing.T, status models.MatchStatus, date, timeStr string, now time.Time) (*Poller, *noticeRecorder, *state.Manager) {
	t.Helper()

	manager, err := state.NewManager(context.Background(), memStore{})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	err = manager.Update(context.Background(), func(tr *models.Tournament) error {
		tr.Phase = models.PhaseTeams
		tr.Teams = []*models.Team{
			{ID: 1, Players: [2]models.Player{{UserID: "p1", Class: class("iop")}, {UserID: "p2", Class: class("cra")}}},
			{ID: 2, Players: [2]models.Player{{UserID: "p3", Class: class("eniripsa")}, {UserID: "p4", Class: class("sram")}}},
		}
		tr.CurrentRound = 1
		tr.Matches = []*models.Match{{
			ID:        1,
			Round:     1,
			Team1ID:   1,
			Team2ID:   2,
			Date:      date,
			Time:      timeStr,
			Status:    status,
			Thumbs:    []string{},
			ChannelID: "chan-1",
		}}
		return nil
	})
	if err != nil {
		t.Fatalf("seeding state: %v", err)
	}

	recorder := &noticeRecorder{}
	poller := NewPoller(PollerConfig{
		Manager:  manager,
		Client:   recorder,
		Location: time.UTC,
		Interval: time.Minute,
		Now:      func() time.Time { return now },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return poller, recorder, manager
}

func TestReminderFiresOnceInsideBand(t *testing.T) {
	// 21:30:30 before a 22h00 start: 29m30s out, inside the band.
	now := time.Date(2026, 9, 14, 21, 30, 30, 0, time.UTC)
	poller, recorder, _ := newPollerEnv(t, models.MatchStatusValidated, "14/09/2026", "22h00", now)

	poller.Poll(context.Background())
	if recorder.count() != 1 {
		t.Fatalf("expected 1 reminder, got %d", recorder.count())
	}

	// The same schedule never reminds twice.
	poller.Poll(context.Background())
	poller.Poll(context.Background())
	if recorder.count() != 1 {
		t.Fatalf("expected the reminder to fire once, got %d", recorder.count())
	}
}

func TestReminderSkipsOutsideBand(t *testing.T) {
	for _, tc := range []struct {
		name string
		now  time.Time
	}{
		{"too early", time.Date(2026, 9, 14, 21, 0, 0, 0, time.UTC)},   // 60m out
		{"too late", time.Date(2026, 9, 14, 21, 45, 0, 0, time.UTC)},   // 15m out
		{"already started", time.Date(2026, 9, 14, 22, 5, 0, 0, time.UTC)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			poller, recorder, _ := newPollerEnv(t, models.MatchStatusValidated, "14/09/2026", "22h00", tc.now)
			poller.Poll(context.Background())
			if recorder.count() != 0 {
				t.Fatalf("expected no reminder, got %d", recorder.count())
			}
		})
	}
}

func TestReminderOnlyForValidatedMatches(t *testing.T) {
	now := time.Date(2026, 9, 14, 21, 30, 30, 0, time.UTC)
	for _, status := range []models.MatchStatus{
		models.MatchStatusWaitingAvail,
		models.MatchStatusNeedValidate,
		models.MatchStatusDone,
	} {
		poller, recorder, _ := newPollerEnv(t, status, "14/09/2026", "22h00", now)
		poller.Poll(context.Background())
		if recorder.count() != 0 {
			t.Fatalf("status %s: expected no reminder, got %d", status, recorder.count())
		}
	}
}

func TestReminderIgnoresUnparsableSchedule(t *testing.T) {
	now := time.Date(2026, 9, 14, 21, 30, 30, 0, time.UTC)
	poller, recorder, _ := newPollerEnv(t, models.MatchStatusValidated, "ce soir", "tard", now)

	poller.Poll(context.Background())
	if recorder.count() != 0 {
		t.Fatalf("expected no reminder for a free-form schedule, got %d", recorder.count())
	}
}

func TestReminderRearmsAfterReschedule(t *testing.T) {
	now := time.Date(2026, 9, 14, 21, 30, 30, 0, time.UTC)
	poller, recorder, manager := newPollerEnv(t, models.MatchStatusValidated, "14/09/2026", "22h00", now)

	poller.Poll(context.Background())
	if recorder.count() != 1 {
		t.Fatalf("expected 1 reminder, got %d", recorder.count())
	}

	// Moving the match changes the dedup key; the new slot reminds again
	// once the clock reaches its band.
	err := manager.Update(context.Background(), func(tr *models.Tournament) error {
		m := tr.FindMatch(1)
		m.Time = "23h00"
		return nil
	})
	if err != nil {
		t.Fatalf("rescheduling: %v", err)
	}

	poller.Poll(context.Background()) // 89m30s out, outside the band
	if recorder.count() != 1 {
		t.Fatalf("expected no early reminder, got %d", recorder.count())
	}

	poller.now = func() time.Time { return time.Date(2026, 9, 14, 22, 30, 30, 0, time.UTC) }
	poller.Poll(context.Background())
	if recorder.count() != 2 {
		t.Fatalf("expected a second reminder after reschedule, got %d", recorder.count())
	}
}
