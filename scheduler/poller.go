// Package scheduler watches validated matches and pings their channel
// shortly before the scheduled time. It only reads state and emits
// notices; it never mutates a match.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/papycha/duocup/chat"
	"github.com/papycha/duocup/models"
	"github.com/papycha/duocup/presenter"
	"github.com/papycha/duocup/state"
)

const (
	// The reminder fires when the match starts in [reminderMin, reminderMax].
	// The band is as wide as the poll interval so a match is neither missed
	// nor reminded twice across poll boundaries.
	reminderMin = 29 * time.Minute
	reminderMax = 30 * time.Minute
)

type Poller struct {
	manager  *state.Manager
	client   chat.Client
	loc      *time.Location
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger

	// fired dedupes reminders per match and schedule; rescheduling a match
	// changes the key and re-arms the reminder.
	fired map[string]bool
}

type PollerConfig struct {
	Manager  *state.Manager
	Client   chat.Client
	Location *time.Location
	Interval time.Duration
	Now      func() time.Time
	Logger   *slog.Logger
}

func NewPoller(cfg PollerConfig) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Poller{
		manager:  cfg.Manager,
		client:   cfg.Client,
		loc:      cfg.Location,
		interval: interval,
		now:      now,
		logger:   cfg.Logger,
		fired:    make(map[string]bool),
	}
}

// Run polls until the context is cancelled. The first check happens
// immediately, then on every tick.
func (p *Poller) Run(ctx context.Context) error {
	p.Poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll performs one pass over the active matches. A failure on one match
// never stops the others.
func (p *Poller) Poll(ctx context.Context) {
	snap := p.manager.Snapshot()
	now := p.now()

	for _, m := range snap.Matches {
		if err := p.checkMatch(ctx, snap, m, now); err != nil {
			p.logger.Warn("reminder check failed",
				slog.Int("match_id", m.ID), slog.Any("error", err))
		}
	}
}

func (p *Poller) checkMatch(ctx context.Context, snap *models.Tournament, m *models.Match, now time.Time) error {
	if m.Status != models.MatchStatusValidated {
		return nil
	}

	start, err := m.ScheduledAt(now, p.loc)
	if err != nil {
		// Free-form schedules are allowed to be unparsable; no reminder,
		// no error.
		if errors.Is(err, models.ErrUnparsableSchedule) {
			return nil
		}
		return err
	}

	until := start.Sub(now)
	if until < reminderMin || until > reminderMax {
		return nil
	}

	key := fmt.Sprintf("%d|%s|%s", m.ID, m.Date, m.Time)
	if p.fired[key] {
		return nil
	}

	notice := fmt.Sprintf("%s\n\n⏰ **Rappel : match dans 30 minutes**\n📸 Pensez au screen du résultat.",
		presenter.Mentions(snap.MatchParticipantIDs(m)))
	if err := p.client.SendNotice(ctx, m.ChannelID, notice); err != nil {
		return fmt.Errorf("sending reminder: %w", err)
	}

	p.fired[key] = true
	return nil
}
