package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papycha/duocup/auth"
	"github.com/papycha/duocup/brackets"
	"github.com/papycha/duocup/chat"
	"github.com/papycha/duocup/config"
	"github.com/papycha/duocup/models"
	"github.com/papycha/duocup/presenter"
	"github.com/papycha/duocup/state"
)

type TournamentService interface {
	// DrawTeams replaces the roster with freshly paired teams and opens
	// the elimination phase.
	DrawTeams(ctx context.Context, actor auth.Actor) error

	// StartRound pairs the surviving teams and creates one match and one
	// isolated channel per pair, all scheduled at the given date/time.
	StartRound(ctx context.Context, actor auth.Actor, date, timeStr string) error

	// Reschedule overwrites a match's schedule and resets it to
	// WAITING_AVAIL. The assigned map, if any, is preserved.
	Reschedule(ctx context.Context, actor auth.Actor, matchID int, date, timeStr string) error

	// MatchIDByChannel resolves the non-terminal match bound to a channel,
	// for channel-scoped commands.
	MatchIDByChannel(channelID string) (int, error)
}

type tournamentService struct {
	cfg       *config.Config
	manager   *state.Manager
	client    chat.Client
	presenter *presenter.Presenter
	generator brackets.PairingGenerator
	logger    *slog.Logger
}

func NewTournamentService(
	cfg *config.Config,
	manager *state.Manager,
	client chat.Client,
	p *presenter.Presenter,
	generator brackets.PairingGenerator,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		cfg:       cfg,
		manager:   manager,
		client:    client,
		presenter: p,
		generator: generator,
		logger:    logger,
	}
}

func (s *tournamentService) requireOrga(actor auth.Actor) error {
	if !auth.IsOrgaOrAdmin(actor, s.cfg.OrgaUserIDs, s.cfg.AdminRoleID) {
		return ErrAccessDenied
	}
	return nil
}

func (s *tournamentService) DrawTeams(ctx context.Context, actor auth.Actor) error {
	if err := s.requireOrga(actor); err != nil {
		return err
	}

	err := s.manager.Update(ctx, func(t *models.Tournament) error {
		if t.Phase != models.PhasePlayers {
			return ErrDrawAlreadyDone
		}
		teams, err := s.generator.GenerateTeams(t.Players)
		if err != nil {
			return err
		}
		t.Teams = teams
		t.Phase = models.PhaseTeams
		return nil
	})
	if err != nil {
		return err
	}

	// The draw is committed; from here on everything is presentation.
	s.presenter.TearDownPlayers(ctx)
	s.presenter.RefreshSummaries(ctx)
	return nil
}

func (s *tournamentService) StartRound(ctx context.Context, actor auth.Actor, date, timeStr string) error {
	if err := s.requireOrga(actor); err != nil {
		return err
	}

	var created []int
	err := s.manager.Update(ctx, func(t *models.Tournament) error {
		if t.Phase != models.PhaseTeams {
			return ErrNoTeams
		}
		alive := t.AliveTeams()
		if t.CurrentRound > 0 && !t.RoundFinished(t.CurrentRound) {
			return ErrRoundInProgress
		}

		pairs, err := s.generator.PairRound(alive)
		if err != nil {
			return err
		}

		// Build the full batch before mutating anything so that a channel
		// failure leaves the store untouched.
		round := t.CurrentRound + 1
		newMatches := make([]*models.Match, 0, len(pairs))
		for i, pair := range pairs {
			channelID, err := s.client.CreateMatchChannel(ctx, chat.ChannelRequest{
				Name:        fmt.Sprintf(config.MatchChannelTemplate, pair.Team1.ID, pair.Team2.ID),
				CategoryID:  s.cfg.MatchCategoryID,
				MemberIDs:   append(pair.Team1.PlayerIDs(), pair.Team2.PlayerIDs()...),
				OrgaIDs:     s.cfg.OrgaUserIDs,
				AdminRoleID: s.cfg.AdminRoleID,
			})
			if err != nil {
				return fmt.Errorf("creating match channel: %w", err)
			}
			newMatches = append(newMatches, &models.Match{
				ID:        len(t.Matches) + i + 1,
				Round:     round,
				Team1ID:   pair.Team1.ID,
				Team2ID:   pair.Team2.ID,
				Date:      date,
				Time:      timeStr,
				Status:    models.MatchStatusWaitingAvail,
				Thumbs:    []string{},
				ChannelID: channelID,
			})
		}

		t.CurrentRound = round
		t.Matches = append(t.Matches, newMatches...)
		for _, m := range newMatches {
			created = append(created, m.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, id := range created {
		s.postMatchCard(ctx, id, true)
	}
	s.presenter.RefreshSummaries(ctx)
	return nil
}

// postMatchCard sends the greeting plus a fresh card for a match and
// records the card reference. Failures are logged; the match itself is
// already committed.
func (s *tournamentService) postMatchCard(ctx context.Context, matchID int, greet bool) {
	snap := s.manager.Snapshot()
	m := snap.FindMatch(matchID)
	if m == nil {
		return
	}

	if greet {
		mentions := presenter.Mentions(snap.MatchParticipantIDs(m))
		if err := s.client.SendNotice(ctx, m.ChannelID, mentions); err != nil {
			s.logger.Warn("failed to greet match channel",
				slog.Int("match_id", matchID), slog.Any("error", err))
		}
	}

	cardRef, err := s.client.SendMatchCard(ctx, m.ChannelID, presenter.BuildMatchCard(snap, m))
	if err != nil {
		s.logger.Error("failed to post match card",
			slog.Int("match_id", matchID), slog.Any("error", err))
		return
	}
	if err := s.client.AddReaction(ctx, m.ChannelID, cardRef, config.EmojiThumbs); err != nil {
		s.logger.Warn("failed to seed thumbs reaction",
			slog.Int("match_id", matchID), slog.Any("error", err))
	}

	err = s.manager.Update(ctx, func(t *models.Tournament) error {
		if live := t.FindMatch(matchID); live != nil {
			live.CardMessageID = cardRef
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to record match card reference",
			slog.Int("match_id", matchID), slog.Any("error", err))
	}
}

func (s *tournamentService) Reschedule(ctx context.Context, actor auth.Actor, matchID int, date, timeStr string) error {
	if err := s.requireOrga(actor); err != nil {
		return err
	}

	var oldCard, channelID string
	err := s.manager.Update(ctx, func(t *models.Tournament) error {
		m := t.FindMatch(matchID)
		if m == nil {
			return ErrMatchNotFound
		}
		if m.IsTerminal() {
			return ErrMatchTerminal
		}
		m.Date = date
		m.Time = timeStr
		m.ClearThumbs()
		m.Status = models.MatchStatusWaitingAvail
		oldCard = m.CardMessageID
		m.CardMessageID = ""
		channelID = m.ChannelID
		return nil
	})
	if err != nil {
		return err
	}

	if oldCard != "" {
		if err := s.client.DeleteMessage(ctx, channelID, oldCard); err != nil {
			s.logger.Warn("failed to delete outdated match card",
				slog.Int("match_id", matchID), slog.Any("error", err))
		}
	}
	s.postMatchCard(ctx, matchID, false)
	s.presenter.RefreshSummaries(ctx)
	return nil
}

func (s *tournamentService) MatchIDByChannel(channelID string) (int, error) {
	id := 0
	s.manager.View(func(t *models.Tournament) {
		if m := t.FindMatchByChannel(channelID); m != nil {
			id = m.ID
		}
	})
	if id == 0 {
		return 0, ErrMatchNotFound
	}
	return id, nil
}
