package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/papycha/duocup/auth"
	"github.com/papycha/duocup/chat"
	"github.com/papycha/duocup/config"
	"github.com/papycha/duocup/models"
	"github.com/papycha/duocup/presenter"
	"github.com/papycha/duocup/state"
	"github.com/papycha/duocup/storage"
)

// MatchService owns the per-match status transitions. All preconditions
// are checked and all state mutated inside a single store commit; the
// notices and card refreshes that follow are best-effort.
type MatchService interface {
	ConfirmAvailability(ctx context.Context, actor auth.Actor, matchID int) error
	DeclareUnavailable(ctx context.Context, actor auth.Actor, matchID int) error
	Validate(ctx context.Context, actor auth.Actor, matchID int) error
	ReportResult(ctx context.Context, channelID, authorID string, isBot bool, contentType string, image io.Reader) error
	SetWinner(ctx context.Context, actor auth.Actor, matchID, winnerTeamID int) error
	Forfeit(ctx context.Context, actor auth.Actor, matchID, forfeitTeamID int) error
}

type matchService struct {
	cfg       *config.Config
	manager   *state.Manager
	client    chat.Client
	presenter *presenter.Presenter
	uploader  storage.FileUploader // nil when the archive is not configured
	rng       *rand.Rand
	logger    *slog.Logger
}

func NewMatchService(
	cfg *config.Config,
	manager *state.Manager,
	client chat.Client,
	p *presenter.Presenter,
	uploader storage.FileUploader,
	rng *rand.Rand,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		cfg:       cfg,
		manager:   manager,
		client:    client,
		presenter: p,
		uploader:  uploader,
		rng:       rng,
		logger:    logger,
	}
}

func (s *matchService) isOrga(actor auth.Actor) bool {
	return auth.IsOrgaOrAdmin(actor, s.cfg.OrgaUserIDs, s.cfg.AdminRoleID)
}

func (s *matchService) orgaMentions() string {
	return presenter.Mentions(s.cfg.OrgaUserIDs)
}

func (s *matchService) ConfirmAvailability(ctx context.Context, actor auth.Actor, matchID int) error {
	var (
		transitioned bool
		channelID    string
	)
	err := s.manager.Update(ctx, func(t *models.Tournament) error {
		m := t.FindMatch(matchID)
		if m == nil {
			return ErrMatchNotFound
		}
		if m.IsTerminal() {
			return ErrMatchTerminal
		}
		if !t.IsMatchParticipant(m, actor.UserID) {
			return ErrNotParticipant
		}

		// Idempotent per participant: a repeated confirmation changes
		// nothing and succeeds.
		m.AddThumb(actor.UserID)

		// The transition fires only on the 4th distinct confirmation and
		// only from WAITING_AVAIL; later confirmations never re-trigger it.
		if len(m.Thumbs) == 4 && m.Status == models.MatchStatusWaitingAvail {
			m.Status = models.MatchStatusNeedValidate
			transitioned = true
			channelID = m.ChannelID
		}
		return nil
	})
	if err != nil {
		return err
	}

	if transitioned {
		notice := fmt.Sprintf("%s Les 4 joueurs sont disponibles.\n🔔 %s merci de valider le match.",
			config.EmojiThumbs, s.orgaMentions())
		if err := s.client.SendNotice(ctx, channelID, notice); err != nil {
			s.logger.Warn("failed to notify organizers", slog.Int("match_id", matchID), slog.Any("error", err))
		}
	}

	s.presenter.RefreshAfterMatchMutation(ctx, matchID)
	return nil
}

func (s *matchService) DeclareUnavailable(ctx context.Context, actor auth.Actor, matchID int) error {
	var channelID string
	err := s.manager.Update(ctx, func(t *models.Tournament) error {
		m := t.FindMatch(matchID)
		if m == nil {
			return ErrMatchNotFound
		}
		if m.IsTerminal() {
			return ErrMatchTerminal
		}
		if !t.IsMatchParticipant(m, actor.UserID) {
			return ErrNotParticipant
		}
		m.ClearThumbs()
		m.Status = models.MatchStatusWaitingAvail
		channelID = m.ChannelID
		return nil
	})
	if err != nil {
		return err
	}

	notice := fmt.Sprintf("%s **INDISPONIBLE**\n\n%s n’est pas disponible.\n\n👉 Indique tes dispos alternatives.\n\n🔔 %s",
		config.EmojiUnavailable, presenter.Mention(actor.UserID), s.orgaMentions())
	if err := s.client.SendNotice(ctx, channelID, notice); err != nil {
		s.logger.Warn("failed to send unavailability notice", slog.Int("match_id", matchID), slog.Any("error", err))
	}

	s.presenter.RefreshAfterMatchMutation(ctx, matchID)
	return nil
}

// Validate moves a fully confirmed match to VALIDATED, drawing the map on
// first validation. Only NEED_ORGA_VALIDATE is accepted as source status.
func (s *matchService) Validate(ctx context.Context, actor auth.Actor, matchID int) error {
	if !s.isOrga(actor) {
		return ErrAccessDenied
	}

	var (
		channelID  string
		mentions   string
		date, hour string
		mapName    string
		mapImage   string
	)
	err := s.manager.Update(ctx, func(t *models.Tournament) error {
		m := t.FindMatch(matchID)
		if m == nil {
			return ErrMatchNotFound
		}
		if m.Status != models.MatchStatusNeedValidate {
			return ErrInvalidMatchStatus
		}

		if m.MapName == nil {
			picked := config.Maps[s.rng.Intn(len(config.Maps))]
			m.MapName = &picked.Name
			m.MapImage = &picked.Image
		}
		m.Status = models.MatchStatusValidated

		channelID = m.ChannelID
		mentions = presenter.Mentions(t.MatchParticipantIDs(m))
		date, hour = m.Date, m.Time
		mapName = *m.MapName
		if m.MapImage != nil {
			mapImage = *m.MapImage
		}
		return nil
	})
	if err != nil {
		return err
	}

	notice := fmt.Sprintf("%s\n\n%s **MATCH VALIDÉ**\n📅 %s à %s\n🗺️ **Map officielle : %s**\n\n📸 **Merci d’envoyer le screen du résultat ici.**",
		mentions, config.EmojiValidate, date, hour, mapName)
	if err := s.client.SendNotice(ctx, channelID, notice); err != nil {
		s.logger.Warn("failed to send validation announcement", slog.Int("match_id", matchID), slog.Any("error", err))
	}
	if mapImage != "" {
		if err := s.client.SendNotice(ctx, channelID, mapImage); err != nil {
			s.logger.Warn("failed to send map image", slog.Int("match_id", matchID), slog.Any("error", err))
		}
	}

	s.presenter.RefreshAfterMatchMutation(ctx, matchID)
	return nil
}

// ReportResult reacts to a screenshot posted in a match channel: it
// archives the image when the archive is configured and prompts the
// organizers to pick the winner. The match state is not changed.
func (s *matchService) ReportResult(ctx context.Context, channelID, authorID string, isBot bool, contentType string, image io.Reader) error {
	if isBot {
		return ErrBotAuthor
	}

	var matchID int
	var validated bool
	s.manager.View(func(t *models.Tournament) {
		if m := t.FindMatchByChannel(channelID); m != nil {
			matchID = m.ID
			validated = m.Status == models.MatchStatusValidated
		}
	})
	if matchID == 0 {
		return ErrMatchNotFound
	}
	if !validated {
		return ErrInvalidMatchStatus
	}

	if s.uploader != nil && image != nil {
		key := fmt.Sprintf("results/match-%d-%d", matchID, time.Now().Unix())
		res, err := s.uploader.Upload(ctx, key, contentType, image)
		if err != nil {
			// The archive is auxiliary; the winner prompt still goes out.
			s.logger.Warn("failed to archive result screenshot",
				slog.Int("match_id", matchID), slog.Any("error", err))
		} else {
			err = s.manager.Update(ctx, func(t *models.Tournament) error {
				if m := t.FindMatch(matchID); m != nil {
					m.ResultImageKey = &res.Key
				}
				return nil
			})
			if err != nil {
				s.logger.Error("failed to record screenshot key",
					slog.Int("match_id", matchID), slog.Any("error", err))
			}
		}
	}

	snap := s.manager.Snapshot()
	m := snap.FindMatch(matchID)
	if m == nil {
		return ErrMatchNotFound
	}
	prompt := chat.MatchCard{
		MatchID: matchID,
		Embed: chat.Embed{
			Title:       "Résultat reçu",
			Description: fmt.Sprintf("Screen envoyé par %s. Orga : quelle équipe a gagné ?", presenter.Mention(authorID)),
		},
		Actions: []chat.ActionKind{chat.ActionSelectWinnerTeam},
	}
	if _, err := s.client.SendMatchCard(ctx, channelID, prompt); err != nil {
		s.logger.Warn("failed to send winner prompt", slog.Int("match_id", matchID), slog.Any("error", err))
	}
	return nil
}

// resolveMatchOutcome applies the shared winner/elimination commit for
// SetWinner and Forfeit. winnerID must be one of the match's two teams.
func (s *matchService) resolveMatchOutcome(ctx context.Context, matchID, winnerID int) (channelID string, err error) {
	err = s.manager.Update(ctx, func(t *models.Tournament) error {
		m := t.FindMatch(matchID)
		if m == nil {
			return ErrMatchNotFound
		}
		if m.Status != models.MatchStatusValidated {
			return ErrInvalidMatchStatus
		}
		if winnerID != m.Team1ID && winnerID != m.Team2ID {
			return ErrWinnerNotInMatch
		}

		loserID := m.Team1ID
		if loserID == winnerID {
			loserID = m.Team2ID
		}
		loser := t.FindTeam(loserID)
		if loser == nil {
			return ErrMatchNotFound
		}

		// Winner, terminal status and elimination commit atomically.
		w := winnerID
		m.WinnerTeamID = &w
		m.Status = models.MatchStatusDone
		loser.Eliminated = true
		round := m.Round
		loser.EliminatedRound = &round

		channelID = m.ChannelID
		return nil
	})
	return channelID, err
}

func (s *matchService) SetWinner(ctx context.Context, actor auth.Actor, matchID, winnerTeamID int) error {
	if !s.isOrga(actor) {
		return ErrAccessDenied
	}

	channelID, err := s.resolveMatchOutcome(ctx, matchID, winnerTeamID)
	if err != nil {
		return err
	}

	notice := fmt.Sprintf("%s **EQUIPE %d remporte le match !**", config.EmojiVictory, winnerTeamID)
	if err := s.client.SendNotice(ctx, channelID, notice); err != nil {
		s.logger.Warn("failed to announce winner", slog.Int("match_id", matchID), slog.Any("error", err))
	}

	s.presenter.RefreshAfterMatchMutation(ctx, matchID)
	return nil
}

func (s *matchService) Forfeit(ctx context.Context, actor auth.Actor, matchID, forfeitTeamID int) error {
	if !s.isOrga(actor) {
		return ErrAccessDenied
	}

	// The forfeiting team loses; the opponent is the winner.
	var (
		winnerID int
		found    bool
	)
	s.manager.View(func(t *models.Tournament) {
		m := t.FindMatch(matchID)
		if m == nil {
			return
		}
		found = true
		switch forfeitTeamID {
		case m.Team1ID:
			winnerID = m.Team2ID
		case m.Team2ID:
			winnerID = m.Team1ID
		}
	})
	if !found {
		return ErrMatchNotFound
	}
	if winnerID == 0 {
		return ErrWinnerNotInMatch
	}

	channelID, err := s.resolveMatchOutcome(ctx, matchID, winnerID)
	if err != nil {
		return err
	}

	notice := fmt.Sprintf("%s Forfait enregistré. **EQUIPE %d gagne.**", config.EmojiForfeit, winnerID)
	if err := s.client.SendNotice(ctx, channelID, notice); err != nil {
		s.logger.Warn("failed to announce forfeit", slog.Int("match_id", matchID), slog.Any("error", err))
	}

	s.presenter.RefreshAfterMatchMutation(ctx, matchID)
	return nil
}
