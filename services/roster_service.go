package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/papycha/duocup/auth"
	"github.com/papycha/duocup/chat"
	"github.com/papycha/duocup/config"
	"github.com/papycha/duocup/models"
	"github.com/papycha/duocup/presenter"
	"github.com/papycha/duocup/state"
)

type RosterService interface {
	RegisterPlayer(ctx context.Context, actor auth.Actor, userID string) error
	AssignClass(ctx context.Context, actor auth.Actor, userID, className string) error
	RemovePlayer(ctx context.Context, actor auth.Actor, userID string) error
	Reset(ctx context.Context, actor auth.Actor) error
}

type rosterService struct {
	cfg       *config.Config
	manager   *state.Manager
	client    chat.Client
	presenter *presenter.Presenter
	logger    *slog.Logger
}

func NewRosterService(
	cfg *config.Config,
	manager *state.Manager,
	client chat.Client,
	p *presenter.Presenter,
	logger *slog.Logger,
) RosterService {
	return &rosterService{
		cfg:       cfg,
		manager:   manager,
		client:    client,
		presenter: p,
		logger:    logger,
	}
}

func (s *rosterService) requireOrga(actor auth.Actor) error {
	if !auth.IsOrgaOrAdmin(actor, s.cfg.OrgaUserIDs, s.cfg.AdminRoleID) {
		return ErrAccessDenied
	}
	return nil
}

func (s *rosterService) RegisterPlayer(ctx context.Context, actor auth.Actor, userID string) error {
	if err := s.requireOrga(actor); err != nil {
		return err
	}

	err := s.manager.Update(ctx, func(t *models.Tournament) error {
		if t.Phase != models.PhasePlayers {
			return ErrRegistrationClosed
		}
		if t.FindPlayer(userID) != nil {
			return ErrAlreadyRegistered
		}
		t.Players = append(t.Players, &models.Player{UserID: userID})
		return nil
	})
	if err != nil {
		return err
	}

	s.presenter.RefreshPlayers(ctx)
	return nil
}

func (s *rosterService) AssignClass(ctx context.Context, actor auth.Actor, userID, className string) error {
	if err := s.requireOrga(actor); err != nil {
		return err
	}

	className = strings.ToLower(strings.TrimSpace(className))
	if !config.IsValidClass(className) {
		return ErrInvalidClass
	}

	err := s.manager.Update(ctx, func(t *models.Tournament) error {
		if t.Phase != models.PhasePlayers {
			return ErrRegistrationClosed
		}
		p := t.FindPlayer(userID)
		if p == nil {
			return ErrPlayerNotFound
		}
		cls := className
		p.Class = &cls
		return nil
	})
	if err != nil {
		return err
	}

	s.presenter.RefreshPlayers(ctx)
	return nil
}

func (s *rosterService) RemovePlayer(ctx context.Context, actor auth.Actor, userID string) error {
	if err := s.requireOrga(actor); err != nil {
		return err
	}

	err := s.manager.Update(ctx, func(t *models.Tournament) error {
		if len(t.Teams) > 0 {
			return ErrRemoveAfterDraw
		}
		for i, p := range t.Players {
			if p.UserID == userID {
				t.Players = append(t.Players[:i], t.Players[i+1:]...)
				return nil
			}
		}
		return ErrPlayerNotFound
	})
	if err != nil {
		return err
	}

	s.presenter.RefreshPlayers(ctx)
	return nil
}

// Reset wipes the whole tournament back to the registration phase. The
// recorded surfaces are deleted best-effort before the state is replaced.
func (s *rosterService) Reset(ctx context.Context, actor auth.Actor) error {
	if err := s.requireOrga(actor); err != nil {
		return err
	}

	return s.manager.Update(ctx, func(t *models.Tournament) error {
		for kind, ref := range t.Surfaces {
			if ref == "" {
				continue
			}
			if err := s.client.DeleteMessage(ctx, s.cfg.EmbedChannelID, ref); err != nil {
				s.logger.Warn("failed to delete surface during reset",
					slog.String("surface", string(kind)), slog.Any("error", err))
			}
		}
		*t = *models.NewTournament()
		return nil
	})
}
