package handlers

import (
	"errors"
	"net/http"

	"github.com/papycha/duocup/middleware"
	"github.com/papycha/duocup/services"
	"github.com/papycha/duocup/state"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
	manager           *state.Manager
}

func NewTournamentHandler(ts services.TournamentService, manager *state.Manager) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts, manager: manager}
}

// DrawHandler handles POST /tournament/draw
func (h *TournamentHandler) DrawHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.tournamentService.DrawTeams(r.Context(), actor); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	snap := h.manager.Snapshot()
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"teams": snap.Teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartRoundHandler handles POST /tournament/rounds
func (h *TournamentHandler) StartRoundHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		Date string `json:"date"`
		Time string `json:"time"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Date == "" || input.Time == "" {
		badRequestResponse(w, r, errors.New("date and time are required"))
		return
	}

	if err := h.tournamentService.StartRound(r.Context(), actor, input.Date, input.Time); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	snap := h.manager.Snapshot()
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"round": snap.CurrentRound, "matches": snap.Matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StateHandler handles GET /state. The gateway uses it to resync its
// reference mapping after a restart.
func (h *TournamentHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.ActorFromContext(r.Context()); err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	snap := h.manager.Snapshot()
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": snap}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
