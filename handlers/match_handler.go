package handlers

import (
	"errors"
	"net/http"

	"github.com/papycha/duocup/middleware"
	"github.com/papycha/duocup/services"
)

type MatchHandler struct {
	matchService      services.MatchService
	tournamentService services.TournamentService
}

func NewMatchHandler(ms services.MatchService, ts services.TournamentService) *MatchHandler {
	return &MatchHandler{matchService: ms, tournamentService: ts}
}

// matchID resolves the target match from the URL, or from a channel_id
// query parameter for channel-scoped interactions. On failure it writes
// the response and returns ok=false.
func (h *MatchHandler) matchID(w http.ResponseWriter, r *http.Request) (int, bool) {
	if raw := pathString(r, "matchID"); raw != "" {
		id, err := getIDFromURL(r, "matchID")
		if err != nil {
			badRequestResponse(w, r, err)
			return 0, false
		}
		return id, true
	}
	channelID := r.URL.Query().Get("channel_id")
	if channelID == "" {
		badRequestResponse(w, r, errors.New("matchID URL parameter or channel_id query parameter required"))
		return 0, false
	}
	id, err := h.tournamentService.MatchIDByChannel(channelID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return 0, false
	}
	return id, true
}

// ConfirmHandler handles POST /matches/{matchID}/confirm
func (h *MatchHandler) ConfirmHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}
	if err := h.matchService.ConfirmAvailability(r.Context(), actor, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"confirmed": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UnavailableHandler handles POST /matches/{matchID}/unavailable
func (h *MatchHandler) UnavailableHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}
	if err := h.matchService.DeclareUnavailable(r.Context(), actor, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "WAITING_AVAIL"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ValidateHandler handles POST /matches/{matchID}/validate
func (h *MatchHandler) ValidateHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}
	if err := h.matchService.Validate(r.Context(), actor, id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "VALIDATED"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RescheduleHandler handles POST /matches/{matchID}/reschedule
func (h *MatchHandler) RescheduleHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id, ok := h.matchID(w, r)
	if !ok {
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

	if err := h.tournamentService.Reschedule(r.Context(), actor, id, input.Date, input.Time); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "WAITING_AVAIL"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// WinnerHandler handles POST /matches/{matchID}/winner
func (h *MatchHandler) WinnerHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}

	var input struct {
		WinnerTeamID int `json:"winner_team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.SetWinner(r.Context(), actor, id, input.WinnerTeamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "DONE", "winner_team_id": input.WinnerTeamID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ForfeitHandler handles POST /matches/{matchID}/forfeit
func (h *MatchHandler) ForfeitHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id, ok := h.matchID(w, r)
	if !ok {
		return
	}

	var input struct {
		ForfeitTeamID int `json:"forfeit_team_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.Forfeit(r.Context(), actor, id, input.ForfeitTeamID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "DONE"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResultHandler handles POST /matches/result?channel_id=...
// The gateway forwards any non-bot message with an image attachment posted
// in a match channel; the body is the raw image.
func (h *MatchHandler) ResultHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.ActorFromContext(r.Context()); err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	channelID := r.URL.Query().Get("channel_id")
	if channelID == "" {
		badRequestResponse(w, r, errors.New("channel_id query parameter required"))
		return
	}
	authorID := r.URL.Query().Get("author_id")
	isBot := r.URL.Query().Get("bot") == "true"

	contentType := r.Header.Get("Content-Type")
	err := h.matchService.ReportResult(r.Context(), channelID, authorID, isBot, contentType, r.Body)
	if err != nil {
		if errors.Is(err, services.ErrBotAuthor) {
			// Bot traffic is expected noise, not a client error.
			w.WriteHeader(http.StatusNoContent)
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusAccepted, jsonResponse{"prompt": "winner_selection"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
