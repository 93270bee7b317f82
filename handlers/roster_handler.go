package handlers

import (
	"errors"
	"net/http"

	"github.com/papycha/duocup/middleware"
	"github.com/papycha/duocup/services"
)

type RosterHandler struct {
	rosterService services.RosterService
}

func NewRosterHandler(rs services.RosterService) *RosterHandler {
	return &RosterHandler{rosterService: rs}
}

// RegisterHandler handles POST /roster/players
func (h *RosterHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		UserID string `json:"user_id"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.UserID == "" {
		badRequestResponse(w, r, errors.New("user_id is required"))
		return
	}

	if err := h.rosterService.RegisterPlayer(r.Context(), actor, input.UserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"registered": input.UserID}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AssignClassHandler handles PUT /roster/players/{userID}/class
func (h *RosterHandler) AssignClassHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	userID := pathString(r, "userID")
	if userID == "" {
		badRequestResponse(w, r, errors.New("invalid userID URL parameter"))
		return
	}

	var input struct {
		Class string `json:"class"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.rosterService.AssignClass(r.Context(), actor, userID, input.Class); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"user_id": userID, "class": input.Class}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// RemoveHandler handles DELETE /roster/players/{userID}
func (h *RosterHandler) RemoveHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	userID := pathString(r, "userID")
	if userID == "" {
		badRequestResponse(w, r, errors.New("invalid userID URL parameter"))
		return
	}

	if err := h.rosterService.RemovePlayer(r.Context(), actor, userID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetHandler handles POST /tournament/reset
func (h *RosterHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	if err := h.rosterService.Reset(r.Context(), actor); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"reset": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
