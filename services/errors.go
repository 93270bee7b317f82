package services

import "errors"

// Shared errors used across services and the HTTP mapping. Every failure
// here is local and non-fatal; nothing in this file ever takes the process
// down.
var (
	// Authorization
	ErrAccessDenied   = errors.New("access denied")
	ErrNotParticipant = errors.New("only match participants can perform this action")

	// Roster / phase preconditions
	ErrRegistrationClosed = errors.New("registration phase is over")
	ErrAlreadyRegistered  = errors.New("player is already registered")
	ErrPlayerNotFound     = errors.New("player is not registered")
	ErrInvalidClass       = errors.New("unknown class name")
	ErrRemoveAfterDraw    = errors.New("cannot remove a player once teams are drawn")
	ErrDrawAlreadyDone    = errors.New("teams have already been drawn")

	// Round preconditions
	ErrRoundInProgress = errors.New("previous round still has unfinished matches")
	ErrNoTeams         = errors.New("no teams drawn yet")

	// Match state machine
	ErrMatchNotFound      = errors.New("match not found")
	ErrMatchTerminal      = errors.New("match is already finished")
	ErrInvalidMatchStatus = errors.New("action not allowed in the match's current status")
	ErrWinnerNotInMatch   = errors.New("selected team is not competing in this match")
	ErrBotAuthor          = errors.New("bot messages are ignored")
)
