package models

// Player is a registered community member. The user id is the opaque chat
// platform handle; the class is assigned by the organizer before the draw.
type Player struct {
	UserID string  `json:"user_id"`
	Class  *string `json:"class"`
}

func (p *Player) HasClass() bool {
	return p.Class != nil && *p.Class != ""
}

// Team is a fixed duo created by the draw. Ids are sequential starting at 1
// and never change afterwards; only the elimination fields are mutated.
type Team struct {
	ID              int       `json:"id"`
	Players         [2]Player `json:"players"`
	Eliminated      bool      `json:"eliminated"`
	EliminatedRound *int      `json:"eliminated_round,omitempty"`
}

func (t *Team) HasPlayer(userID string) bool {
	return t.Players[0].UserID == userID || t.Players[1].UserID == userID
}

func (t *Team) PlayerIDs() []string {
	return []string{t.Players[0].UserID, t.Players[1].UserID}
}
