package models

// Phase gates which roster commands are accepted.
type Phase string

const (
	PhasePlayers Phase = "players" // registration open, no teams yet
	PhaseTeams   Phase = "teams"   // draw done, elimination rounds running
)

// SurfaceKind identifies one of the continuously refreshed summary embeds.
type SurfaceKind string

const (
	SurfacePlayers  SurfaceKind = "players"
	SurfaceTeams    SurfaceKind = "teams"
	SurfaceUpcoming SurfaceKind = "upcoming"
	SurfaceHistory  SurfaceKind = "history"
)

// Tournament is the whole mutable tournament state. It doubles as the
// persisted document: the snapshot store serializes it verbatim.
type Tournament struct {
	Phase        Phase     `json:"phase"`
	Players      []*Player `json:"players"`
	Teams        []*Team   `json:"teams"`
	Matches      []*Match  `json:"matches"`
	CurrentRound int       `json:"current_round"`

	// Surfaces maps a summary surface to its rendered message reference,
	// empty until the surface has been created.
	Surfaces map[SurfaceKind]string `json:"surfaces"`
}

func NewTournament() *Tournament {
	return &Tournament{
		Phase:    PhasePlayers,
		Players:  []*Player{},
		Teams:    []*Team{},
		Matches:  []*Match{},
		Surfaces: map[SurfaceKind]string{},
	}
}

func (t *Tournament) FindPlayer(userID string) *Player {
	for _, p := range t.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func (t *Tournament) FindTeam(id int) *Team {
	for _, team := range t.Teams {
		if team.ID == id {
			return team
		}
	}
	return nil
}

func (t *Tournament) FindMatch(id int) *Match {
	for _, m := range t.Matches {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// FindMatchByChannel returns the non-terminal match bound to the given
// chat channel, if any. Channel-scoped commands resolve through this.
func (t *Tournament) FindMatchByChannel(channelID string) *Match {
	for _, m := range t.Matches {
		if m.ChannelID == channelID && !m.IsTerminal() {
			return m
		}
	}
	return nil
}

func (t *Tournament) AliveTeams() []*Team {
	alive := make([]*Team, 0, len(t.Teams))
	for _, team := range t.Teams {
		if !team.Eliminated {
			alive = append(alive, team)
		}
	}
	return alive
}

// RoundFinished reports whether every match of the given round is terminal.
func (t *Tournament) RoundFinished(round int) bool {
	for _, m := range t.Matches {
		if m.Round == round && !m.IsTerminal() {
			return false
		}
	}
	return true
}

// MatchParticipantIDs returns the four competing user ids of a match.
func (t *Tournament) MatchParticipantIDs(m *Match) []string {
	ids := make([]string, 0, 4)
	if t1 := t.FindTeam(m.Team1ID); t1 != nil {
		ids = append(ids, t1.PlayerIDs()...)
	}
	if t2 := t.FindTeam(m.Team2ID); t2 != nil {
		ids = append(ids, t2.PlayerIDs()...)
	}
	return ids
}

func (t *Tournament) IsMatchParticipant(m *Match, userID string) bool {
	for _, id := range t.MatchParticipantIDs(m) {
		if id == userID {
			return true
		}
	}
	return false
}
