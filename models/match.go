package models

type MatchStatus string

const (
	MatchStatusWaitingAvail MatchStatus = "WAITING_AVAIL"
	MatchStatusNeedValidate MatchStatus = "NEED_ORGA_VALIDATE"
	MatchStatusValidated    MatchStatus = "VALIDATED"
	MatchStatusDone         MatchStatus = "DONE"
)

// Match is one scheduled confrontation between two teams. Matches are kept
// forever once created; DONE is the only terminal status.
type Match struct {
	ID       int         `json:"id"`
	Round    int         `json:"round"`
	Team1ID  int         `json:"team1_id"`
	Team2ID  int         `json:"team2_id"`
	Date     string      `json:"date"` // opaque, e.g. "14/09" or "14/09/2026"
	Time     string      `json:"time"` // opaque, e.g. "21h30" or "21:30"
	Status   MatchStatus `json:"status"`
	MapName  *string     `json:"map_name,omitempty"`
	MapImage *string     `json:"map_image,omitempty"`

	// Thumbs holds the user ids of participants who confirmed the schedule.
	Thumbs []string `json:"thumbs"`

	WinnerTeamID *int `json:"winner_team_id,omitempty"`

	ChannelID      string  `json:"channel_id"`
	CardMessageID  string  `json:"card_message_id,omitempty"`
	ResultImageKey *string `json:"result_image_key,omitempty"`
}

func (m *Match) IsTerminal() bool {
	return m.Status == MatchStatusDone
}

func (m *Match) HasThumb(userID string) bool {
	for _, id := range m.Thumbs {
		if id == userID {
			return true
		}
	}
	return false
}

func (m *Match) AddThumb(userID string) bool {
	if m.HasThumb(userID) {
		return false
	}
	m.Thumbs = append(m.Thumbs, userID)
	return true
}

func (m *Match) ClearThumbs() {
	m.Thumbs = m.Thumbs[:0]
}
