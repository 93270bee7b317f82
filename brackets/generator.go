package brackets

import (
	"github.com/papycha/duocup/models"
)

// TeamPair is a round matchup between two existing teams.
type TeamPair struct {
	Team1 *models.Team
	Team2 *models.Team
}

// PairingGenerator produces the two random drawings of the tournament:
// the initial partition of the roster into duos, and the per-round
// matchups between surviving teams.
type PairingGenerator interface {
	// GenerateTeams partitions the full roster into class-disjoint duos
	// and returns a complete replacement team set with ids from 1.
	GenerateTeams(players []*models.Player) ([]*models.Team, error)

	// PairRound partitions the surviving teams into round matchups.
	PairRound(teams []*models.Team) ([]TeamPair, error)

	GetName() string
}
