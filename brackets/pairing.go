package brackets

import (
	"errors"
	"math/rand"

	"github.com/papycha/duocup/models"
)

var (
	ErrOddRoster         = errors.New("roster size must be even and non-zero")
	ErrMissingClass      = errors.New("every player needs a class before the draw")
	ErrPairingImpossible = errors.New("no valid class-disjoint pairing found")
	ErrOddSurvivingTeams = errors.New("surviving team count must be even and non-zero")
)

// maxShuffleAttempts bounds the re-draw loop when consecutive shuffles
// keep producing a same-class duo.
const maxShuffleAttempts = 100

type RandomDuoGenerator struct {
	rng *rand.Rand
}

// NewRandomDuoGenerator builds the generator around an injected random
// source so draws are reproducible in tests.
func NewRandomDuoGenerator(rng *rand.Rand) PairingGenerator {
	return &RandomDuoGenerator{rng: rng}
}

func (g *RandomDuoGenerator) GetName() string {
	return "RandomDuo"
}

func (g *RandomDuoGenerator) GenerateTeams(players []*models.Player) ([]*models.Team, error) {
	n := len(players)
	if n == 0 || n%2 != 0 {
		return nil, ErrOddRoster
	}
	for _, p := range players {
		if !p.HasClass() {
			return nil, ErrMissingClass
		}
	}

	shuffled := make([]*models.Player, n)
	copy(shuffled, players)

	for attempt := 0; attempt < maxShuffleAttempts; attempt++ {
		g.rng.Shuffle(n, func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		teams := make([]*models.Team, 0, n/2)
		valid := true
		for i := 0; i < n; i += 2 {
			p1, p2 := shuffled[i], shuffled[i+1]
			if *p1.Class == *p2.Class {
				valid = false
				break
			}
			teams = append(teams, &models.Team{
				ID:      len(teams) + 1,
				Players: [2]models.Player{*p1, *p2},
			})
		}
		if valid {
			return teams, nil
		}
	}

	return nil, ErrPairingImpossible
}

func (g *RandomDuoGenerator) PairRound(teams []*models.Team) ([]TeamPair, error) {
	n := len(teams)
	if n == 0 || n%2 != 0 {
		return nil, ErrOddSurvivingTeams
	}

	shuffled := make([]*models.Team, n)
	copy(shuffled, teams)
	g.rng.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	pairs := make([]TeamPair, 0, n/2)
	for i := 0; i < n; i += 2 {
		pairs = append(pairs, TeamPair{Team1: shuffled[i], Team2: shuffled[i+1]})
	}
	return pairs, nil
}
