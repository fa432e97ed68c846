package brackets

import (
	"github.com/Dosada05/kicker-tournament/models"
	"github.com/google/uuid"
)

type SingleEliminationGenerator struct {
}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(teams []models.Team) ([]models.Round, error) {
	return BuildBracket(teams)
}

// BuildBracket lays out a complete single-elimination bracket for teams already
// ordered by seed (index 0 = seed 1). Slots past the last team are padding, so a
// first-round match against padding is a bye and its team advances at once.
func BuildBracket(teams []models.Team) ([]models.Round, error) {
	n := len(teams)
	if n == 0 {
		return nil, ErrNoTeams
	}

	size := BracketSize(n)
	totalRounds := RoundCount(size)
	if totalRounds == 0 {
		return []models.Round{}, nil
	}

	order := SeedingOrder(size)
	slot := func(rank int) *models.Team {
		if rank >= n {
			return nil
		}
		t := teams[rank]
		return &t
	}

	rounds := make([]models.Round, 0, totalRounds)

	first := make(models.Round, 0, size/2)
	for i := 0; i < size; i += 2 {
		m := models.Match{
			ID:    uuid.NewString(),
			TeamA: slot(order[i]),
			TeamB: slot(order[i+1]),
		}
		switch {
		case m.TeamA != nil && m.TeamB == nil:
			m.IsBye = true
			m.Winner = m.TeamA
		case m.TeamA == nil && m.TeamB != nil:
			m.IsBye = true
			m.Winner = m.TeamB
		}
		first = append(first, m)
	}
	rounds = append(rounds, first)

	for r := 1; r < totalRounds; r++ {
		count := size >> (r + 1)
		round := make(models.Round, count)
		for m := range round {
			round[m] = models.Match{ID: uuid.NewString()}
		}
		rounds = append(rounds, round)
	}

	// Byes only exist in the first round. Two bye winners that meet in round 1
	// play an ordinary match.
	if totalRounds > 1 {
		for m, match := range rounds[0] {
			if match.IsBye {
				advance(rounds, 0, m, match.Winner)
			}
		}
	}

	return rounds, nil
}

// advance writes a winner into the parent slot of the next round.
func advance(rounds []models.Round, roundIndex, matchIndex int, winner *models.Team) {
	next := &rounds[roundIndex+1][matchIndex/2]
	if matchIndex%2 == 0 {
		next.TeamA = winner
	} else {
		next.TeamB = winner
	}
}
