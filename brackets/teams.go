package brackets

import (
	"fmt"
	"slices"

	"github.com/Dosada05/kicker-tournament/models"
	"github.com/google/uuid"
)

// FormTeams pairs the i-th strongest player with the i-th weakest and seeds the
// resulting teams by combined skill. Equal skills keep their input order, both
// for players and for teams.
func FormTeams(players []models.Player) ([]models.Team, error) {
	n := len(players)
	if n < 4 || n%2 != 0 {
		return nil, fmt.Errorf("%w (got %d)", ErrInvalidRoster, n)
	}

	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b models.Player) int {
		return b.Skill - a.Skill
	})

	teams := make([]models.Team, 0, n/2)
	for i := 0; i < n/2; i++ {
		strong := sorted[i]
		weak := sorted[n-1-i]
		teams = append(teams, models.Team{
			ID:      uuid.NewString(),
			Name:    fmt.Sprintf("Team %d", i+1),
			Players: [2]models.Player{strong, weak},
			Skill:   strong.Skill + weak.Skill,
		})
	}

	slices.SortStableFunc(teams, func(a, b models.Team) int {
		return b.Skill - a.Skill
	})
	for i := range teams {
		seed := i + 1
		teams[i].Seed = &seed
	}
	return teams, nil
}
