package brackets

import (
	"fmt"
	"testing"

	"github.com/Dosada05/kicker-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededTeams(n int) []models.Team {
	teams := make([]models.Team, n)
	for i := range teams {
		seed := i + 1
		teams[i] = models.Team{
			ID:   fmt.Sprintf("t%d", seed),
			Name: fmt.Sprintf("Team %d", seed),
			Players: [2]models.Player{
				{ID: fmt.Sprintf("t%d-a", seed)},
				{ID: fmt.Sprintf("t%d-b", seed)},
			},
			Skill: 10 - i,
			Seed:  &seed,
		}
	}
	return teams
}

func teamID(t *models.Team) string {
	if t == nil {
		return ""
	}
	return t.ID
}

func TestBuildBracket_NoTeams(t *testing.T) {
	_, err := BuildBracket(nil)
	assert.ErrorIs(t, err, ErrNoTeams)
}

func TestBuildBracket_SingleTeamHasNoRounds(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(1))
	require.NoError(t, err)
	assert.Empty(t, rounds)
}

func TestBuildBracket_RoundSizes(t *testing.T) {
	for n := 2; n <= 33; n++ {
		rounds, err := BuildBracket(seededTeams(n))
		require.NoError(t, err)

		size := BracketSize(n)
		require.Len(t, rounds, RoundCount(size), "teams=%d", n)
		for r, round := range rounds {
			assert.Len(t, round, size>>(r+1), "teams=%d round=%d", n, r)
		}

		byes := 0
		for _, m := range rounds[0] {
			assert.False(t, m.TeamA == nil && m.TeamB == nil, "empty first-round match for %d teams", n)
			if m.IsBye {
				byes++
			}
		}
		assert.Equal(t, size-n, byes, "teams=%d", n)
	}
}

func TestBuildBracket_PowerOfTwoHasNoByes(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(8))
	require.NoError(t, err)

	pairs := make([][2]string, 0, len(rounds[0]))
	for _, m := range rounds[0] {
		assert.False(t, m.IsBye)
		assert.Nil(t, m.Winner)
		pairs = append(pairs, [2]string{teamID(m.TeamA), teamID(m.TeamB)})
	}
	assert.Equal(t, [][2]string{{"t1", "t8"}, {"t4", "t5"}, {"t2", "t7"}, {"t3", "t6"}}, pairs)

	for _, round := range rounds[1:] {
		for _, m := range round {
			assert.Nil(t, m.TeamA)
			assert.Nil(t, m.TeamB)
		}
	}
}

func TestBuildBracket_TwoTeamsIsJustTheFinal(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(2))
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	require.Len(t, rounds[0], 1)
	assert.Equal(t, "t1", teamID(rounds[0][0].TeamA))
	assert.Equal(t, "t2", teamID(rounds[0][0].TeamB))
	assert.False(t, rounds[0][0].IsBye)
}

func TestBuildBracket_ByesAdvanceImmediately(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(3))
	require.NoError(t, err)
	require.Len(t, rounds, 2)

	bye := rounds[0][0]
	assert.True(t, bye.IsBye)
	assert.Equal(t, "t1", teamID(bye.TeamA))
	assert.Nil(t, bye.TeamB)
	assert.Equal(t, "t1", teamID(bye.Winner))
	assert.Nil(t, bye.ScoreA)

	assert.Equal(t, "t1", teamID(rounds[1][0].TeamA))
	assert.Nil(t, rounds[1][0].TeamB)
}

func TestBuildBracket_FiveTeams(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(5))
	require.NoError(t, err)
	require.Len(t, rounds, 3)

	first := rounds[0]
	require.Len(t, first, 4)
	assert.True(t, first[0].IsBye)
	assert.False(t, first[1].IsBye)
	assert.True(t, first[2].IsBye)
	assert.True(t, first[3].IsBye)
	assert.Equal(t, "t4", teamID(first[1].TeamA))
	assert.Equal(t, "t5", teamID(first[1].TeamB))

	second := rounds[1]
	require.Len(t, second, 2)
	assert.Equal(t, "t1", teamID(second[0].TeamA))
	assert.Nil(t, second[0].TeamB, "waits for the winner of t4 vs t5")

	// Two bye winners meet in an ordinary match.
	assert.Equal(t, "t2", teamID(second[1].TeamA))
	assert.Equal(t, "t3", teamID(second[1].TeamB))
	assert.False(t, second[1].IsBye)
	assert.Nil(t, second[1].Winner)

	assert.Nil(t, rounds[2][0].TeamA)
	assert.Nil(t, rounds[2][0].TeamB)
}

func TestBuildBracket_UniqueMatchIDs(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(6))
	require.NoError(t, err)
	seen := make(map[string]bool)
	for _, round := range rounds {
		for _, m := range round {
			require.NotEmpty(t, m.ID)
			assert.False(t, seen[m.ID], "duplicate match id %s", m.ID)
			seen[m.ID] = true
		}
	}
}

func TestSingleEliminationGenerator(t *testing.T) {
	g := NewSingleEliminationGenerator()
	assert.Equal(t, "SingleElimination", g.GetName())

	rounds, err := g.GenerateBracket(seededTeams(4))
	require.NoError(t, err)
	assert.Len(t, rounds, 2)
}
