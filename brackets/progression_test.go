package brackets

import (
	"testing"

	"github.com/Dosada05/kicker-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordResult_WinnerAdvancesToParentSlot(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(4))
	require.NoError(t, err)

	res, err := RecordResult(rounds, 0, 0, 5, 3)
	require.NoError(t, err)
	assert.Nil(t, res.Champion)

	m := res.Rounds[0][0]
	require.NotNil(t, m.ScoreA)
	require.NotNil(t, m.ScoreB)
	assert.Equal(t, 5, *m.ScoreA)
	assert.Equal(t, 3, *m.ScoreB)
	assert.Equal(t, "t1", teamID(m.Winner))
	assert.Equal(t, "t1", teamID(res.Rounds[1][0].TeamA))
	assert.Nil(t, res.Rounds[1][0].TeamB)

	res, err = RecordResult(res.Rounds, 0, 1, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, "t3", teamID(res.Rounds[0][1].Winner))
	assert.Equal(t, "t3", teamID(res.Rounds[1][0].TeamB), "odd match feeds slot B")
}

func TestRecordResult_DoesNotMutateInput(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(4))
	require.NoError(t, err)

	_, err = RecordResult(rounds, 0, 0, 5, 3)
	require.NoError(t, err)
	assert.Nil(t, rounds[0][0].Winner)
	assert.Nil(t, rounds[0][0].ScoreA)
	assert.Nil(t, rounds[1][0].TeamA)
}

func TestRecordResult_FinalCrownsChampion(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(4))
	require.NoError(t, err)

	res, err := RecordResult(rounds, 0, 0, 5, 3)
	require.NoError(t, err)
	res, err = RecordResult(res.Rounds, 0, 1, 5, 3)
	require.NoError(t, err)
	res, err = RecordResult(res.Rounds, 1, 0, 1, 10)
	require.NoError(t, err)

	require.NotNil(t, res.Champion)
	assert.Equal(t, "t2", res.Champion.ID)
	assert.Equal(t, "t2", teamID(res.Rounds[1][0].Winner))
}

func TestRecordResult_AlreadyDecidedIsRejected(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(4))
	require.NoError(t, err)

	res, err := RecordResult(rounds, 0, 0, 5, 3)
	require.NoError(t, err)

	_, err = RecordResult(res.Rounds, 0, 0, 0, 9)
	assert.ErrorIs(t, err, ErrMatchAlreadyDecided)
	assert.Equal(t, "t1", teamID(res.Rounds[1][0].TeamA), "decided slot must not be overwritten")
}

func TestRecordResult_ByeCannotBeScored(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(3))
	require.NoError(t, err)

	_, err = RecordResult(rounds, 0, 0, 1, 0)
	assert.ErrorIs(t, err, ErrMatchNotReady)
}

func TestRecordResult_MissingParticipant(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(4))
	require.NoError(t, err)

	_, err = RecordResult(rounds, 1, 0, 3, 1)
	assert.ErrorIs(t, err, ErrMatchNotReady)
}

func TestRecordResult_InvalidInput(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(4))
	require.NoError(t, err)

	_, err = RecordResult(rounds, 2, 0, 1, 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	_, err = RecordResult(rounds, 0, 5, 1, 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	_, err = RecordResult(rounds, -1, 0, 1, 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = RecordResult(rounds, 0, 0, 4, 4)
	assert.ErrorIs(t, err, ErrTieScore)
	_, err = RecordResult(rounds, 0, 0, -1, 4)
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestRecordResult_FourPlayerScenario(t *testing.T) {
	players := []models.Player{
		{ID: "a", Name: "A", Skill: 5},
		{ID: "b", Name: "B", Skill: 4},
		{ID: "c", Name: "C", Skill: 2},
		{ID: "d", Name: "D", Skill: 1},
	}
	teams, err := FormTeams(players)
	require.NoError(t, err)

	rounds, err := BuildBracket(teams)
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	require.Len(t, rounds[0], 1)

	res, err := RecordResult(rounds, 0, 0, 3, 1)
	require.NoError(t, err)
	require.NotNil(t, res.Champion)
	assert.Equal(t, "Team 1", res.Champion.Name)
	assert.Equal(t, "a", res.Champion.Players[0].ID)
	assert.Equal(t, "d", res.Champion.Players[1].ID)
}

func TestRecordResult_FiveTeamsToChampion(t *testing.T) {
	rounds, err := BuildBracket(seededTeams(5))
	require.NoError(t, err)

	// Round 1 match between two bye-advanced teams needs a normal score entry.
	res, err := RecordResult(rounds, 1, 1, 2, 6)
	require.NoError(t, err)
	assert.Equal(t, "t3", teamID(res.Rounds[2][0].TeamB))

	res, err = RecordResult(res.Rounds, 0, 1, 6, 4)
	require.NoError(t, err)
	assert.Equal(t, "t4", teamID(res.Rounds[1][0].TeamB))

	res, err = RecordResult(res.Rounds, 1, 0, 6, 0)
	require.NoError(t, err)
	assert.Nil(t, res.Champion)

	res, err = RecordResult(res.Rounds, 2, 0, 6, 5)
	require.NoError(t, err)
	require.NotNil(t, res.Champion)
	assert.Equal(t, "t1", res.Champion.ID)
}
