package repositories

import (
	"context"
	"testing"

	"github.com/Dosada05/kicker-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTournament(id string) *models.Tournament {
	seed := 1
	team := models.Team{
		ID:   "team-1",
		Name: "Team 1",
		Players: [2]models.Player{
			{ID: "p1", Name: "Anna", Skill: 5},
			{ID: "p2", Name: "Ben", Skill: 1},
		},
		Skill: 6,
		Seed:  &seed,
	}
	return &models.Tournament{
		ID:              id,
		Players:         []models.Player{team.Players[0], team.Players[1]},
		Teams:           []models.Team{team},
		Rounds:          []models.Round{{{ID: "m1", TeamA: &team, Winner: &team, IsBye: true}}},
		TournamentState: models.StateFinished,
		Winner:          &team,
	}
}

func TestMemorySnapshotRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySnapshotRepository(nil)

	want := sampleTournament("2026-10-16T09:00:00.000Z")
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Get(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Saving again replaces the snapshot.
	want.TournamentState = models.StateInProgress
	want.Winner = nil
	require.NoError(t, repo.Save(ctx, want))
	got, err = repo.Get(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateInProgress, got.TournamentState)
	assert.Nil(t, got.Winner)
}

func TestMemorySnapshotRepository_SaveRequiresID(t *testing.T) {
	repo := NewMemorySnapshotRepository(nil)
	assert.ErrorIs(t, repo.Save(context.Background(), &models.Tournament{}), ErrSnapshotIDRequired)
}

func TestMemorySnapshotRepository_MissingAndCorrupt(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySnapshotRepository(nil)

	_, err := repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	repo.(*memorySnapshotRepository).putRaw("broken", []byte("{not json"))
	_, err = repo.Get(ctx, "broken")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	repo.(*memorySnapshotRepository).putRaw("weird", []byte(`{"tournamentState":"DONE"}`))
	_, err = repo.Get(ctx, "weird")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestMemorySnapshotRepository_ReadsLegacySnapshot(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySnapshotRepository(nil)

	legacy := `{
		"players": [{"id":"a","name":"A","skill":3},{"id":"b","name":"B","skill":2}],
		"teams": [],
		"rounds": [],
		"tournamentState": "TEAMS_VIEW",
		"winner": null
	}`
	repo.(*memorySnapshotRepository).putRaw("2025-01-01T10:00:00.000Z", []byte(legacy))

	got, err := repo.Get(ctx, "2025-01-01T10:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01T10:00:00.000Z", got.ID)
	assert.Equal(t, models.StateTeamsFormed, got.TournamentState)
	assert.Len(t, got.Players, 2)
}

func TestMemorySnapshotRepository_ListNewestFirstSkippingCorrupt(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySnapshotRepository(nil)

	require.NoError(t, repo.Save(ctx, sampleTournament("2026-01-01T00:00:00.000Z")))
	require.NoError(t, repo.Save(ctx, sampleTournament("2026-03-01T00:00:00.000Z")))
	repo.(*memorySnapshotRepository).putRaw("2026-02-01T00:00:00.000Z", []byte("garbage"))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-03-01T00:00:00.000Z", list[0].ID)
	assert.Equal(t, "2026-01-01T00:00:00.000Z", list[1].ID)
}

func TestMemorySnapshotRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySnapshotRepository(nil)

	require.NoError(t, repo.Save(ctx, sampleTournament("x")))
	require.NoError(t, repo.Delete(ctx, "x"))
	assert.ErrorIs(t, repo.Delete(ctx, "x"), ErrSnapshotNotFound)
	_, err := repo.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}
