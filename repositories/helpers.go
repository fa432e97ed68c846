package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/kicker-tournament/models"
)

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

func encodeSnapshot(t *models.Tournament) ([]byte, error) {
	if t == nil || t.ID == "" {
		return nil, ErrSnapshotIDRequired
	}
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot %s: %w", t.ID, err)
	}
	return data, nil
}

// decodeSnapshot turns a stored blob back into a tournament. The key wins over
// whatever id the blob carries; snapshots written by older clients lack it.
func decodeSnapshot(id string, data []byte) (*models.Tournament, error) {
	var t models.Tournament
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSnapshotCorrupt, id, err)
	}
	t.ID = id
	if t.TournamentState == "" {
		t.TournamentState = models.StateRegistration
	}
	if t.Players == nil {
		t.Players = []models.Player{}
	}
	if t.Teams == nil {
		t.Teams = []models.Team{}
	}
	if t.Rounds == nil {
		t.Rounds = []models.Round{}
	}
	return &t, nil
}
