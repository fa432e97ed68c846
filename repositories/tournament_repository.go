package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/kicker-tournament/models"
	"github.com/lib/pq"
)

var (
	ErrSnapshotNotFound   = errors.New("tournament snapshot not found")
	ErrSnapshotCorrupt    = errors.New("tournament snapshot is corrupt")
	ErrSnapshotIDRequired = errors.New("tournament snapshot id is required")
	ErrSnapshotSchema     = errors.New("tournament snapshot table is missing")
)

// SnapshotRepository stores one opaque snapshot per tournament id. Writes fully
// replace the previous snapshot; the last writer wins.
type SnapshotRepository interface {
	Get(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]*models.Tournament, error)
	Save(ctx context.Context, tournament *models.Tournament) error
	Delete(ctx context.Context, id string) error
}

type postgresSnapshotRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresSnapshotRepository(db *sql.DB, logger *slog.Logger) SnapshotRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &postgresSnapshotRepository{db: db, logger: logger}
}

func (r *postgresSnapshotRepository) Get(ctx context.Context, id string) (*models.Tournament, error) {
	query := `SELECT data FROM tournament_snapshots WHERE id = $1`

	var data []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, r.handleSnapshotError(err)
	}

	t, err := decodeSnapshot(id, data)
	if err != nil {
		r.logger.WarnContext(ctx, "ignoring unreadable tournament snapshot", slog.String("tournament_id", id), slog.Any("error", err))
		return nil, ErrSnapshotNotFound
	}
	return t, nil
}

func (r *postgresSnapshotRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	query := `SELECT id, data FROM tournament_snapshots ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, r.handleSnapshotError(err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if scanErr := rows.Scan(&id, &data); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament snapshot: %w", scanErr)
		}
		t, decErr := decodeSnapshot(id, data)
		if decErr != nil {
			r.logger.WarnContext(ctx, "skipping unreadable tournament snapshot", slog.String("tournament_id", id), slog.Any("error", decErr))
			continue
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament snapshot iteration: %w", err)
	}
	return tournaments, nil
}

func (r *postgresSnapshotRepository) Save(ctx context.Context, t *models.Tournament) error {
	data, err := encodeSnapshot(t)
	if err != nil {
		return err
	}

	var winnerName *string
	if t.Winner != nil {
		winnerName = &t.Winner.Name
	}

	query := `
		INSERT INTO tournament_snapshots (id, state, player_count, winner_name, data, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			player_count = EXCLUDED.player_count,
			winner_name = EXCLUDED.winner_name,
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at`

	_, err = r.db.ExecContext(ctx, query, t.ID, t.TournamentState, len(t.Players), winnerName, data)
	if err != nil {
		return fmt.Errorf("failed to save tournament snapshot %s: %w", t.ID, r.handleSnapshotError(err))
	}
	return nil
}

func (r *postgresSnapshotRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tournament_snapshots WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleSnapshotError(err)
	}
	return checkAffectedRows(result, ErrSnapshotNotFound)
}

func (r *postgresSnapshotRepository) handleSnapshotError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "42P01":
			return fmt.Errorf("%w: %v", ErrSnapshotSchema, err)
		}
	}
	return err
}
