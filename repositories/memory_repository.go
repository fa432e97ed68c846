package repositories

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/Dosada05/kicker-tournament/models"
)

// memorySnapshotRepository keeps encoded snapshots in a map. It goes through
// the same JSON encoding as the database so both behave alike.
type memorySnapshotRepository struct {
	mu        sync.RWMutex
	snapshots map[string][]byte
	logger    *slog.Logger
}

func NewMemorySnapshotRepository(logger *slog.Logger) SnapshotRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &memorySnapshotRepository{
		snapshots: make(map[string][]byte),
		logger:    logger,
	}
}

func (r *memorySnapshotRepository) Get(ctx context.Context, id string) (*models.Tournament, error) {
	r.mu.RLock()
	data, ok := r.snapshots[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSnapshotNotFound
	}

	t, err := decodeSnapshot(id, data)
	if err != nil {
		r.logger.WarnContext(ctx, "ignoring unreadable tournament snapshot", slog.String("tournament_id", id), slog.Any("error", err))
		return nil, ErrSnapshotNotFound
	}
	return t, nil
}

func (r *memorySnapshotRepository) List(ctx context.Context) ([]*models.Tournament, error) {
	r.mu.RLock()
	ids := make([]string, 0, len(r.snapshots))
	for id := range r.snapshots {
		ids = append(ids, id)
	}
	blobs := make(map[string][]byte, len(ids))
	for _, id := range ids {
		blobs[id] = r.snapshots[id]
	}
	r.mu.RUnlock()

	sort.Sort(sort.Reverse(sort.StringSlice(ids)))

	tournaments := make([]*models.Tournament, 0, len(ids))
	for _, id := range ids {
		t, err := decodeSnapshot(id, blobs[id])
		if err != nil {
			r.logger.WarnContext(ctx, "skipping unreadable tournament snapshot", slog.String("tournament_id", id), slog.Any("error", err))
			continue
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, nil
}

func (r *memorySnapshotRepository) Save(ctx context.Context, t *models.Tournament) error {
	data, err := encodeSnapshot(t)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.snapshots[t.ID] = data
	r.mu.Unlock()
	return nil
}

func (r *memorySnapshotRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.snapshots[id]; !ok {
		return ErrSnapshotNotFound
	}
	delete(r.snapshots, id)
	return nil
}

func (r *memorySnapshotRepository) putRaw(id string, data []byte) {
	r.mu.Lock()
	r.snapshots[id] = data
	r.mu.Unlock()
}
