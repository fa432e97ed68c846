package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"github.com/Dosada05/kicker-tournament/models"
)

const archivePrefix = "tournaments"

// UploadResult describes an object written to the bucket.
type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader is the object storage the archive writes to.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// SnapshotArchive keeps a JSON copy of finished tournaments in object storage.
type SnapshotArchive struct {
	uploader FileUploader
}

func NewSnapshotArchive(uploader FileUploader) *SnapshotArchive {
	return &SnapshotArchive{uploader: uploader}
}

func ArchiveKey(tournamentID string) string {
	return path.Join(archivePrefix, tournamentID+".json")
}

func (a *SnapshotArchive) Store(ctx context.Context, t *models.Tournament) (*UploadResult, error) {
	data, err := json.MarshalIndent(t, "", "\t")
	if err != nil {
		return nil, fmt.Errorf("failed to encode tournament %s for archive: %w", t.ID, err)
	}
	return a.uploader.Upload(ctx, ArchiveKey(t.ID), "application/json", bytes.NewReader(data))
}

func (a *SnapshotArchive) Remove(ctx context.Context, tournamentID string) error {
	return a.uploader.Delete(ctx, ArchiveKey(tournamentID))
}

func (a *SnapshotArchive) URL(tournamentID string) string {
	return a.uploader.GetPublicURL(ArchiveKey(tournamentID))
}
