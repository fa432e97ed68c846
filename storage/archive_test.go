package storage

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/Dosada05/kicker-tournament/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	objects     map[string][]byte
	contentType string
}

func (f *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	f.objects[key] = data
	f.contentType = contentType
	return &UploadResult{Key: key, Location: f.GetPublicURL(key)}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return publicURL("https://cdn.example.com/kicker/", key)
}

func TestSnapshotArchive_StoreAndRemove(t *testing.T) {
	up := &fakeUploader{objects: map[string][]byte{}}
	archive := NewSnapshotArchive(up)
	ctx := context.Background()

	tr := &models.Tournament{ID: "2026-10-16T09:00:00.000Z", TournamentState: models.StateFinished}
	res, err := archive.Store(ctx, tr)
	require.NoError(t, err)

	assert.Equal(t, "tournaments/2026-10-16T09:00:00.000Z.json", res.Key)
	assert.Equal(t, "application/json", up.contentType)
	assert.Equal(t, "https://cdn.example.com/kicker/tournaments/2026-10-16T09:00:00.000Z.json", archive.URL(tr.ID))

	var stored models.Tournament
	require.NoError(t, json.Unmarshal(up.objects[res.Key], &stored))
	assert.Equal(t, models.StateFinished, stored.TournamentState)

	require.NoError(t, archive.Remove(ctx, tr.ID))
	assert.Empty(t, up.objects)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "", publicURL("", "a.json"))
	assert.Equal(t, "", publicURL("https://x.dev", ""))
	assert.Equal(t, "https://x.dev/a/b.json", publicURL("https://x.dev", "/a/b.json"))
	assert.Equal(t, "https://x.dev/base/a.json", publicURL("https://x.dev/base", "a.json"))
}

func TestNewCloudflareR2Uploader_RequiresCredentials(t *testing.T) {
	_, err := NewCloudflareR2Uploader(context.Background(), CloudflareR2UploaderConfig{
		AccountID:  "acc",
		BucketName: "kicker",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access key id, secret access key")
}
