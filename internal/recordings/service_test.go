package recordings

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"callrec-dashboard/internal/audit"
	"callrec-dashboard/internal/objectstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const audioURL = "https://storage.example.com/v0/b/app/o/recordings%2Fr1.m4a?alt=media"

func newTestService(t *testing.T) (*Service, *MemoryRepo, *objectstore.MemoryStore, *MemoryCache, *audit.MemoryRepo) {
	t.Helper()
	recs := sampleRecordings()
	recs[0].DownloadURL = audioURL
	recs[0].FileName = "r1.m4a"

	repo := NewMemoryRepo(recs...)
	blobs := objectstore.NewMemoryStore()
	blobs.Put("recordings/r1.m4a", []byte("audio-bytes"), "audio/mp4")
	cache := &MemoryCache{}
	events := audit.NewMemoryRepo()

	svc := NewService(repo, blobs, cache, audit.NewService(events), NewEngine(KeyByEmployeeID, seoul))
	return svc, repo, blobs, cache, events
}

func TestSnapshot_UsesCacheUntilRefresh(t *testing.T) {
	svc, repo, _, _, _ := newTestService(t)
	ctx := context.Background()

	first := svc.Snapshot(ctx, false)
	require.Len(t, first, 3)

	require.NoError(t, repo.Delete(ctx, "r3"))
	assert.Len(t, svc.Snapshot(ctx, false), 3)
	assert.Len(t, svc.Snapshot(ctx, true), 2)
}

func TestSnapshot_FailureYieldsEmpty(t *testing.T) {
	svc, repo, _, _, _ := newTestService(t)
	repo.Err = errors.New("store down")

	out := svc.Snapshot(context.Background(), true)
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func TestList_ReturnsErrors(t *testing.T) {
	svc, repo, _, _, _ := newTestService(t)
	repo.Err = errors.New("store down")

	_, err := svc.List(context.Background())
	assert.Error(t, err)
}

func TestSearch_FiltersAndListsEmployees(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	items, employees := svc.Search(context.Background(), Criteria{Employee: "E2"}, false)
	assert.Equal(t, []string{"r3"}, ids(items))
	assert.Equal(t, []string{"E1", "E2"}, employees)
}

func TestDelete_RemovesDocumentBlobAndAudits(t *testing.T) {
	svc, _, blobs, cache, events := newTestService(t)
	ctx := context.Background()
	svc.Snapshot(ctx, false)

	require.NoError(t, svc.Delete(ctx, audit.Actor{UserID: "admin"}, "r1"))

	_, err := svc.Get(ctx, "r1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, blobs.Has("recordings/r1.m4a"))

	_, cached, _ := cache.Load(ctx)
	assert.False(t, cached)

	evs := events.Events()
	require.Len(t, evs, 1)
	assert.Equal(t, audit.EventTypeRecordingDeleted, evs[0].Type)
	assert.Equal(t, "r1", evs[0].TargetID)
}

func TestDelete_BlobFailureIsNotReturned(t *testing.T) {
	svc, _, blobs, _, _ := newTestService(t)
	blobs.FailRemove = true

	require.NoError(t, svc.Delete(context.Background(), audit.Actor{UserID: "admin"}, "r1"))
	_, err := svc.Get(context.Background(), "r1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_Missing(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	assert.ErrorIs(t, svc.Delete(context.Background(), audit.Actor{}, "nope"), ErrNotFound)
}

func TestOpenAudio(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.OpenAudio(ctx, "r1")
	require.NoError(t, err)
	defer a.Body.Close()
	b, err := io.ReadAll(a.Body)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(b))
	assert.Equal(t, "audio/mp4", a.Info.ContentType)
	assert.Equal(t, "r1.m4a", a.Recording.FileName)

	_, err = svc.OpenAudio(ctx, "r2")
	assert.ErrorIs(t, err, ErrNoAudio)
}

func TestPresignAudio(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	ctx := context.Background()

	u, err := svc.PresignAudio(ctx, "r1", 5*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, "expires=300")

	_, err = svc.PresignAudio(ctx, "r1", 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
