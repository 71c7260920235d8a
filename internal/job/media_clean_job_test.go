package job

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/redis"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu      sync.Mutex
	deleted []string
	fail    map[string]bool
}

func (f *fakeStore) UploadFile(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeStore) DeleteFile(_ context.Context, objectName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[objectName] {
		return errors.New("minio unavailable")
	}
	f.deleted = append(f.deleted, objectName)
	return nil
}

func (f *fakeStore) GetPublicURL(objectName string) string { return objectName }

func (f *fakeStore) ObjectNameFromURL(url string) (string, bool) { return url, true }

func setupMediaCleanup(t *testing.T) (*miniredis.Miniredis, *fakeStore, *MediaCleanupJob) {
	t.Helper()
	mr := miniredis.RunT(t)
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redis.Rdb.Close() })

	store := &fakeStore{fail: map[string]bool{}}
	job := NewMediaCleanupJob(store)
	job.now = func() time.Time { return time.Unix(1_000_000, 0) }
	return mr, store, job
}

func TestMediaCleanupJob_Run(t *testing.T) {
	mr, store, job := setupMediaCleanup(t)

	mr.HSet(consts.MediaTempKey, "blog/old.png", `{"mime_type":"image/png","created_at":900000}`)
	mr.HSet(consts.MediaTempKey, "blog/fresh.png", `{"mime_type":"image/png","created_at":999000}`)
	mr.HSet(consts.MediaTempKey, "blog/broken.png", `not json`)
	mr.HSet(consts.MediaTempKey, "blog/stuck.png", `{"created_at":1}`)
	store.fail["blog/stuck.png"] = true

	job.Run()

	assert.Equal(t, []string{"blog/old.png"}, store.deleted)
	keys, err := mr.HKeys(consts.MediaTempKey)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"blog/fresh.png", "blog/broken.png", "blog/stuck.png"}, keys)
	assert.False(t, mr.Exists(consts.MediaCleanupLock))
}

func TestMediaCleanupJob_SkipWhenLocked(t *testing.T) {
	mr, store, job := setupMediaCleanup(t)
	mr.HSet(consts.MediaTempKey, "blog/old.png", `{"created_at":1}`)
	require.NoError(t, mr.Set(consts.MediaCleanupLock, "other"))

	job.Run()

	assert.Empty(t, store.deleted)
	assert.True(t, mr.Exists(consts.MediaTempKey))
}
