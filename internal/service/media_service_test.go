package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/redis"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	objects   map[string][]byte
	uploadErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (m *memoryStore) UploadFile(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	m.objects[objectName] = data
	return objectName, nil
}

func (m *memoryStore) DeleteFile(_ context.Context, objectName string) error {
	if _, ok := m.objects[objectName]; !ok {
		return errors.New("no such object")
	}
	delete(m.objects, objectName)
	return nil
}

func (m *memoryStore) GetPublicURL(objectName string) string {
	return "http://cdn.test/inkwell/" + objectName
}

func (m *memoryStore) ObjectNameFromURL(url string) (string, bool) {
	return strings.CutPrefix(url, "http://cdn.test/inkwell/")
}

func pngPayload(t *testing.T, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newTestMediaService(t *testing.T, store *memoryStore, maxBytes int64) *mediaServiceImpl {
	t.Helper()
	setupTestRedis(t)
	svc := NewMediaService(store, "/blog/", maxBytes).(*mediaServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestUploadImage(t *testing.T) {
	store := newMemoryStore()
	svc := newTestMediaService(t, store, 1<<20)
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, 0, pngPayload(t, 4, 4))
	assert.EqualError(t, err, "You must be logged in to upload images")

	result, err := svc.UploadImage(ctx, 1, pngPayload(t, 40, 20))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.PublicID, "blog/2024/03/09/"))
	assert.True(t, strings.HasSuffix(result.PublicID, ".png"))
	assert.Equal(t, "http://cdn.test/inkwell/"+result.PublicID, result.URL)
	assert.Equal(t, 40, result.Width)
	assert.Equal(t, 20, result.Height)
	assert.Contains(t, store.objects, result.PublicID)

	var meta dto.MediaTempMetadata
	raw, err := redis.Rdb.HGet(ctx, consts.MediaTempKey, result.PublicID).Result()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(raw), &meta))
	assert.Equal(t, "image/png", meta.MimeType)
	assert.Equal(t, int64(1709942400), meta.CreatedAt)

	_, err = svc.UploadImage(ctx, 1, "data:text/plain;base64,"+base64.StdEncoding.EncodeToString([]byte("hello")))
	assert.ErrorIs(t, err, ErrFileNotSupported)

	_, err = svc.UploadImage(ctx, 1, "%%%")
	assert.ErrorIs(t, err, ErrParamInvalid)

	store.uploadErr = errors.New("bucket gone")
	_, err = svc.UploadImage(ctx, 1, pngPayload(t, 4, 4))
	assert.ErrorIs(t, err, ErrUploadFailed)
}

func TestUploadImage_TooLarge(t *testing.T) {
	svc := newTestMediaService(t, newMemoryStore(), 16)
	_, err := svc.UploadImage(context.Background(), 1, pngPayload(t, 40, 40))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestDeleteImage(t *testing.T) {
	store := newMemoryStore()
	svc := newTestMediaService(t, store, 1<<20)
	ctx := context.Background()

	result, err := svc.UploadImage(ctx, 1, pngPayload(t, 4, 4))
	require.NoError(t, err)

	_, err = svc.DeleteImage(ctx, 0, result.PublicID)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	ok, err := svc.DeleteImage(ctx, 1, "other/secret.png")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.DeleteImage(ctx, 1, "blog/../other/secret.png")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.DeleteImage(ctx, 1, result.PublicID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, store.objects)
	assert.Zero(t, redis.Rdb.HLen(ctx, consts.MediaTempKey).Val())

	ok, err = svc.DeleteImage(ctx, 1, result.PublicID)
	require.NoError(t, err)
	assert.False(t, ok)
}
