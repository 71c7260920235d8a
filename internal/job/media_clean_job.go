package job

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/logger"
	"Inkwell/internal/pkg/minio"
	"Inkwell/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	mediaTempExpiration = 24 * time.Hour
	mediaCleanupLockTTL = 10 * time.Minute
)

// MediaCleanupJob 删除上传后超过 24 小时仍未被帖子引用的图片
type MediaCleanupJob struct {
	store minio.ObjectStore
	now   func() time.Time
}

func NewMediaCleanupJob(store minio.ObjectStore) *MediaCleanupJob {
	return &MediaCleanupJob{store: store, now: time.Now}
}

func (s *MediaCleanupJob) Run() {
	traceID := "job-media-cleanup-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	ok, err := redis.TryLock(ctx, consts.MediaCleanupLock, traceID, mediaCleanupLockTTL, 0)
	if err != nil {
		log.ErrorContext(ctx, "acquire media cleanup lock error", "err", err)
		return
	}
	if !ok {
		return
	}
	defer redis.UnLock(ctx, consts.MediaCleanupLock, traceID)

	allMedia, err := redis.HGetAll(ctx, consts.MediaTempKey)
	if err != nil {
		log.ErrorContext(ctx, "failed to get media temp hash", "err", err)
		return
	}

	deadline := s.now().Add(-mediaTempExpiration).Unix()
	count := 0

	for fileKey, val := range allMedia {
		var meta dto.MediaTempMetadata
		if err = json.Unmarshal([]byte(val), &meta); err != nil {
			log.WarnContext(ctx, "invalid media meta format", "fileKey", fileKey)
			continue
		}
		if meta.CreatedAt > deadline {
			continue
		}

		if err = s.store.DeleteFile(ctx, fileKey); err != nil {
			log.ErrorContext(ctx, "failed to delete expired file from minio", "fileKey", fileKey, "err", err)
			continue
		}
		if err = redis.HDel(ctx, consts.MediaTempKey, fileKey); err != nil {
			log.ErrorContext(ctx, "failed to remove media token from redis", "fileKey", fileKey, "err", err)
		}

		count++
		log.InfoContext(ctx, "cleanup expired media resource", "fileKey", fileKey, "mime", meta.MimeType)
	}

	if count > 0 {
		log.InfoContext(ctx, "media cleanup job finished", "cleaned_count", count)
	}
}
