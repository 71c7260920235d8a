package service

import (
	"Inkwell/internal/api/dto"
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/minio"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/pkg/util"
	"bytes"
	"context"
	log "log/slog"
	"path"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// UploadedImage 上传结果
type UploadedImage struct {
	URL      string
	PublicID string
	Width    int
	Height   int
}

type MediaService interface {
	UploadImage(ctx context.Context, userID uint64, file string) (*UploadedImage, error)
	DeleteImage(ctx context.Context, userID uint64, publicID string) (bool, error)
}

type mediaServiceImpl struct {
	store    minio.ObjectStore
	folder   string
	maxBytes int64
	now      func() time.Time
}

func NewMediaService(store minio.ObjectStore, folder string, maxBytes int64) MediaService {
	return &mediaServiceImpl{
		store:    store,
		folder:   strings.Trim(folder, "/"),
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// UploadImage file 为 data URL 或纯 base64，只接受图片
func (s *mediaServiceImpl) UploadImage(ctx context.Context, userID uint64, file string) (*UploadedImage, error) {
	if userID == 0 {
		return nil, unauthenticated("upload images")
	}

	data, declared, err := util.DecodeFilePayload(file)
	if err != nil {
		return nil, paramError("Invalid image payload")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	contentType := util.SniffContentType(data)
	if util.ImageExt(contentType) == "" {
		log.WarnContext(ctx, "rejected upload", "declared", declared, "detected", contentType)
		return nil, ErrFileNotSupported
	}

	body, width, height, err := util.PrepareImage(data, contentType)
	if err != nil {
		log.WarnContext(ctx, "decode image failed", "contentType", contentType, "err", err)
		return nil, ErrFileNotSupported
	}

	objectName := path.Join(s.folder, s.now().Format("2006/01/02"), uuid.NewString()+util.ImageExt(contentType))
	key, err := s.store.UploadFile(ctx, objectName, bytes.NewReader(body), int64(len(body)), contentType)
	if err != nil {
		log.ErrorContext(ctx, "upload image failed", "object", objectName, "err", err)
		return nil, ErrUploadFailed
	}

	// 记录为临时对象，被帖子引用前由清理任务兜底删除
	meta, _ := json.Marshal(&dto.MediaTempMetadata{
		MimeType:  contentType,
		Width:     width,
		Height:    height,
		CreatedAt: s.now().Unix(),
	})
	if err = redis.HSet(ctx, consts.MediaTempKey, key, string(meta)); err != nil {
		log.WarnContext(ctx, "record temp media failed", "object", key, "err", err)
	}

	return &UploadedImage{
		URL:      s.store.GetPublicURL(key),
		PublicID: key,
		Width:    width,
		Height:   height,
	}, nil
}

// DeleteImage 删除失败时返回 false 而不是错误
func (s *mediaServiceImpl) DeleteImage(ctx context.Context, userID uint64, publicID string) (bool, error) {
	if userID == 0 {
		return false, unauthenticated("delete images")
	}
	publicID = strings.TrimSpace(publicID)
	if publicID == "" || !strings.HasPrefix(publicID, s.folder+"/") || strings.Contains(publicID, "..") {
		return false, nil
	}
	if err := s.store.DeleteFile(ctx, publicID); err != nil {
		log.WarnContext(ctx, "delete image failed", "object", publicID, "err", err)
		return false, nil
	}
	if err := redis.HDel(ctx, consts.MediaTempKey, publicID); err != nil {
		log.WarnContext(ctx, "forget temp media failed", "object", publicID, "err", err)
	}
	return true, nil
}
