package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ObjectStore 图片服务依赖的对象存储能力
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	DeleteFile(ctx context.Context, objectName string) error
	GetPublicURL(objectName string) string
	ObjectNameFromURL(url string) (string, bool)
}

type bucketStore struct{}

// NewObjectStore 基于全局客户端的对象存储
func NewObjectStore() ObjectStore {
	return bucketStore{}
}

func (bucketStore) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	return UploadFile(ctx, objectName, reader, size, contentType)
}

func (bucketStore) DeleteFile(ctx context.Context, objectName string) error {
	return DeleteFile(ctx, objectName)
}

func (bucketStore) GetPublicURL(objectName string) string {
	return GetPublicURL(objectName)
}

func (bucketStore) ObjectNameFromURL(url string) (string, bool) {
	return ObjectNameFromURL(url)
}

// UploadFile 上传文件到MinIO
func UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, Bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// DeleteFile 删除MinIO中的文件
func DeleteFile(ctx context.Context, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	err := Client.RemoveObject(ctx, Bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// GetPublicURL 获取文件的公共访问URL
func GetPublicURL(objectName string) string {
	return publicBase + objectName
}

// ObjectNameFromURL 从公共 URL 还原对象名，非本桶地址返回 false
func ObjectNameFromURL(url string) (string, bool) {
	if publicBase == "" || !strings.HasPrefix(url, publicBase) {
		return "", false
	}
	name := strings.TrimPrefix(url, publicBase)
	return name, name != ""
}
