package minio

import (
	"Inkwell/internal/api/config"
	"context"
	"fmt"
	log "log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	// Client 全局 MinIO 客户端实例
	Client *minio.Client
	// Bucket 图片存储桶
	Bucket string
	// publicBase 对外访问地址前缀
	publicBase string
)

// 允许匿名读取桶内对象
const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// Init 初始化 MinIO 客户端
func Init(cfg config.MinIOConfig) error {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize minio client: %w", err)
	}

	ctx := context.Background()
	if _, err = client.ListBuckets(ctx); err != nil {
		return fmt.Errorf("failed to connect to minio server: %w", err)
	}

	Client = client
	Bucket = cfg.Bucket
	publicBase = buildPublicBase(cfg)
	return ensureBucket(ctx)
}

// ensureBucket 桶不存在时创建，并设置公共读策略
func ensureBucket(ctx context.Context) error {
	exists, err := Client.BucketExists(ctx, Bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		log.Info("MinIO bucket ready", "bucket", Bucket)
		return nil
	}

	if err = Client.MakeBucket(ctx, Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	if err = Client.SetBucketPolicy(ctx, Bucket, fmt.Sprintf(publicReadPolicy, Bucket)); err != nil {
		return fmt.Errorf("set bucket policy: %w", err)
	}
	log.Info("MinIO bucket created with public read policy", "bucket", Bucket)
	return nil
}

func buildPublicBase(cfg config.MinIOConfig) string {
	endpoint := cfg.PublicEndpoint
	if endpoint == "" {
		endpoint = cfg.Endpoint
	}
	protocol := "http"
	if cfg.UseSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/", protocol, endpoint, cfg.Bucket)
}
