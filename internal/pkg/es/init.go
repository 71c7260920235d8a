package es

import (
	"Inkwell/internal/api/config"
	"Inkwell/internal/pkg/logger"
	"context"
	"fmt"
	log "log/slog"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

var Client *elasticsearch.TypedClient

var PostIndex string

const (
	NotFoundCode = 404
	ConflictCode = 409
)

// InitClient 初始化 Elasticsearch 客户端，并确保帖子索引存在
func InitClient(elasticCfg config.ElasticConfig) error {
	PostIndex = elasticCfg.PostIndex

	cfg := elasticsearch.Config{
		Addresses: []string{elasticCfg.Address},
		Username:  elasticCfg.Username,
		Password:  elasticCfg.Password,
		Transport: &logger.ESTransport{
			Transport: http.DefaultTransport,
		},
	}

	var err error
	Client, err = elasticsearch.NewTypedClient(cfg)
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return err
	}

	ctx := context.Background()
	info, err := Client.Info().Do(ctx)
	if err != nil {
		log.Error("Cannot Connect to Elasticsearch", "err", err)
		return err
	}
	log.Info("Connected to Elasticsearch", "version", info.Version.Int)

	return ensurePostIndex(ctx)
}

func ensurePostIndex(ctx context.Context) error {
	exists, err := Client.Indices.Exists(PostIndex).Do(ctx)
	if err != nil {
		return fmt.Errorf("check index %s: %w", PostIndex, err)
	}
	if exists {
		return nil
	}

	_, err = Client.Indices.Create(PostIndex).
		Mappings(&types.TypeMapping{
			Properties: map[string]types.Property{
				"id":          types.NewLongNumberProperty(),
				"author_id":   types.NewLongNumberProperty(),
				"author_name": types.NewKeywordProperty(),
				"title":       types.NewTextProperty(),
				"content":     types.NewTextProperty(),
				"categories":  types.NewKeywordProperty(),
				"published":   types.NewBooleanProperty(),
				"created_at":  types.NewDateProperty(),
				"updated_at":  types.NewDateProperty(),
			},
		}).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("create index %s: %w", PostIndex, err)
	}
	log.Info("Elasticsearch index created", "index", PostIndex)
	return nil
}
