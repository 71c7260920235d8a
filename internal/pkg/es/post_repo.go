package es

import (
	"Inkwell/internal/pkg/util"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

type PostRepo interface {
	IndexPost(ctx context.Context, post *PostES, version int64) error
	DeletePost(ctx context.Context, id uint64) error
	SearchPostIDs(ctx context.Context, queryText string, from, size int) ([]uint64, error)
}

type PostRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewPostRepo(client *elasticsearch.TypedClient) PostRepo {
	return &PostRepoImpl{client: client}
}

// IndexPost 以外部版本号写入，旧版本覆盖新版本时静默忽略
func (s *PostRepoImpl) IndexPost(ctx context.Context, post *PostES, version int64) error {
	docID := strconv.FormatUint(post.ID, 10)

	_, err := s.client.Index(PostIndex).
		Id(docID).
		Document(post).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == ConflictCode {
			return nil
		}
		return err
	}
	return nil
}

func (s *PostRepoImpl) DeletePost(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(PostIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			return nil
		}
		return err
	}
	return nil
}

// SearchPostIDs 全文检索已发布帖子，返回按相关度排序的帖子 ID
func (s *PostRepoImpl) SearchPostIDs(ctx context.Context, queryText string, from, size int) ([]uint64, error) {
	if queryText == "" || from >= MaxSearchDepth {
		return []uint64{}, nil
	}
	if from+size > MaxSearchDepth {
		size = MaxSearchDepth - from
	}

	resp, err := s.client.Search().
		Index(PostIndex).
		Query(buildSearchQuery(queryText)).
		Sort(
			types.SortOptions{Score_: &types.ScoreSort{Order: &sortorder.Desc}},
			types.SortOptions{SortOptions: map[string]types.FieldSort{"created_at": {Order: &sortorder.Desc}}},
		).
		Source_(&types.SourceFilter{Includes: []string{"id"}}).
		From(from).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var doc struct {
			ID uint64 `json:"id"`
		}
		if err = json.Unmarshal(hit.Source_, &doc); err != nil {
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func buildSearchQuery(text string) *types.Query {
	return &types.Query{
		Bool: &types.BoolQuery{
			Should: []types.Query{
				{
					MultiMatch: &types.MultiMatchQuery{
						Query:  text,
						Fields: []string{"title^3", "content", "categories^2", "author_name"},
						Boost:  util.Ptr[float32](2.0),
					},
				},
				{
					MultiMatch: &types.MultiMatchQuery{
						Query:     text,
						Fields:    []string{"title", "content"},
						Fuzziness: util.Ptr("AUTO"),
						Boost:     util.Ptr[float32](0.5),
					},
				},
			},
			MinimumShouldMatch: 1,
			Filter: []types.Query{
				{Term: map[string]types.TermQuery{"published": {Value: true}}},
			},
		},
	}
}
