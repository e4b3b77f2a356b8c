package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/user/aisearch/internal/model"
)

// ErrEmbeddingUnavailable 查询向量生成失败
// 上层据此区分"无结果"和"无法搜索"两种情况
var ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

// SearchService 语义搜索：查询文本转向量后检索相似简介
type SearchService struct {
	ai    AIClient
	index VectorIndex
	group singleflight.Group
}

// NewSearchService 创建搜索服务
func NewSearchService(ai AIClient, index VectorIndex) *SearchService {
	return &SearchService{
		ai:    ai,
		index: index,
	}
}

// Search 语义检索，得分为余弦相似度（1 - 距离），按索引返回顺序排列
// 并发的相同查询会合并为一次下游调用
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	if limit < 1 {
		limit = 10
	}

	key := fmt.Sprintf("%s|%d", query, limit)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.search(ctx, query, limit)
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.SearchResult), nil
}

func (s *SearchService) search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	vector, err := s.ai.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}

	hits, err := s.index.Query(ctx, vector, limit)
	if err != nil {
		return nil, fmt.Errorf("query index failed: %v", err)
	}

	results := make([]model.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, model.SearchResult{
			ID:          hit.ID,
			Title:       hit.Title,
			Score:       1 - hit.Distance,
			Description: hit.Document,
		})
	}
	return results, nil
}
