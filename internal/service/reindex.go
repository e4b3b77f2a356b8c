package service

import (
	"context"
	"fmt"
	"log"

	"github.com/user/aisearch/internal/model"
	"github.com/user/aisearch/internal/repository"
)

// ReindexStore 重建索引所需的仓库能力
type ReindexStore interface {
	ListEmbedded(ctx context.Context) ([]*model.Movie, error)
	ResetClassification(ctx context.Context, id string) (bool, error)
}

// ReindexService 索引修复：单条重分析或全量重建向量索引
type ReindexService struct {
	store ReindexStore
	index VectorIndex
}

// NewReindexService 创建索引修复服务
func NewReindexService(store ReindexStore, index VectorIndex) *ReindexService {
	return &ReindexService{
		store: store,
		index: index,
	}
}

// ResetMovie 重置单部电影的分类标记，下一轮后台任务会重新分析并重嵌入
// 返回 false 表示电影不存在
func (s *ReindexService) ResetMovie(ctx context.Context, id string) (bool, error) {
	return s.store.ResetClassification(ctx, id)
}

// RebuildIndex 从数据库存量向量全量重建 Milvus 集合，不发起任何模型调用
func (s *ReindexService) RebuildIndex(ctx context.Context) (int, error) {
	movies, err := s.store.ListEmbedded(ctx)
	if err != nil {
		return 0, err
	}

	if err := s.index.Rebuild(ctx); err != nil {
		return 0, fmt.Errorf("rebuild collection failed: %v", err)
	}

	count := 0
	for _, movie := range movies {
		if movie.Embedding == nil {
			continue
		}
		entry := &repository.IndexEntry{
			ID:       movie.ID,
			Vector:   movie.Embedding.Slice(),
			Title:    movie.Title,
			Year:     movie.Year,
			Document: movie.DescriptionEN,
		}
		if err := s.index.Upsert(ctx, entry); err != nil {
			log.Printf("[Reindex] 写入 %s 失败: %v", movie.ID, err)
			continue
		}
		count++
	}

	log.Printf("[Reindex] 索引重建完成，共 %d 条", count)
	return count, nil
}
