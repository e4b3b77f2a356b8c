package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const vectorField = "embedding"

// IndexEntry 向量索引条目：向量 + 展示字段，整条覆盖写入
type IndexEntry struct {
	ID       string
	Vector   []float32
	Title    string
	Year     string
	Document string
}

// IndexHit 向量检索命中结果
// Distance 为余弦距离（1 - 余弦相似度），越小越相似
type IndexHit struct {
	ID       string
	Title    string
	Document string
	Distance float64
}

// EmbeddingIndex 电影简介向量索引（Milvus）
type EmbeddingIndex struct {
	milvus     client.Client
	collection string
	dim        int
}

// NewEmbeddingIndex 连接 Milvus 并创建向量索引，dim 为向量维度
func NewEmbeddingIndex(ctx context.Context, addr, collection string, dim int) (*EmbeddingIndex, error) {
	milvusClient, err := client.NewClient(ctx, client.Config{
		Address: addr,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to milvus failed: %v", err)
	}

	idx := &EmbeddingIndex{
		milvus:     milvusClient,
		collection: collection,
		dim:        dim,
	}
	if err := idx.ensureCollection(ctx); err != nil {
		milvusClient.Close()
		return nil, err
	}
	return idx, nil
}

// collectionSchema 向量集合结构：电影 ID 主键 + 简介向量 + 展示字段
func (idx *EmbeddingIndex) collectionSchema() *entity.Schema {
	return &entity.Schema{
		CollectionName: idx.collection,
		Description:    "Movie description embeddings for semantic search",
		Fields: []*entity.Field{
			{
				Name:       "id",
				DataType:   entity.FieldTypeVarChar,
				PrimaryKey: true,
				AutoID:     false,
				TypeParams: map[string]string{
					"max_length": "64",
				},
			},
			{
				Name:     vectorField,
				DataType: entity.FieldTypeFloatVector,
				TypeParams: map[string]string{
					"dim": fmt.Sprintf("%d", idx.dim),
				},
			},
			{
				Name:     "title",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "512",
				},
			},
			{
				Name:     "year",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "16",
				},
			},
			{
				Name:     "document",
				DataType: entity.FieldTypeVarChar,
				TypeParams: map[string]string{
					"max_length": "65535",
				},
			},
		},
	}
}

// ensureCollection 确保集合与索引可用，不存在则创建
func (idx *EmbeddingIndex) ensureCollection(ctx context.Context) error {
	exists, err := idx.milvus.HasCollection(ctx, idx.collection)
	if err != nil {
		return fmt.Errorf("check collection failed: %v", err)
	}

	if !exists {
		if err := idx.milvus.CreateCollection(ctx, idx.collectionSchema(), entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("create collection failed: %v", err)
		}

		index, err := entity.NewIndexHNSW(entity.COSINE, 16, 200)
		if err != nil {
			return fmt.Errorf("create index failed: %v", err)
		}
		if err := idx.milvus.CreateIndex(ctx, idx.collection, vectorField, index, false); err != nil {
			return fmt.Errorf("create index failed: %v", err)
		}
		log.Printf("[Milvus] 集合 %s 创建成功", idx.collection)
	}

	if err := idx.milvus.LoadCollection(ctx, idx.collection, false); err != nil {
		return fmt.Errorf("load collection failed: %v", err)
	}
	return nil
}

// Upsert 整条写入或覆盖一条索引记录，主键相同则覆盖
func (idx *EmbeddingIndex) Upsert(ctx context.Context, e *IndexEntry) error {
	idCol := entity.NewColumnVarChar("id", []string{e.ID})
	vecCol := entity.NewColumnFloatVector(vectorField, idx.dim, [][]float32{e.Vector})
	titleCol := entity.NewColumnVarChar("title", []string{e.Title})
	yearCol := entity.NewColumnVarChar("year", []string{e.Year})
	docCol := entity.NewColumnVarChar("document", []string{e.Document})

	if _, err := idx.milvus.Upsert(ctx, idx.collection, "", idCol, vecCol, titleCol, yearCol, docCol); err != nil {
		return fmt.Errorf("upsert vector failed: %v", err)
	}
	return nil
}

// Query 检索最相似的 topK 条记录
// Milvus COSINE 返回相似度，这里换算成距离，上层用 1 - 距离还原相似度
func (idx *EmbeddingIndex) Query(ctx context.Context, vector []float32, topK int) ([]IndexHit, error) {
	sp, err := entity.NewIndexHNSWSearchParam(128)
	if err != nil {
		return nil, fmt.Errorf("create search param failed: %v", err)
	}

	results, err := idx.milvus.Search(ctx,
		idx.collection,
		nil,
		"",
		[]string{"id", "title", "document"},
		[]entity.Vector{entity.FloatVector(vector)},
		vectorField,
		entity.COSINE,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("search vectors failed: %v", err)
	}

	var hits []IndexHit
	for _, result := range results {
		idCol, _ := result.Fields.GetColumn("id").(*entity.ColumnVarChar)
		titleCol, _ := result.Fields.GetColumn("title").(*entity.ColumnVarChar)
		docCol, _ := result.Fields.GetColumn("document").(*entity.ColumnVarChar)
		if idCol == nil {
			continue
		}
		for i := 0; i < result.ResultCount; i++ {
			hit := IndexHit{
				ID:       idCol.Data()[i],
				Distance: 1 - float64(result.Scores[i]),
			}
			if titleCol != nil {
				hit.Title = titleCol.Data()[i]
			}
			if docCol != nil {
				hit.Document = docCol.Data()[i]
			}
			hits = append(hits, hit)
		}
	}
	return hits, nil
}

// Rebuild 清空并重建集合，用于从数据库全量重灌向量
func (idx *EmbeddingIndex) Rebuild(ctx context.Context) error {
	exists, err := idx.milvus.HasCollection(ctx, idx.collection)
	if err != nil {
		return fmt.Errorf("check collection failed: %v", err)
	}
	if exists {
		if err := idx.milvus.DropCollection(ctx, idx.collection); err != nil {
			return fmt.Errorf("drop collection failed: %v", err)
		}
	}
	return idx.ensureCollection(ctx)
}

// Close 关闭 Milvus 连接
func (idx *EmbeddingIndex) Close() error {
	return idx.milvus.Close()
}
