package service

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/pgvector/pgvector-go"
	"golang.org/x/sync/errgroup"

	"github.com/user/aisearch/internal/model"
	"github.com/user/aisearch/internal/repository"
)

// 固定的恐惧触发词表，提示词和结果解析共用
var phobiaVocabulary = []string{"spiders", "snakes", "clowns", "heights", "blood"}

const (
	translatePrompt = "Translate the following movie description into natural, professional Italian. Return ONLY the translation."

	animalHorrorPrompt = "Analyze if this movie belongs to the 'Animal Horror' sub-genre (animals or creatures as antagonists). " +
		"Answer ONLY with 'YES' or 'NO'."
)

// AIClient 文本生成与向量能力
type AIClient interface {
	Generate(ctx context.Context, system, input string) (string, error)
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex 向量索引写入与检索能力
type VectorIndex interface {
	Upsert(ctx context.Context, e *repository.IndexEntry) error
	Query(ctx context.Context, vector []float32, topK int) ([]repository.IndexHit, error)
	Rebuild(ctx context.Context) error
}

// EnrichStore AI 分析所需的仓库能力
type EnrichStore interface {
	ListPendingEnrichment(ctx context.Context, limit int) ([]*model.Movie, error)
	CommitEnrichment(ctx context.Context, m *model.Movie) error
}

// EnrichService 对未分类电影执行 AI 分析
// 每部电影发起四个并发调用：意大利语翻译、动物恐怖判定、恐惧触发词、简介向量
type EnrichService struct {
	store       EnrichStore
	ai          AIClient
	index       VectorIndex
	concurrency int
	batchSize   int
}

// NewEnrichService 创建分析服务
// concurrency 限制同时处理的电影数，batchSize 限制单次取出的待分析条数
func NewEnrichService(store EnrichStore, ai AIClient, index VectorIndex, concurrency, batchSize int) *EnrichService {
	if concurrency < 1 {
		concurrency = 1
	}
	if batchSize < 1 {
		batchSize = 500
	}
	return &EnrichService{
		store:       store,
		ai:          ai,
		index:       index,
		concurrency: concurrency,
		batchSize:   batchSize,
	}
}

// Run 处理一批待分析电影，返回处理条数
// 单部电影失败只记日志不中断整批
func (s *EnrichService) Run(ctx context.Context) (int, error) {
	movies, err := s.store.ListPendingEnrichment(ctx, s.batchSize)
	if err != nil {
		return 0, err
	}
	if len(movies) == 0 {
		return 0, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	processed := 0
	var mu sync.Mutex

	for _, movie := range movies {
		movie := movie
		// 空简介无法分析，不调用模型也不置标记
		if strings.TrimSpace(movie.DescriptionEN) == "" {
			continue
		}
		g.Go(func() error {
			if err := s.enrichOne(gctx, movie); err != nil {
				log.Printf("[Enrich] 处理 %s 失败: %v", movie.ID, err)
				return nil
			}
			mu.Lock()
			processed++
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return processed, err
	}

	log.Printf("[Enrich] 本批处理完成，共 %d 条", processed)
	return processed, nil
}

// enrichOne 分析单部电影：四个调用并发执行，单个调用失败降级为空结果
func (s *EnrichService) enrichOne(ctx context.Context, movie *model.Movie) error {
	var (
		descIT    string
		isHorror  string
		phobias   string
		embedding []float32
		wg        sync.WaitGroup
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		result, err := s.ai.Generate(ctx, translatePrompt, movie.DescriptionEN)
		if err != nil {
			log.Printf("[Enrich] 翻译 %s 失败: %v", movie.ID, err)
			return
		}
		descIT = strings.TrimSpace(result)
	}()
	go func() {
		defer wg.Done()
		result, err := s.ai.Generate(ctx, animalHorrorPrompt, movie.DescriptionEN)
		if err != nil {
			log.Printf("[Enrich] 类型判定 %s 失败: %v", movie.ID, err)
			return
		}
		isHorror = strings.TrimSpace(result)
	}()
	go func() {
		defer wg.Done()
		result, err := s.ai.Generate(ctx, phobiaPrompt(), movie.DescriptionEN)
		if err != nil {
			log.Printf("[Enrich] 触发词分析 %s 失败: %v", movie.ID, err)
			return
		}
		phobias = strings.TrimSpace(result)
	}()
	go func() {
		defer wg.Done()
		result, err := s.ai.Embed(ctx, movie.DescriptionEN)
		if err != nil {
			log.Printf("[Enrich] 向量生成 %s 失败: %v", movie.ID, err)
			return
		}
		embedding = result
	}()
	wg.Wait()

	movie.DescriptionIT = descIT
	movie.PhobiaWarnings = normalizePhobias(phobias)
	if strings.Contains(strings.ToUpper(isHorror), "YES") {
		movie.AppendGenre(model.GenreAnimalHorror)
	}

	// 向量生成失败不阻塞落库，标记照常置位，重嵌入走重置接口
	if len(embedding) > 0 {
		vec := pgvector.NewVector(embedding)
		movie.Embedding = &vec

		if err := s.index.Upsert(ctx, &repository.IndexEntry{
			ID:       movie.ID,
			Vector:   embedding,
			Title:    movie.Title,
			Year:     movie.Year,
			Document: movie.DescriptionEN,
		}); err != nil {
			log.Printf("[Enrich] 索引写入 %s 失败: %v", movie.ID, err)
		}
	}

	return s.store.CommitEnrichment(ctx, movie)
}

// phobiaPrompt 恐惧触发词提示
func phobiaPrompt() string {
	return "Analyze the movie description for these triggers: " + strings.Join(phobiaVocabulary, ", ") + ". " +
		"Return a comma-separated list of triggers found. If none, return 'NONE'. " +
		"Return ONLY the list."
}

// normalizePhobias NONE 哨兵值归一化为空串
func normalizePhobias(tags string) string {
	if strings.Contains(strings.ToUpper(tags), "NONE") {
		return ""
	}
	return tags
}
