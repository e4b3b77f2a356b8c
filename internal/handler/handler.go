package handler

import (
	"context"
	"log"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/user/aisearch/internal/config"
	"github.com/user/aisearch/internal/model"
	"github.com/user/aisearch/internal/service"
	"github.com/user/aisearch/internal/utils"
)

// SearchFunc 语义搜索入口，便于测试时替换
type SearchFunc func(ctx context.Context, query string, limit int) ([]model.SearchResult, error)

// MovieStore 处理器所需的电影查询能力
type MovieStore interface {
	FindByID(ctx context.Context, id string) (*model.Movie, error)
	CountAll(ctx context.Context) (int, error)
	CountPending(ctx context.Context) (int, error)
}

// Handler HTTP 处理器
type Handler struct {
	Movies      MovieStore
	Config      *config.Config
	Search      SearchFunc
	Reindex     *service.ReindexService
	searchCache *utils.SearchCache[[]model.Meta]
	metaCache   *gocache.Cache
}

// NewHandler 创建处理器
func NewHandler(movies MovieStore, cfg *config.Config, search SearchFunc, reindex *service.ReindexService) *Handler {
	searchCache, err := utils.NewSearchCache[[]model.Meta](cfg.SearchCacheSize, cfg.SearchCacheTTL)
	if err != nil {
		log.Fatalf("[Handler] 创建搜索缓存失败: %v", err)
	}

	return &Handler{
		Movies:      movies,
		Config:      cfg,
		Search:      search,
		Reindex:     reindex,
		searchCache: searchCache,
		metaCache:   gocache.New(12*time.Hour, 30*time.Minute),
	}
}
