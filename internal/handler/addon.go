package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/user/aisearch/internal/model"
	"github.com/user/aisearch/internal/service"
)

const searchLimit = 10

// ==================== 插件协议接口 ====================

// Manifest 插件能力声明
func (h *Handler) Manifest(c *gin.Context) {
	c.Header("Cache-Control", "max-age=86400, public")
	c.JSON(http.StatusOK, model.Manifest{
		ID:          "org.antigravity.aisearch",
		Version:     "1.0.1",
		Name:        "AI Semantic Search",
		Description: "Search your library using natural language and AI.",
		Types:       []string{"movie"},
		Catalogs: []model.ManifestCatalog{
			{
				Type: "movie",
				ID:   "ai_search",
				Name: "AI Search",
				Extra: []model.CatalogExtra{
					{Name: "search", IsRequired: false},
				},
			},
		},
		Resources:  []string{"catalog", "stream", "meta"},
		IDPrefixes: []string{model.IDPrefix},
	})
}

// Catalog 目录页（无查询词时返回空目录）
func (h *Handler) Catalog(c *gin.Context) {
	c.Header("Cache-Control", "max-age=3600, public")
	c.JSON(http.StatusOK, model.CatalogResponse{Metas: []model.Meta{}})
}

// CatalogSearch 语义搜索目录页
// 路径形如 /catalog/movie/ai_search/search=giant%20sharks.json
func (h *Handler) CatalogSearch(c *gin.Context) {
	c.Header("Cache-Control", "max-age=3600, public")

	query := parseSearchExtra(c.Param("extra"))
	if query == "" {
		c.JSON(http.StatusOK, model.CatalogResponse{Metas: []model.Meta{}})
		return
	}

	// 命中缓存直接返回
	if metas, ok := h.searchCache.Get(query); ok {
		c.JSON(http.StatusOK, model.CatalogResponse{Metas: metas})
		return
	}

	results, err := h.Search(c.Request.Context(), query, searchLimit)
	if err != nil {
		// 失败结果不进缓存，下次请求重试
		if errors.Is(err, service.ErrEmbeddingUnavailable) {
			log.Printf("[Addon] 搜索 %q 失败，向量服务不可用: %v", query, err)
		} else {
			log.Printf("[Addon] 搜索 %q 失败: %v", query, err)
		}
		c.JSON(http.StatusOK, model.CatalogResponse{Metas: []model.Meta{}})
		return
	}

	metas := make([]model.Meta, 0, len(results))
	for _, r := range results {
		metas = append(metas, model.Meta{
			ID:          model.IDPrefix + r.ID,
			Type:        "movie",
			Name:        r.Title,
			Description: r.Description,
		})
	}

	h.searchCache.Set(query, metas)
	c.JSON(http.StatusOK, model.CatalogResponse{Metas: metas})
}

// Meta 单部电影详情
func (h *Handler) Meta(c *gin.Context) {
	c.Header("Cache-Control", "max-age=43200, public")

	requestID := strings.TrimSuffix(c.Param("id"), ".json")

	if cached, ok := h.metaCache.Get(requestID); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	cleanID := strings.TrimPrefix(requestID, model.IDPrefix)
	movie, err := h.Movies.FindByID(c.Request.Context(), cleanID)
	if err != nil {
		log.Printf("[Addon] 查询电影 %s 失败: %v", cleanID, err)
	}

	// 未知 ID 返回占位详情而不是 404，客户端按正常详情渲染
	if movie == nil {
		c.JSON(http.StatusOK, model.MetaResponse{
			Meta: model.Meta{
				ID:   requestID,
				Type: "movie",
				Name: "Unknown",
			},
		})
		return
	}

	resp := model.MetaResponse{
		Meta: model.Meta{
			ID:          requestID,
			Type:        "movie",
			Name:        movie.Title,
			Description: movie.DescriptionEN,
			ReleaseInfo: movie.Year,
			Poster:      movie.Poster,
			Background:  movie.Background,
			Genres:      movie.GenreList(),
		},
	}
	h.metaCache.SetDefault(requestID, resp)
	c.JSON(http.StatusOK, resp)
}

// Stream 播放流解析
// 优先级：远程 url 原样返回 → 本地 path 拼接文件服务地址 → 提示无可用源
func (h *Handler) Stream(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")

	requestID := strings.TrimSuffix(c.Param("id"), ".json")
	cleanID := strings.TrimPrefix(requestID, model.IDPrefix)

	movie, err := h.Movies.FindByID(c.Request.Context(), cleanID)
	if err != nil {
		log.Printf("[Addon] 查询电影 %s 失败: %v", cleanID, err)
	}
	if movie == nil {
		c.JSON(http.StatusOK, model.StreamResponse{Streams: []model.Stream{}})
		return
	}

	source := movie.URL
	title := "Stream"
	if source == "" && movie.Path != "" {
		source = movie.Path
		title = "Local File"
	}

	// 没有任何可用源也返回正常响应，绝不报 HTTP 错误
	if source == "" {
		c.JSON(http.StatusOK, model.StreamResponse{
			Streams: []model.Stream{
				{Title: "No URL found in DB"},
			},
		})
		return
	}

	// 本地路径必须改写成文件服务器地址，客户端无法直接播放服务器本地文件
	if strings.HasPrefix(source, "/") {
		source = strings.TrimRight(h.Config.FileServerURL, "/") + "/" + strings.TrimLeft(source, "/")
	}

	c.JSON(http.StatusOK, model.StreamResponse{
		Streams: []model.Stream{
			{Title: title, URL: source},
		},
	})
}

// parseSearchExtra 解析目录附加参数，形如 search=xxx.json
func parseSearchExtra(extra string) string {
	extra = strings.TrimSuffix(extra, ".json")
	if !strings.HasPrefix(extra, "search=") {
		return ""
	}
	// 路由匹配时路径段已完成百分号解码，这里不再二次解码
	return strings.TrimSpace(strings.TrimPrefix(extra, "search="))
}
