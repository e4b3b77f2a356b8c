package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/user/aisearch/internal/handler"
	"github.com/user/aisearch/internal/middleware"
)

// New 创建 gin 引擎并注册全部路由
func New(h *handler.Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Stremio 客户端跑在浏览器环境里，必须放开跨域
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"*"}
	r.Use(cors.New(corsConfig))

	// ==================== 插件协议 ====================
	r.GET("/manifest.json", h.Manifest)
	r.GET("/catalog/movie/ai_search.json", h.Catalog)
	r.GET("/catalog/movie/ai_search/:extra", h.CatalogSearch)
	r.GET("/meta/movie/:id", h.Meta)
	r.GET("/stream/movie/:id", h.Stream)

	// ==================== 管理接口 ====================
	r.GET("/health", h.Health)
	api := r.Group("/api")
	{
		api.GET("/search", h.APISearch)
		api.GET("/stats", h.Stats)
		api.POST("/reindex", h.ReindexAll)
		api.POST("/reindex/:id", h.ReindexMovie)
	}

	return r
}
