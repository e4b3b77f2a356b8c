package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/user/aisearch/internal/service"
	"github.com/user/aisearch/internal/utils"
)

// ==================== 管理接口 ====================

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stats 库存统计
func (h *Handler) Stats(c *gin.Context) {
	total, err := h.Movies.CountAll(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "统计查询失败")
		return
	}
	pending, err := h.Movies.CountPending(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "统计查询失败")
		return
	}

	utils.Success(c, gin.H{
		"total":   total,
		"pending": pending,
	})
}

// APISearch 语义搜索接口（调试与外部集成用）
func (h *Handler) APISearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		utils.Error(c, http.StatusBadRequest, "缺少查询参数 q")
		return
	}

	limit := searchLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	results, err := h.Search(c.Request.Context(), query, limit)
	if err != nil {
		if errors.Is(err, service.ErrEmbeddingUnavailable) {
			utils.Error(c, http.StatusBadGateway, "向量服务不可用")
			return
		}
		utils.Error(c, http.StatusInternalServerError, "搜索失败")
		return
	}

	utils.Success(c, gin.H{
		"query":   query,
		"results": results,
	})
}

// ReindexMovie 重置单部电影的分类标记，下一轮后台任务重新分析
func (h *Handler) ReindexMovie(c *gin.Context) {
	id := c.Param("id")

	found, err := h.Reindex.ResetMovie(c.Request.Context(), id)
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "重置失败")
		return
	}
	if !found {
		utils.Error(c, http.StatusNotFound, "电影不存在")
		return
	}

	utils.Success(c, gin.H{"id": id})
}

// ReindexAll 从数据库存量向量全量重建向量索引
func (h *Handler) ReindexAll(c *gin.Context) {
	count, err := h.Reindex.RebuildIndex(c.Request.Context())
	if err != nil {
		utils.Error(c, http.StatusInternalServerError, "索引重建失败")
		return
	}

	utils.Success(c, gin.H{"indexed": count})
}
