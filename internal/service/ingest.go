package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/user/aisearch/internal/model"
)

// MovieStore 订阅源写入所需的仓库能力
type MovieStore interface {
	UpsertFromFeed(ctx context.Context, m *model.Movie) error
}

// IngestService 从上游目录源同步电影数据
type IngestService struct {
	store   MovieStore
	baseURL string
	client  *http.Client
}

// NewIngestService 创建同步服务，baseURL 指向上游目录地址（不含 .json 后缀）
func NewIngestService(store MovieStore, baseURL string) *IngestService {
	return &IngestService{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Run 拉取全部分页并落库，返回同步条数
// 分页终止条件：上游返回 404 或空页
func (s *IngestService) Run(ctx context.Context) (int, error) {
	total := 0
	skip := 0

	for {
		url := s.baseURL + ".json"
		if skip > 0 {
			url = fmt.Sprintf("%s/skip=%d.json", s.baseURL, skip)
		}

		page, done, err := s.fetchPage(ctx, url)
		if err != nil {
			return total, err
		}
		if done || len(page.Metas) == 0 {
			break
		}

		for i := range page.Metas {
			movie := feedMetaToMovie(&page.Metas[i])
			if movie.ID == "" {
				continue
			}
			if err := s.store.UpsertFromFeed(ctx, movie); err != nil {
				return total, fmt.Errorf("save movie %s failed: %v", movie.ID, err)
			}
			total++
		}

		skip += len(page.Metas)
	}

	log.Printf("[Ingest] 同步完成，共 %d 条", total)
	return total, nil
}

// fetchPage 拉取一页目录数据，done 为 true 表示上游已无更多数据
func (s *IngestService) fetchPage(ctx context.Context, url string) (*model.FeedPage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request failed: %v", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetch catalog page failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, true, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("catalog source returned status %d", resp.StatusCode)
	}

	var page model.FeedPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, false, fmt.Errorf("decode catalog page failed: %v", err)
	}
	return &page, false, nil
}

// feedMetaToMovie 把上游条目转换为电影记录，genres 兼容数组和字符串两种形式
func feedMetaToMovie(fm *model.FeedMeta) *model.Movie {
	genres := ""
	switch v := fm.Genres.(type) {
	case string:
		genres = v
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, g := range v {
			if gs, ok := g.(string); ok && gs != "" {
				parts = append(parts, gs)
			}
		}
		genres = strings.Join(parts, ", ")
	}

	return &model.Movie{
		ID:            fm.ID,
		Title:         fm.Name,
		DescriptionEN: fm.Description,
		Year:          fm.ReleaseInfo,
		Poster:        fm.Poster,
		Background:    fm.Background,
		Genres:        genres,
	}
}
