package model

import (
	"strings"
	"time"

	"github.com/pgvector/pgvector-go"
)

// GenreAnimalHorror 由分类任务派生的类型标签
const GenreAnimalHorror = "Animal Horror"

// Movie 电影记录（目录数据 + AI 补充字段）
// 可选字段统一用空字符串表示缺失，在仓库层扫描时一次性处理 NULL
type Movie struct {
	ID             string           `json:"id" db:"id"`
	Title          string           `json:"title" db:"title"`
	DescriptionEN  string           `json:"description_en" db:"description_en"`
	DescriptionIT  string           `json:"description_it" db:"description_it"`
	Year           string           `json:"year" db:"year"`
	Poster         string           `json:"poster" db:"poster"`
	Background     string           `json:"background" db:"background"`
	Genres         string           `json:"genres" db:"genres"`
	AIClassified   bool             `json:"ai_classified" db:"ai_classified"`
	PhobiaWarnings string           `json:"phobia_warnings" db:"phobia_warnings"`
	URL            string           `json:"url" db:"url"`
	Path           string           `json:"path" db:"path"`
	Embedding      *pgvector.Vector `json:"-" db:"embedding"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// GenreList 把逗号分隔的类型串解析为集合
func (m *Movie) GenreList() []string {
	if m.Genres == "" {
		return []string{}
	}
	parts := strings.Split(m.Genres, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// HasGenre 检查类型集合中是否已包含某标签
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.GenreList() {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// AppendGenre 向类型集合追加标签（已存在则不重复追加）
func (m *Movie) AppendGenre(genre string) {
	if m.HasGenre(genre) {
		return
	}
	if m.Genres == "" {
		m.Genres = genre
		return
	}
	m.Genres = m.Genres + ", " + genre
}

// SearchResult 语义搜索结果
type SearchResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
}
