package model

// IDPrefix 对外暴露的 ID 前缀，用于区分本插件的记录
const IDPrefix = "ai_"

// Manifest Stremio 插件能力描述
type Manifest struct {
	ID          string            `json:"id"`
	Version     string            `json:"version"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Types       []string          `json:"types"`
	Catalogs    []ManifestCatalog `json:"catalogs"`
	Resources   []string          `json:"resources"`
	IDPrefixes  []string          `json:"idPrefixes"`
}

// ManifestCatalog 目录声明
type ManifestCatalog struct {
	Type  string         `json:"type"`
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Extra []CatalogExtra `json:"extra,omitempty"`
}

// CatalogExtra 目录的附加查询参数声明
type CatalogExtra struct {
	Name       string `json:"name"`
	IsRequired bool   `json:"isRequired"`
}

// Meta 元数据响应中的条目
// 可选字段缺失时不输出，Stremio 客户端按字段存在与否渲染
type Meta struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	ReleaseInfo string   `json:"releaseInfo,omitempty"`
	Poster      string   `json:"poster,omitempty"`
	Background  string   `json:"background,omitempty"`
	Genres      []string `json:"genres,omitempty"`
}

// CatalogResponse 目录响应
type CatalogResponse struct {
	Metas []Meta `json:"metas"`
}

// MetaResponse 单条元数据响应
type MetaResponse struct {
	Meta Meta `json:"meta"`
}

// Stream 播放流描述
type Stream struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// StreamResponse 播放流响应
type StreamResponse struct {
	Streams []Stream `json:"streams"`
}

// FeedMeta 上游目录源返回的条目（genres 可能是数组也可能是字符串）
type FeedMeta struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ReleaseInfo string      `json:"releaseInfo"`
	Poster      string      `json:"poster"`
	Background  string      `json:"background"`
	Genres      interface{} `json:"genres"`
}

// FeedPage 上游目录源的一页数据
type FeedPage struct {
	Metas []FeedMeta `json:"metas"`
}
