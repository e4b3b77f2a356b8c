package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 应用配置
type Config struct {
	Env         string
	Port        string
	DatabaseURL string

	// 上游目录源（分页的 Stremio 目录接口）
	FeedBaseURL string

	// Ollama 文本生成 / 向量服务
	OllamaHost string
	LLMModel   string
	EmbedModel string
	EmbedDim   int

	// Milvus 语义索引
	MilvusAddr       string
	MilvusCollection string

	// 本地文件服务源（用于把本地路径改写成可播放 URL）
	FileServerURL string

	// 后台工作循环
	WorkerInterval    time.Duration
	EnrichConcurrency int
	EnrichBatchSize   int

	// 搜索结果缓存
	SearchCacheSize int
	SearchCacheTTL  time.Duration
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "aisearch")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	intervalMin, _ := strconv.Atoi(getEnv("WORKER_INTERVAL_MINUTES", "5"))
	if intervalMin < 1 {
		intervalMin = 5
	}
	concurrency, _ := strconv.Atoi(getEnv("ENRICH_CONCURRENCY", "2"))
	if concurrency < 1 {
		concurrency = 1
	}
	batchSize, _ := strconv.Atoi(getEnv("ENRICH_BATCH_SIZE", "500"))
	if batchSize < 1 {
		batchSize = 500
	}
	embedDim, _ := strconv.Atoi(getEnv("EMBED_DIM", "768"))
	if embedDim < 1 {
		embedDim = 768
	}
	cacheSize, _ := strconv.Atoi(getEnv("SEARCH_CACHE_SIZE", "100"))
	if cacheSize < 1 {
		cacheSize = 100
	}
	cacheTTLMin, _ := strconv.Atoi(getEnv("SEARCH_CACHE_TTL_MINUTES", "60"))
	if cacheTTLMin < 1 {
		cacheTTLMin = 60
	}

	return &Config{
		Env:         getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", dbURL),

		FeedBaseURL: getEnv("FEED_BASE_URL", "http://vixsrc-addon:3000/catalog/movie/vixsrc_movies"),

		OllamaHost: getEnv("OLLAMA_HOST", "http://ollama:11434"),
		LLMModel:   getEnv("LLM_MODEL", "llama3.1:8b"),
		EmbedModel: getEnv("EMBED_MODEL", "nomic-embed-text"),
		EmbedDim:   embedDim,

		MilvusAddr:       getEnv("MILVUS_ADDR", "milvus:19530"),
		MilvusCollection: getEnv("MILVUS_COLLECTION", "movie_descriptions"),

		FileServerURL: getEnv("FILE_SERVER_URL", "http://localhost:8090"),

		WorkerInterval:    time.Duration(intervalMin) * time.Minute,
		EnrichConcurrency: concurrency,
		EnrichBatchSize:   batchSize,

		SearchCacheSize: cacheSize,
		SearchCacheTTL:  time.Duration(cacheTTLMin) * time.Minute,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
