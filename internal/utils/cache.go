package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem 缓存条目（带过期时间）
type CacheItem[T any] struct {
	Value     T
	ExpiredAt time.Time
}

// SearchCache 搜索结果缓存（LRU + 过期时间）
type SearchCache[T any] struct {
	cache *lru.Cache[string, CacheItem[T]]
	ttl   time.Duration
}

// NewSearchCache 创建搜索缓存，size 为最大条目数，ttl 为过期时间
func NewSearchCache[T any](size int, ttl time.Duration) (*SearchCache[T], error) {
	cache, err := lru.New[string, CacheItem[T]](size)
	if err != nil {
		return nil, err
	}
	return &SearchCache[T]{
		cache: cache,
		ttl:   ttl,
	}, nil
}

// Get 获取缓存，过期的条目当作未命中并删除
func (c *SearchCache[T]) Get(key string) (T, bool) {
	item, ok := c.cache.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	if time.Now().After(item.ExpiredAt) {
		c.cache.Remove(key)
		var zero T
		return zero, false
	}
	return item.Value, true
}

// Set 写入缓存
func (c *SearchCache[T]) Set(key string, value T) {
	c.cache.Add(key, CacheItem[T]{
		Value:     value,
		ExpiredAt: time.Now().Add(c.ttl),
	})
}

// Len 当前缓存条目数
func (c *SearchCache[T]) Len() int {
	return c.cache.Len()
}

// Purge 清空缓存
func (c *SearchCache[T]) Purge() {
	c.cache.Purge()
}
