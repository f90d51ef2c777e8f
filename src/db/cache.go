package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Storing cache keys in concurrent data structures to allow for clearing all caches of a certain type
var (
	Cache         *ristretto.Cache
	UserCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	CategoryCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

// User Cache Functions
func SetUserCache(cacheKey string, value interface{}) {
	UserCacheKeys.Lock()
	UserCacheKeys.m[cacheKey] = struct{}{}
	UserCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func DelUserCache(cacheKey string) {
	UserCacheKeys.Lock()
	delete(UserCacheKeys.m, cacheKey)
	UserCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

// Category Cache Functions
func SetCategoryCache(cacheKey string, value interface{}) {
	CategoryCacheKeys.Lock()
	CategoryCacheKeys.m[cacheKey] = struct{}{}
	CategoryCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func DelCategoryCache(cacheKey string) {
	CategoryCacheKeys.Lock()
	delete(CategoryCacheKeys.m, cacheKey)
	CategoryCacheKeys.Unlock()
	Cache.Del(cacheKey)
}

