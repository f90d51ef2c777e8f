package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserCacheSetAndDel(t *testing.T) {
	InitCache()

	SetUserCache("user:1", "cached")
	Cache.Wait()

	UserCacheKeys.RLock()
	_, tracked := UserCacheKeys.m["user:1"]
	UserCacheKeys.RUnlock()
	assert.True(t, tracked)

	v, found := Cache.Get("user:1")
	assert.True(t, found)
	assert.Equal(t, "cached", v)

	DelUserCache("user:1")
	Cache.Wait()

	UserCacheKeys.RLock()
	_, tracked = UserCacheKeys.m["user:1"]
	UserCacheKeys.RUnlock()
	assert.False(t, tracked)

	_, found = Cache.Get("user:1")
	assert.False(t, found)
}

func TestCategoryCacheSetAndDel(t *testing.T) {
	InitCache()

	SetCategoryCache("categories:7", []string{"Rent"})
	Cache.Wait()

	CategoryCacheKeys.RLock()
	_, tracked := CategoryCacheKeys.m["categories:7"]
	CategoryCacheKeys.RUnlock()
	assert.True(t, tracked)

	DelCategoryCache("categories:7")
	Cache.Wait()

	CategoryCacheKeys.RLock()
	_, tracked = CategoryCacheKeys.m["categories:7"]
	CategoryCacheKeys.RUnlock()
	assert.False(t, tracked)

	_, found := Cache.Get("categories:7")
	assert.False(t, found)
}
