package cache

import (
	"sync"
	"testing"

	"ecommerce-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_SetAndGet(t *testing.T) {
	cache := New()

	cache.Set("key1", []byte(`{"a":1}`))
	value, found := cache.Get("key1")

	assert.True(t, found)
	assert.Equal(t, []byte(`{"a":1}`), value)
}

func TestCache_Get_NotFound(t *testing.T) {
	cache := New()

	value, found := cache.Get("nonexistent")

	assert.False(t, found)
	assert.Nil(t, value)
}

func TestCache_Has(t *testing.T) {
	cache := New()

	assert.False(t, cache.Has("key1"))

	cache.Set("key1", []byte("v"))

	assert.True(t, cache.Has("key1"))
}

func TestCache_DeleteMany(t *testing.T) {
	cache := New()
	cache.Set("key1", []byte("v1"))
	cache.Set("key2", []byte("v2"))
	cache.Set("key3", []byte("v3"))

	// отсутствующий ключ в списке не ломает удаление остальных
	cache.DeleteMany([]string{"key1", "key3", "nonexistent"})

	assert.False(t, cache.Has("key1"))
	assert.True(t, cache.Has("key2"))
	assert.False(t, cache.Has("key3"))
}

func TestCache_DeleteMany_Empty(t *testing.T) {
	cache := New()
	cache.Set("key1", []byte("v1"))

	cache.DeleteMany(nil)

	assert.True(t, cache.Has("key1"))
}

func TestLookupAndStore(t *testing.T) {
	cache := New()
	product := models.Product{Name: "Кроссовки", Price: 4999, Stock: 3, Category: "shoes"}

	err := Store(cache, "product-1", product)
	require.NoError(t, err)

	result, found := Lookup[models.Product](cache, "product-1")
	require.True(t, found)
	assert.Equal(t, product.Name, result.Name)
	assert.Equal(t, product.Price, result.Price)
}

func TestLookup_Miss(t *testing.T) {
	cache := New()

	_, found := Lookup[models.Product](cache, "nonexistent")

	assert.False(t, found)
}

func TestLookup_CorruptedEntry(t *testing.T) {
	cache := New()
	cache.Set("broken", []byte("{not json"))

	// битая запись равносильна промаху
	_, found := Lookup[models.Product](cache, "broken")

	assert.False(t, found)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cache.Set("shared", []byte("v"))
		}()
		go func() {
			defer wg.Done()
			cache.Get("shared")
		}()
	}
	wg.Wait()

	assert.True(t, cache.Has("shared"))
}
