package cache

import (
	"encoding/json"
	"sync"

	"ecommerce-service/internal/interfaces"
	"ecommerce-service/internal/metrics"
)

var _ interfaces.Cache = (*Cache)(nil)

// Cache — процессный key-value кэш результатов запросов. Без TTL и без
// вытеснения: записи живут до явного удаления или рестарта процесса.
type Cache struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func New() *Cache {
	return &Cache{
		items: make(map[string][]byte),
	}
}

func (c *Cache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[key]
	return ok
}

func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.items[key]
	if ok {
		metrics.CacheOperations.WithLabelValues("get", "hit").Inc()
		return value, true
	}
	metrics.CacheOperations.WithLabelValues("get", "miss").Inc()
	return nil, false
}

func (c *Cache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	metrics.CacheOperations.WithLabelValues("set", "success").Inc()
}

// DeleteMany удаляет ключи списком. Отсутствующий ключ не ошибка.
func (c *Cache) DeleteMany(keys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.items, key)
	}
	metrics.CacheOperations.WithLabelValues("delete", "success").Inc()
}

// Lookup читает типизированное значение из кэша. Битая запись считается
// промахом, чтобы обработчик пересчитал и перезаписал ее.
func Lookup[T any](c interfaces.Cache, key string) (T, bool) {
	var value T
	raw, ok := c.Get(key)
	if !ok {
		return value, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false
	}
	return value, true
}

// Store сериализует значение и кладет его под ключ.
func Store[T any](c interfaces.Cache, key string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.Set(key, raw)
	return nil
}
