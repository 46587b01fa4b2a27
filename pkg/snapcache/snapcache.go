package snapcache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache LRU кэш снапшотов для display-only чтений (списки доступности, очереди)
// Записи живут не дольше TTL, поэтому читатели получают "недавний" снапшот,
// не конкурируя за блокировки с пишущими операциями
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// New создает кэш на size записей с временем жизни ttl
func New[K comparable, V any](size int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		lru: expirable.NewLRU[K, V](size, nil, ttl),
	}
}

// Get возвращает снапшот по ключу, если он еще не устарел
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.lru.Get(key)
}

// Add сохраняет снапшот по ключу
func (c *Cache[K, V]) Add(key K, value V) {
	c.lru.Add(key, value)
}

// Remove инвалидирует снапшот по ключу
// Вызывается после мутаций, затрагивающих соответствующий (bay, date)
func (c *Cache[K, V]) Remove(key K) {
	c.lru.Remove(key)
}

// Purge полностью очищает кэш
func (c *Cache[K, V]) Purge() {
	c.lru.Purge()
}
