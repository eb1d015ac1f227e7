package cache

import (
	"sync"

	"github.com/google/uuid"
	"github.com/prashil107/attendance/model"
)

// Flash is what the form page shows once after a submission redirect.
type Flash struct {
	Message     model.DisplayMessage
	StudentID   string
	StudentName string
	Action      model.Action
}

type Cache struct {
	values map[string]Flash
	mutex  sync.RWMutex
	limit  int
}

// New returns a Cache holding at most limit entries, zero means unbounded.
func New(limit int) *Cache {
	return &Cache{
		values: map[string]Flash{},
		limit:  limit,
	}
}

func (c *Cache) Get(key string) (Flash, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	value, ok := c.values[key]
	return value, ok
}

// Put stores value under a fresh random key and returns the key.
func (c *Cache) Put(value Flash) string {
	key := uuid.NewString()
	c.Set(key, value)
	return key
}

func (c *Cache) Set(key string, value Flash) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if _, ok := c.values[key]; !ok && c.limit > 0 && len(c.values) >= c.limit {
		// evict an arbitrary entry
		for stale := range c.values {
			delete(c.values, stale)
			break
		}
	}
	c.values[key] = value
}

// Pop returns the value stored under key and removes it.
func (c *Cache) Pop(key string) (Flash, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	value, ok := c.values[key]
	if ok {
		delete(c.values, key)
	}
	return value, ok
}

func (c *Cache) Remove(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	delete(c.values, key)
}

func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.values)
}
