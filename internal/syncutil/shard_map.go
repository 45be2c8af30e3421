package syncutil

import (
	"hash/maphash"
	"sync"
)

// ShardMap is a thread-safe map that uses sharding to reduce lock contention.
type ShardMap[K comparable, V any] struct {
	seed   maphash.Seed
	shards []*shard[K, V]
}

type shard[K comparable, V any] struct {
	sync.RWMutex
	items map[K]V
}

// ShardsNum is an option of [NewShardMap] setting the number of shards.
type ShardsNum uint

const defShardsNum ShardsNum = 32

// NewShardMap creates a new [ShardMap].
// If no number of shards is specified, the default number of shards (32) is used.
func NewShardMap[K comparable, V any](opts ...any) *ShardMap[K, V] {
	shardsNum := defShardsNum
	for _, o := range opts {
		if v, ok := o.(ShardsNum); ok && v > 0 {
			shardsNum = v
		}
	}

	shards := make([]*shard[K, V], shardsNum)
	for i := range shards {
		shards[i] = &shard[K, V]{items: make(map[K]V)}
	}
	return &ShardMap[K, V]{
		seed:   maphash.MakeSeed(),
		shards: shards,
	}
}

func (m *ShardMap[K, V]) getShard(key K) *shard[K, V] {
	return m.shards[maphash.Comparable(m.seed, key)%uint64(len(m.shards))]
}

// Get retrieves a value by key.
func (m *ShardMap[K, V]) Get(key K) (V, bool) {
	s := m.getShard(key)
	s.RLock()
	defer s.RUnlock()
	val, ok := s.items[key]
	return val, ok
}

// GetOrSet returns the existing value for the key if present.
// Otherwise, it calls newVal, stores and returns the result.
// newVal is called under the shard lock, at most once per call.
func (m *ShardMap[K, V]) GetOrSet(key K, newVal func() V) V {
	s := m.getShard(key)
	s.RLock()
	val, ok := s.items[key]
	s.RUnlock()
	if ok {
		return val
	}

	s.Lock()
	defer s.Unlock()
	if val, ok := s.items[key]; ok {
		return val
	}
	val = newVal()
	s.items[key] = val
	return val
}

// Del removes a key-value pair by key.
func (m *ShardMap[K, V]) Del(key K) (V, bool) {
	s := m.getShard(key)
	s.Lock()
	defer s.Unlock()
	val, ok := s.items[key]
	if ok {
		delete(s.items, key)
	}
	return val, ok
}

// Size returns the total number of items in the map.
func (m *ShardMap[K, V]) Size() int {
	size := 0
	for _, s := range m.shards {
		s.RLock()
		size += len(s.items)
		s.RUnlock()
	}
	return size
}
