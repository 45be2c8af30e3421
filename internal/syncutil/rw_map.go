// Package syncutil provides concurrency-safe containers.
package syncutil

import (
	"iter"
	"maps"
	"sync"
)

// RWMap is a map guarded by a single [sync.RWMutex], suited for small registries
// that are read far more often than written. The zero value is ready to use,
// a nil *RWMap reads as empty.
type RWMap[K comparable, V any] struct {
	mu sync.RWMutex
	m  map[K]V
}

func (rm *RWMap[K, V]) read(fn func(m map[K]V)) {
	if rm == nil {
		fn(nil)
		return
	}
	rm.mu.RLock()
	fn(rm.m)
	rm.mu.RUnlock()
}

func (rm *RWMap[K, V]) write(fn func(m map[K]V)) {
	rm.mu.Lock()
	if rm.m == nil {
		rm.m = make(map[K]V)
	}
	fn(rm.m)
	rm.mu.Unlock()
}

func (rm *RWMap[K, V]) Get(key K) (val V, ok bool) {
	rm.read(func(m map[K]V) { val, ok = m[key] })
	return val, ok
}

func (rm *RWMap[K, V]) Has(key K) bool {
	_, ok := rm.Get(key)
	return ok
}

func (rm *RWMap[K, V]) Len() (n int) {
	rm.read(func(m map[K]V) { n = len(m) })
	return n
}

// Set stores the value, replacing any previous one.
func (rm *RWMap[K, V]) Set(key K, val V) {
	rm.write(func(m map[K]V) { m[key] = val })
}

// GetOrSet stores val unless the key is taken.
// It returns the value held under the key afterwards and whether it was already there.
func (rm *RWMap[K, V]) GetOrSet(key K, val V) (actual V, loaded bool) {
	rm.write(func(m map[K]V) {
		if actual, loaded = m[key]; !loaded {
			m[key], actual = val, val
		}
	})
	return actual, loaded
}

// GetAndDel deletes the key and returns the value it held.
func (rm *RWMap[K, V]) GetAndDel(key K) (val V, ok bool) {
	rm.write(func(m map[K]V) {
		if val, ok = m[key]; ok {
			delete(m, key)
		}
	})
	return val, ok
}

// All iterates over a copy taken at the call, so yield may use the map.
func (rm *RWMap[K, V]) All() iter.Seq2[K, V] {
	var snap map[K]V
	rm.read(func(m map[K]V) { snap = maps.Clone(m) })
	return maps.All(snap)
}
