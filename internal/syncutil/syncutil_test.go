package syncutil_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/ghettovoice/httphdr/internal/syncutil"
)

func TestRWMap(t *testing.T) {
	t.Parallel()

	var m syncutil.RWMap[string, int]
	if _, ok := m.Get("a"); ok {
		t.Error("m.Get(\"a\") on empty map reported ok")
	}
	if v, loaded := m.GetOrSet("a", 1); loaded || v != 1 {
		t.Errorf("m.GetOrSet(\"a\", 1) = %d, %v, want 1, false", v, loaded)
	}
	if v, loaded := m.GetOrSet("a", 2); !loaded || v != 1 {
		t.Errorf("m.GetOrSet(\"a\", 2) = %d, %v, want 1, true", v, loaded)
	}
	if v, ok := m.GetAndDel("a"); !ok || v != 1 {
		t.Errorf("m.GetAndDel(\"a\") = %d, %v, want 1, true", v, ok)
	}
	if m.Has("a") || m.Len() != 0 {
		t.Errorf("map is not empty after delete: len = %d", m.Len())
	}
}

func TestRWMap_Concurrent(t *testing.T) {
	t.Parallel()

	var (
		m  syncutil.RWMap[string, int]
		wg sync.WaitGroup
	)
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k := fmt.Sprint(i % 10)
			m.Set(k, i)
			m.Get(k)
			for range m.All() {
			}
		}()
	}
	wg.Wait()

	if got := m.Len(); got != 10 {
		t.Errorf("m.Len() = %d, want 10", got)
	}
}

func TestShardMap_GetOrSet(t *testing.T) {
	t.Parallel()

	m := syncutil.NewShardMap[string, *int](syncutil.ShardsNum(4))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		calls int
		seen  = make(map[*int]bool)
	)
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := m.GetOrSet("x-custom", func() *int {
				mu.Lock()
				calls++
				mu.Unlock()
				return new(int)
			})
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Errorf("newVal called %d times, want 1", calls)
	}
	if len(seen) != 1 {
		t.Errorf("got %d distinct values, want 1", len(seen))
	}
	if m.Size() != 1 {
		t.Errorf("m.Size() = %d, want 1", m.Size())
	}
	if _, ok := m.Del("x-custom"); !ok {
		t.Error("m.Del(\"x-custom\") = false, want true")
	}
}
