package cache

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLRUCache_BasicOperations(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 3})

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		if v, ok := cache.Get(key); !ok || v != want {
			t.Errorf("Get(%s) = %d, %v; want %d, true", key, v, ok, want)
		}
	}

	if _, ok := cache.Get("d"); ok {
		t.Error("Get(d) should return false")
	}

	if n := cache.Len(); n != 3 {
		t.Errorf("Len() = %d; want 3", n)
	}
}

func TestLRUCache_Eviction(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 2})

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Get("a")    // "b" is now least recently used
	cache.Put("c", 3) // evicts "b"

	if _, ok := cache.Get("b"); ok {
		t.Error("Get(b) should return false after eviction")
	}
	if _, ok := cache.Get("a"); !ok {
		t.Error("Get(a) should survive, it was used recently")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("Get(c) should return true")
	}
}

func TestLRUCache_Update(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 2})

	cache.Put("a", 1)
	cache.Put("a", 10)

	if v, _ := cache.Get("a"); v != 10 {
		t.Errorf("Get(a) = %d; want 10", v)
	}
	if n := cache.Len(); n != 1 {
		t.Errorf("Len() = %d; want 1", n)
	}
}

func TestLRUCache_RemoveAndClear(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 3})
	cache.Put("a", 1)
	cache.Put("b", 2)

	cache.Remove("a")
	cache.Remove("missing")
	if _, ok := cache.Get("a"); ok {
		t.Error("Get(a) should return false after Remove")
	}

	cache.Clear()
	if n := cache.Len(); n != 0 {
		t.Errorf("Len() = %d after Clear; want 0", n)
	}
}

func TestLRUCache_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewLRUCache[string, int](Config{
		MaxSize: 3,
		TTL:     time.Minute,
		Now:     func() time.Time { return now },
	})

	cache.Put("a", 1)
	if v, ok := cache.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v; want 1, true", v, ok)
	}

	now = now.Add(2 * time.Minute)
	if _, ok := cache.Get("a"); ok {
		t.Error("Get(a) should return false after TTL expiration")
	}
	if n := cache.Len(); n != 0 {
		t.Errorf("Len() = %d; expired entry should be dropped", n)
	}
}

func TestLRUCache_UpdateRefreshesTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewLRUCache[string, int](Config{
		TTL: time.Minute,
		Now: func() time.Time { return now },
	})

	cache.Put("a", 1)
	now = now.Add(50 * time.Second)
	cache.Put("a", 2)
	now = now.Add(50 * time.Second)

	if v, ok := cache.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %d, %v; want 2, true", v, ok)
	}
}

func TestLRUCache_Stats(t *testing.T) {
	cache := NewLRUCache[string, int](Config{MaxSize: 2})

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Get("a")
	cache.Get("b")
	cache.Get("c")
	cache.Get("d")
	cache.Put("c", 3)

	stats := cache.Stats()
	want := Stats{Hits: 2, Misses: 2, Evictions: 1, Size: 2, MaxSize: 2}
	if stats != want {
		t.Errorf("Stats() = %+v; want %+v", stats, want)
	}
	if rate := stats.HitRate(); rate != 0.5 {
		t.Errorf("HitRate() = %v; want 0.5", rate)
	}
	if rate := (Stats{}).HitRate(); rate != 0 {
		t.Errorf("empty HitRate() = %v; want 0", rate)
	}
}

func TestLRUCache_OnEvict(t *testing.T) {
	var evictedKey string
	var evictedValue int

	cache := NewLRUCache[string, int](Config{
		MaxSize: 2,
		OnEvict: func(key, value interface{}) {
			evictedKey = key.(string)
			evictedValue = value.(int)
		},
	})

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3)

	if evictedKey != "a" || evictedValue != 1 {
		t.Errorf("evicted = (%s, %d); want (a, 1)", evictedKey, evictedValue)
	}
}

func TestLRUCache_Concurrency(t *testing.T) {
	config := Config{MaxSize: 100}
	cache := NewLRUCache[int, int](config)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Put(id*100+j, j)
			}
		}(i)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				cache.Get(id*100 + j)
			}
		}(i)
	}
	wg.Wait()

	if n := cache.Len(); n > config.MaxSize {
		t.Errorf("Len() = %d; want <= %d", n, config.MaxSize)
	}
}

func TestNewLRUCache_NegativeMaxSize(t *testing.T) {
	cache := NewLRUCache[int, int](Config{MaxSize: -5})
	for i := 0; i < 10; i++ {
		cache.Put(i, i)
	}
	if n := cache.Len(); n != 10 {
		t.Errorf("Len() = %d; negative MaxSize should mean unlimited", n)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	if config.MaxSize <= 0 {
		t.Errorf("MaxSize = %d; want > 0", config.MaxSize)
	}
	if config.TTL <= 0 {
		t.Errorf("TTL = %v; want > 0", config.TTL)
	}
}

func byteLen(s string) int64 { return int64(len(s)) }

func TestBoundedCache_ByteLimit(t *testing.T) {
	cache := NewBoundedCache[string, string](Config{MaxSize: 100}, 100, byteLen)

	twenty := strings.Repeat("x", 20)
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		cache.Put(k, twenty)
	}
	if got := cache.Stats().TotalBytes; got != 100 {
		t.Errorf("TotalBytes = %d; want 100", got)
	}

	cache.Put("f", twenty)
	if _, ok := cache.Get("a"); ok {
		t.Error("Get(a) should have been evicted to make room")
	}
	if got := cache.Stats().TotalBytes; got != 100 {
		t.Errorf("TotalBytes = %d after eviction; want 100", got)
	}

	cache.Put("huge", strings.Repeat("x", 200))
	if _, ok := cache.Get("huge"); ok {
		t.Error("oversized value should not be cached")
	}
}

func TestBoundedCache_ReplaceAdjustsBytes(t *testing.T) {
	cache := NewBoundedCache[string, string](Config{}, 0, byteLen)

	cache.Put("a", "12345")
	cache.Put("a", "12")
	if got := cache.Stats().TotalBytes; got != 2 {
		t.Errorf("TotalBytes = %d; want 2", got)
	}

	cache.Remove("a")
	if got := cache.Stats().TotalBytes; got != 0 {
		t.Errorf("TotalBytes = %d after Remove; want 0", got)
	}
}

func TestBoundedCache_EntryLimitAdjustsBytes(t *testing.T) {
	var evicted []string
	cache := NewBoundedCache[string, string](Config{
		MaxSize: 2,
		OnEvict: func(key, _ interface{}) { evicted = append(evicted, key.(string)) },
	}, 1000, byteLen)

	cache.Put("a", "aaaa")
	cache.Put("b", "bb")
	cache.Put("c", "c")

	if got := cache.Stats().TotalBytes; got != 3 {
		t.Errorf("TotalBytes = %d; want 3", got)
	}
	if len(evicted) != 1 || evicted[0] != "a" {
		t.Errorf("evicted = %v; want [a]", evicted)
	}
}

func TestBoundedCache_Clear(t *testing.T) {
	cache := NewBoundedCache[string, string](Config{}, 100, byteLen)
	cache.Put("a", "abc")
	cache.Clear()

	if cache.Len() != 0 || cache.Stats().TotalBytes != 0 {
		t.Errorf("after Clear: Len() = %d, TotalBytes = %d; want 0, 0", cache.Len(), cache.Stats().TotalBytes)
	}
}

func BenchmarkLRUCache_Put(b *testing.B) {
	cache := NewLRUCache[string, int](Config{MaxSize: 1000})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Put(fmt.Sprintf("key-%d", i%1000), i)
	}
}

func BenchmarkLRUCache_Get(b *testing.B) {
	cache := NewLRUCache[string, int](Config{MaxSize: 1000})
	for i := 0; i < 1000; i++ {
		cache.Put(fmt.Sprintf("key-%d", i), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(fmt.Sprintf("key-%d", i%1000))
	}
}
