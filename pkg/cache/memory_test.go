package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	var got string
	if err := mc.Get(ctx, "k", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "v" {
		t.Fatalf("got %q, want v", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()

	var got string
	if err := mc.Get(context.Background(), "absent", &got); err != ErrCacheMiss {
		t.Fatalf("want ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	if err := mc.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	var got string
	if err := mc.Get(ctx, "k", &got); err != ErrCacheMiss {
		t.Fatalf("expired entry must miss, got %v", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	mc := NewMemoryCache()
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "a", "1", time.Minute)
	_ = mc.Set(ctx, "b", "2", time.Minute)
	if err := mc.Delete(ctx, "a", "b"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	ok, err := mc.Exists(ctx, "a", "b")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatalf("deleted keys must not exist")
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	mc := NewMemoryCache(WithMemoryMaxSize(2))
	defer mc.Close()
	ctx := context.Background()

	_ = mc.Set(ctx, "old", "1", time.Minute)
	time.Sleep(time.Millisecond)
	_ = mc.Set(ctx, "new", "2", time.Minute)
	time.Sleep(time.Millisecond)

	// Touch "old" so "new" becomes the eviction candidate.
	var v string
	if err := mc.Get(ctx, "old", &v); err != nil {
		t.Fatalf("get old: %v", err)
	}
	time.Sleep(time.Millisecond)

	_ = mc.Set(ctx, "extra", "3", time.Minute)

	if err := mc.Get(ctx, "old", &v); err != nil {
		t.Fatalf("recently used key must survive eviction: %v", err)
	}
	if err := mc.Get(ctx, "new", &v); err != ErrCacheMiss {
		t.Fatalf("least recently used key must be evicted, got %v", err)
	}
}
