package cache

import (
	"testing"
	"time"
)

func TestLRUCache_Eviction(t *testing.T) {
	c := NewLRUCache[string](2, 0)
	c.Set("a", "A")
	c.Set("b", "B")

	// touch a so b becomes the oldest
	if v, ok := c.Get("a"); !ok || v != "A" {
		t.Fatalf("expected a=A, got %q %v", v, ok)
	}
	c.Set("c", "C")

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if c.Size() != 2 {
		t.Errorf("expected size 2, got %d", c.Size())
	}
}

func TestLRUCache_TTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewLRUCache[int](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("x", 1)
	c.Set("y", 2)
	now = now.Add(30 * time.Second)
	if v, ok := c.Get("x"); !ok || v != 1 {
		t.Fatalf("x should still be cached")
	}

	now = now.Add(time.Minute)
	if _, ok := c.Get("x"); ok {
		t.Error("x should have expired")
	}
	if removed := c.CleanExpired(); removed != 1 {
		t.Errorf("expected 1 expired entry cleaned, got %d", removed)
	}
	if c.Size() != 0 {
		t.Errorf("expected empty cache, got %d", c.Size())
	}
}

func TestLRUCache_NoTTLNeverExpires(t *testing.T) {
	c := NewLRUCache[int](1, 0)
	c.now = func() time.Time { return time.Date(2999, 1, 1, 0, 0, 0, 0, time.UTC) }
	c.Set("k", 7)
	if v, ok := c.Get("k"); !ok || v != 7 {
		t.Fatal("entries without ttl must not expire")
	}
	if c.CleanExpired() != 0 {
		t.Fatal("nothing should be cleaned without ttl")
	}
}

func TestLRUCache_DisabledAndDelete(t *testing.T) {
	off := NewLRUCache[int](0, 0)
	off.Set("k", 1)
	if off.Size() != 0 {
		t.Fatal("zero-size cache must not store entries")
	}

	c := NewLRUCache[int](4, 0)
	c.Set("k", 1)
	c.Set("k", 2)
	if v, _ := c.Get("k"); v != 2 {
		t.Fatalf("overwrite failed, got %d", v)
	}
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("deleted key still present")
	}
}
