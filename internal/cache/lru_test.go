package cache

import (
	"testing"
	"time"
)

func TestLRUCacheSetGetDelete(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Fatal("unexpected hit on empty cache")
	}

	c.Set("a", 1)
	c.Set("b", 2)
	if v, found := c.Get("a"); !found || v != 1 {
		t.Fatalf("Get(a) = (%d, %v)", v, found)
	}

	c.Delete("a")
	if _, found := c.Get("a"); found {
		t.Fatal("deleted key still present")
	}
}

func TestLRUCacheEvictsOldest(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	// Touch "a" so "b" becomes the eviction candidate.
	c.Get("a")
	c.Set("c", 3)

	if _, found := c.Get("b"); found {
		t.Fatal("expected b to be evicted")
	}
	if _, found := c.Get("a"); !found {
		t.Fatal("recently used key was evicted")
	}
	if c.Size() != 2 {
		t.Fatalf("Size() = %d", c.Size())
	}
}

func TestLRUCacheTTLExpiry(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	if _, found := c.Get("a"); found {
		t.Fatal("expired entry still served")
	}

	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	if cleaned := c.CleanExpired(); cleaned != 1 {
		t.Fatalf("CleanExpired() = %d", cleaned)
	}
}

func TestManagerSweepsRegisteredCaches(t *testing.T) {
	c := NewLRUCache[int](10, time.Millisecond)
	c.Set("a", 1)

	m := NewManager()
	m.Register(c)
	m.StartCleanup(5 * time.Millisecond)
	defer m.Stop()

	deadline := time.Now().Add(time.Second)
	for c.Size() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Size() != 0 {
		t.Fatal("sweep never removed the expired entry")
	}
}

func TestManagerStopWithoutStart(t *testing.T) {
	m := NewManager()
	m.Stop()
}
