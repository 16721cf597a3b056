package cache

import (
	"sync"
	"testing"
	"time"
)

// TestCache_BasicOperations tests Get, Set, and Delete.
func TestCache_BasicOperations(t *testing.T) {
	c := New[string](time.Minute)

	t.Run("Set and Get", func(t *testing.T) {
		c.Set("key1", "value1", time.Minute)

		val, found := c.Get("key1")
		if !found {
			t.Error("expected key1 to be found")
		}
		if val != "value1" {
			t.Errorf("expected value1, got %v", val)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		val, found := c.Get("nonexistent")
		if found {
			t.Error("expected nonexistent key to not be found")
		}
		if val != "" {
			t.Errorf("expected zero value, got %q", val)
		}
	})

	t.Run("Set and Delete", func(t *testing.T) {
		c.Set("key2", "value2", time.Minute)
		c.Delete("key2")

		if _, found := c.Get("key2"); found {
			t.Error("expected key2 to be deleted")
		}
	})

	t.Run("Non-positive TTL removes", func(t *testing.T) {
		c.Set("key3", "value3", time.Minute)
		c.Set("key3", "stale", 0)

		if _, found := c.Get("key3"); found {
			t.Error("expected key3 to be removed")
		}
	})
}

// TestCache_Expiry tests that entries disappear after their TTL.
func TestCache_Expiry(t *testing.T) {
	c := New[int](time.Minute)
	c.Set("short", 1, 20*time.Millisecond)
	c.Set("long", 2, time.Minute)

	time.Sleep(50 * time.Millisecond)

	if _, found := c.Get("short"); found {
		t.Error("expected short to have expired")
	}
	if v, found := c.Get("long"); !found || v != 2 {
		t.Errorf("expected long=2, got %v (found=%v)", v, found)
	}
}

// TestCache_ClearAndStats tests Clear and GetStats.
func TestCache_ClearAndStats(t *testing.T) {
	c := New[int](time.Minute)
	for i, k := range []string{"a", "b", "c"} {
		c.Set(k, i, time.Minute)
	}
	if got := c.GetStats().ItemCount; got != 3 {
		t.Errorf("expected 3 items, got %d", got)
	}

	c.Clear()
	if got := c.GetStats().ItemCount; got != 0 {
		t.Errorf("expected 0 items after Clear, got %d", got)
	}
}

// TestCache_OnEvicted tests the eviction callback.
func TestCache_OnEvicted(t *testing.T) {
	c := New[string](time.Minute)
	var evicted []string
	c.OnEvicted(func(key, value string) {
		evicted = append(evicted, key+"="+value)
	})

	c.Set("k", "v", time.Minute)
	c.Delete("k")

	if len(evicted) != 1 || evicted[0] != "k=v" {
		t.Errorf("expected [k=v], got %v", evicted)
	}
}

// TestCache_Concurrent tests concurrent access.
func TestCache_Concurrent(t *testing.T) {
	c := New[int](time.Minute)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := string(rune('a' + i%26))
			c.Set(key, i, time.Minute)
			c.Get(key)
		}()
	}
	wg.Wait()

	if got := c.GetStats().ItemCount; got != 26 {
		t.Errorf("expected 26 items, got %d", got)
	}
}
