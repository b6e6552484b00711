// Insight - Traffic Incident Monitoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insight

package cache

import (
	"sync"
	"testing"
	"time"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestCache(ttl time.Duration) (*Cache, *clock) {
	clk := &clock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	c := New(ttl)
	c.SetClock(clk.now)
	return c, clk
}

func TestCache_SetGet(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) ok = true, want false")
	}

	c.Set("event:1", "accident")
	got, ok := c.Get("event:1")
	if !ok || got != "accident" {
		t.Errorf("Get(event:1) = %v, %v; want accident, true", got, ok)
	}

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit and 1 miss", stats)
	}
	if rate := c.HitRate(); rate != 50.0 {
		t.Errorf("HitRate() = %v, want 50", rate)
	}
}

func TestCache_Expiry(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("k", 1)

	clk.advance(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired before its TTL")
	}

	clk.advance(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Error("Get() after TTL ok = true, want false")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy expiry", c.Len())
	}
}

func TestCache_SetRefreshesTTL(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("k", 1)
	clk.advance(50 * time.Second)
	c.Set("k", 2)
	clk.advance(50 * time.Second)

	got, ok := c.Get("k")
	if !ok || got != 2 {
		t.Errorf("Get() = %v, %v; want 2, true", got, ok)
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	c.Delete("a")
	c.Delete("absent")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted key still present")
	}
	if got := c.GetStats().Evictions; got != 1 {
		t.Errorf("Evictions = %d, want 1", got)
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	if got := c.GetStats().Evictions; got != 3 {
		t.Errorf("Evictions = %d, want 3", got)
	}
}

func TestCache_Prune(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("old", 1)
	clk.advance(30 * time.Second)
	c.Set("new", 2)
	clk.advance(45 * time.Second)

	if n := c.Prune(); n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("unexpired entry was pruned")
	}
}

func TestGenerateKey(t *testing.T) {
	a := GenerateKey("event", int64(1))
	b := GenerateKey("event", int64(1))
	c := GenerateKey("event", int64(2))
	d := GenerateKey("locations", int64(1))

	if a != b {
		t.Errorf("same input produced %q and %q", a, b)
	}
	if a == c || a == d {
		t.Error("different input produced the same key")
	}
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := GenerateKey("event", i%3)
			for j := 0; j < 200; j++ {
				c.Set(key, j)
				c.Get(key)
				if j%50 == 0 {
					c.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()
}
