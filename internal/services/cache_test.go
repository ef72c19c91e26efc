package services

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := NewCache[string, int](time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	c.Set("a", 42)
	got, found := c.Get("a")
	if !found || got != 42 {
		t.Errorf("Get(a) = %v, %v, want 42, true", got, found)
	}
}

func TestCache_Expiration(t *testing.T) {
	c := NewCache[string, string](time.Millisecond)

	c.Set("k", "v")
	time.Sleep(5 * time.Millisecond)

	if _, found := c.Get("k"); found {
		t.Error("expected entry to expire")
	}
}

func TestCache_Purge(t *testing.T) {
	c := NewCache[string, int](time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Purge()

	if _, found := c.Get("a"); found {
		t.Error("expected purge to drop entries")
	}
	if _, found := c.Get("b"); found {
		t.Error("expected purge to drop entries")
	}
}
