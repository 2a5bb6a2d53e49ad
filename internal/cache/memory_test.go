package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCache_TTL(t *testing.T) {
	c := NewMemoryCache(20*time.Millisecond, 10*time.Millisecond)

	ctx := context.Background()
	key := "quote_AAPL"
	val := []byte(`{"symbol":"AAPL"}`)

	if err := c.Set(ctx, key, val); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, hit, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !hit {
		t.Fatalf("expected hit immediately after Set")
	}
	if string(got) != `{"symbol":"AAPL"}` {
		t.Fatalf("unexpected value %q", got)
	}

	// Wait for TTL to expire
	time.Sleep(30 * time.Millisecond)

	_, hit, err = c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get after TTL failed: %v", err)
	}
	if hit {
		t.Fatalf("expected miss after TTL expiry")
	}
}

func TestMemoryCache_MissForUnknownKey(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0)

	v, hit, err := c.Get(context.Background(), "search_never_set")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if hit || v != nil {
		t.Fatalf("expected miss, got %q", v)
	}
}

func TestMemoryCache_Overwrite(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0)
	ctx := context.Background()

	_ = c.Set(ctx, "quote_MSFT", []byte("v1"))
	_ = c.Set(ctx, "quote_MSFT", []byte("v2"))

	got, hit, _ := c.Get(ctx, "quote_MSFT")
	if !hit || string(got) != "v2" {
		t.Fatalf("expected v2 after overwrite, got %q (hit=%v)", got, hit)
	}
	if c.Len() != 1 {
		t.Fatalf("expected one entry, got %d", c.Len())
	}
}

func TestMemoryCache_CopiesValue(t *testing.T) {
	c := NewMemoryCache(time.Minute, 0)
	ctx := context.Background()

	buf := []byte("original")
	_ = c.Set(ctx, "k", buf)
	copy(buf, "XXXXXXXX")

	got, _, _ := c.Get(ctx, "k")
	if string(got) != "original" {
		t.Fatalf("cache shares caller buffer: %q", got)
	}
}

func TestMemoryCache_DefaultTTL(t *testing.T) {
	c := NewMemoryCache(0, 0)
	if c.TTL() != 600*time.Second {
		t.Fatalf("expected 600s default TTL, got %s", c.TTL())
	}
}
