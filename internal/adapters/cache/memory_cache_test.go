package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/phishing-detector/internal/core"
)

func newTestCache(t *testing.T) *MemoryCache {
	t.Helper()
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	t.Cleanup(c.Stop)
	return c
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	entry := &core.CacheEntry{
		Key:        "abc123",
		Report:     []byte(`{"is_phishing":true}`),
		AnalyzedAt: time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	if err := c.Set(ctx, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := c.Get(ctx, "abc123")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Report) != string(entry.Report) {
		t.Errorf("Report = %s, want %s", got.Report, entry.Report)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := newTestCache(t)

	if _, err := c.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get returned %v, want ErrNotFound", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	entry := &core.CacheEntry{
		Key:        "stale",
		Report:     []byte("{}"),
		AnalyzedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt:  time.Now().Add(-time.Hour),
	}
	if err := c.Set(ctx, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := c.Get(ctx, "stale"); !errors.Is(err, ErrExpired) {
		t.Errorf("Get returned %v, want ErrExpired", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	entry := &core.CacheEntry{
		Key:       "gone",
		Report:    []byte("{}"),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := c.Set(ctx, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Delete(ctx, "gone"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := c.Get(ctx, "gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete returned %v, want ErrNotFound", err)
	}
}

func TestMemoryCacheCleanup(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	expired := &core.CacheEntry{Key: "old", Report: []byte("{}"), ExpiresAt: time.Now().Add(-time.Minute)}
	fresh := &core.CacheEntry{Key: "new", Report: []byte("{}"), ExpiresAt: time.Now().Add(time.Hour)}
	if err := c.Set(ctx, expired); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	if err := c.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}
	if _, err := c.Get(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired entry should be removed, Get returned %v", err)
	}
	if _, err := c.Get(ctx, "new"); err != nil {
		t.Errorf("fresh entry should survive cleanup, Get returned %v", err)
	}
}
