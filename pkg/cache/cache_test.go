package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if data, hit, err := c.Get(ctx, "k"); hit || data != nil || err != nil {
		t.Errorf("Get = %q, %v, %v; want nil, false, nil", data, hit, err)
	}
}

func newFileCache(t *testing.T) *FileCache {
	t.Helper()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	return c
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)

	if _, hit, err := c.Get(ctx, "frame"); hit || err != nil {
		t.Fatalf("Get on empty cache = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "frame", []byte("<svg/>"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "frame")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get = %q, %v, %v; want <svg/>, true, nil", data, hit, err)
	}

	// Frames are stored raw.
	raw, err := os.ReadFile(c.path("frame"))
	if err != nil || string(raw) != "<svg/>" {
		t.Errorf("file contents = %q, %v", raw, err)
	}

	if err := c.Delete(ctx, "frame"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "frame"); hit {
		t.Error("entry should be gone after Delete")
	}
	if err := c.Delete(ctx, "frame"); err != nil {
		t.Errorf("Delete of a missing key = %v, want nil", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)

	if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("ttl <= 0 should not expire")
	}

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}
}

func TestFileCacheClearAndStats(t *testing.T) {
	ctx := context.Background()
	c := newFileCache(t)
	for _, k := range []string{"a", "bb", "ccc"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}
	// Foreign files survive Clear.
	other := filepath.Join(c.Dir(), "README")
	if err := os.WriteFile(other, []byte("keep"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, size, err := c.Stats()
	if err != nil || n != 3 || size != 6 {
		t.Errorf("Stats() = %d, %d, %v; want 3, 6, nil", n, size, err)
	}

	cleared, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if cleared != 3 {
		t.Errorf("Clear() = %d, want 3", cleared)
	}
	if _, err := os.Stat(other); err != nil {
		t.Errorf("Clear removed a foreign file: %v", err)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	base := FrameKeyOpts{LayoutKeyOpts: LayoutKeyOpts{Width: 1014, Height: 680}, Format: "svg"}

	tests := []struct {
		name   string
		mutate func(*FrameKeyOpts)
	}{
		{"width", func(o *FrameKeyOpts) { o.Width = 1000 }},
		{"snap", func(o *FrameKeyOpts) { o.PixelSnap = true }},
		{"unbounded", func(o *FrameKeyOpts) { o.Unbounded = true }},
		{"format", func(o *FrameKeyOpts) { o.Format = "png" }},
		{"scale", func(o *FrameKeyOpts) { o.Scale = 2 }},
		{"state", func(o *FrameKeyOpts) { o.StateHash = "abc" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base
			tt.mutate(&o)
			if k.FrameKey("d1", base) == k.FrameKey("d1", o) {
				t.Errorf("changing %s should change FrameKey", tt.name)
			}
		})
	}

	if k.FrameKey("d1", base) == k.FrameKey("d2", base) {
		t.Error("different design hashes should produce different keys")
	}
	if got := k.FrameKey("d1", base); !strings.HasPrefix(got, "frame:svg:1014x680:") {
		t.Errorf("FrameKey() = %s, want frame:svg:1014x680: prefix", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	opts := FrameKeyOpts{Format: "png"}
	scoped := NewScopedKeyer(NewDefaultKeyer(), "serve:8080:")
	if key := scoped.FrameKey("d1", opts); !strings.HasPrefix(key, "serve:8080:frame:png:") {
		t.Errorf("FrameKey() = %s, want serve:8080: prefix", key)
	}

	want := "p:" + NewDefaultKeyer().FrameKey("d", opts)
	if got := NewScopedKeyer(nil, "p:").FrameKey("d", opts); got != want {
		t.Errorf("FrameKey with nil inner = %s, want %s", got, want)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), ErrUnavailable.Error())
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error should unwrap to ErrUnavailable")
	}
	if IsRetryable(ErrCacheMiss) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestBackoffRetry(t *testing.T) {
	ctx := context.Background()
	b := Backoff{Attempts: 3, Delay: time.Millisecond}

	tests := []struct {
		name      string
		failFirst int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"non-retryable", 5, false, 1, true},
		{"retry once", 1, true, 2, false},
		{"exhausted", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := b.Retry(ctx, func() error {
				calls++
				if calls <= tt.failFirst {
					if tt.retryable {
						return Retryable(ErrUnavailable)
					}
					return ErrCacheMiss
				}
				return nil
			})
			if (err != nil) != tt.wantErr || calls != tt.wantCalls {
				t.Errorf("Retry() err %v, calls %d; want err %v, calls %d", err, calls, tt.wantErr, tt.wantCalls)
			}
		})
	}
}

func TestBackoffZeroAttempts(t *testing.T) {
	calls := 0
	_ = Backoff{}.Retry(context.Background(), func() error {
		calls++
		return Retryable(ErrUnavailable)
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrUnavailable)
	})
	if err != context.Canceled {
		t.Errorf("RetryWithBackoff() = %v, want context.Canceled", err)
	}
}
