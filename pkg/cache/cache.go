// Package cache stores rendered frames so that repeated requests for the
// same design, viewport, state and format skip layout and painting.
//
// # Backends
//
//   - [FileCache]: raw frame files under ~/.cache/pianoxl (CLI)
//   - [NullCache]: never stores, for --no-cache and tests
//
// # Keys
//
// A [Keyer] derives keys from everything that affects a frame's bytes:
//
//	k := cache.NewDefaultKeyer()
//	key := k.FrameKey(tbl.Hash(), cache.FrameKeyOpts{Width: 1014, Height: 680, Format: "svg"})
//
// [Scoped] prefixes keys so several preview servers can share one cache
// directory without serving each other's frames.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data; ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// DefaultTTL is how long rendered frames stay cached.
const DefaultTTL = 24 * time.Hour

// DefaultDir returns ~/.cache/pianoxl, honouring XDG_CACHE_HOME.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pianoxl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "pianoxl"), nil
}

// NullCache never stores anything; every Get is a miss.
type NullCache struct{}

// NewNullCache returns a cache for --no-cache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }
