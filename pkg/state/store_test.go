package state

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/pianoxl/pkg/errors"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	want := Default().Toggle(ControlInversion).Adjust(1).CycleSize()
	if err := st.Save(ctx, "session-1", want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := st.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Hash() != want.Hash() {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("Save should stamp UpdatedAt")
	}

	if err := st.Delete(ctx, "session-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := st.Load(ctx, "session-1"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Load() after Delete = %v, want ErrNotFound", err)
	}
	if err := st.Delete(ctx, "session-1"); err != nil {
		t.Errorf("Delete() of missing key = %v, want nil", err)
	}
}

func TestFileStoreNoTempLeftBehind(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := st.Save(context.Background(), DefaultKey, Default()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != DefaultKey+".json" {
		t.Errorf("dir entries = %v, want only %s.json", entries, DefaultKey)
	}
}

func TestFileStoreRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	for _, key := range []string{"", "../escape", "a/b"} {
		if err := st.Save(ctx, key, Default()); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Save(%q) error = %v, want %s", key, err, errors.ErrCodeInvalidInput)
		}
	}

	bad := Default()
	bad.Fader = 2
	if err := st.Save(ctx, "ok", bad); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Save(invalid state) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Load(context.Background(), "broken"); err == nil || stderrors.Is(err, ErrNotFound) {
		t.Errorf("Load(corrupt) error = %v, want parse error", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	ctx := context.Background()
	got, err := LoadOrDefault(ctx, NewNullStore(), DefaultKey)
	if err != nil {
		t.Fatalf("LoadOrDefault() error = %v", err)
	}
	if got.Hash() != Default().Hash() {
		t.Errorf("LoadOrDefault() = %+v, want Default()", got)
	}

	if _, err := LoadOrDefault(ctx, NewNullStore(), ""); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("LoadOrDefault(empty key) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	st := NewNullStore()
	if err := st.Save(ctx, "k", Default()); err != nil {
		t.Errorf("Save() error = %v", err)
	}
	if _, err := st.Load(ctx, "k"); !stderrors.Is(err, ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
	if err := st.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestRedisKeyPrefix(t *testing.T) {
	// No connection is made until a command runs.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	tests := []struct {
		prefix string
		want   string
	}{
		{"", "pianoxl:state:default"},
		{"tenant:a:", "tenant:a:default"},
	}
	for _, tt := range tests {
		s := newRedisStore(client, RedisConfig{Prefix: tt.prefix})
		if got := s.redisKey(DefaultKey); got != tt.want {
			t.Errorf("redisKey() = %q, want %q", got, tt.want)
		}
	}
}

func TestRedisRejectsBadKeyWithoutNetwork(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()
	s := newRedisStore(client, RedisConfig{})
	if _, err := s.Load(context.Background(), "../x"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load(bad key) error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestMongoConfigDefaults(t *testing.T) {
	got := MongoConfig{URI: "mongodb://localhost"}.withDefaults()
	if got.Database != "pianoxl" || got.Collection != "state" {
		t.Errorf("withDefaults() = %+v", got)
	}
	kept := MongoConfig{Database: "x", Collection: "y"}.withDefaults()
	if kept.Database != "x" || kept.Collection != "y" {
		t.Errorf("withDefaults() overwrote explicit values: %+v", kept)
	}
}

func TestByID(t *testing.T) {
	d := byID("abc")
	if len(d) != 1 || d[0].Key != "_id" || d[0].Value != "abc" {
		t.Errorf("byID() = %v", d)
	}
}
