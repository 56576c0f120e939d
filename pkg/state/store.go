package state

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/pianoxl/pkg/errors"
)

// ErrNotFound is returned when no state is stored under a key.
var ErrNotFound = stderrors.New("state not found")

// DefaultKey is the key the CLI and the preview use when none is given.
const DefaultKey = "default"

// Store persists State values by key.
type Store interface {
	Load(ctx context.Context, key string) (State, error)
	Save(ctx context.Context, key string, s State) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LoadOrDefault returns the stored state for key, or Default() when the key
// has never been saved.
func LoadOrDefault(ctx context.Context, st Store, key string) (State, error) {
	s, err := st.Load(ctx, key)
	if stderrors.Is(err, ErrNotFound) {
		return Default(), nil
	}
	return s, err
}

// checkKey and checkState run before any backend call.
func checkKey(key string) error {
	return errors.ValidateKey(key)
}

func checkState(s State) error {
	return s.Validate()
}

func unavailable(backend string, err error) error {
	return errors.Wrap(errors.ErrCodeStoreUnavailable, err, "%s store", backend)
}

// NullStore never persists anything. Every Load misses.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store { return NullStore{} }

func (NullStore) Load(ctx context.Context, key string) (State, error) {
	if err := checkKey(key); err != nil {
		return State{}, err
	}
	return State{}, ErrNotFound
}

func (NullStore) Save(ctx context.Context, key string, s State) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return checkState(s)
}

func (NullStore) Delete(ctx context.Context, key string) error { return checkKey(key) }

func (NullStore) Close() error { return nil }

var _ Store = NullStore{}
