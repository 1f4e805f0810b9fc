package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"storefront/internal/auth"
	"storefront/internal/storage"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// flakyBackend is an in-memory backend whose writes can be made to fail per key
type flakyBackend struct {
	*storage.MemoryBackend

	mu       sync.Mutex
	failing  map[string]bool
	setCalls map[string]int
}

func newFlakyBackend() *flakyBackend {
	return &flakyBackend{
		MemoryBackend: storage.NewMemoryBackend(),
		failing:       make(map[string]bool),
		setCalls:      make(map[string]int),
	}
}

func (f *flakyBackend) failOn(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[key] = true
}

func (f *flakyBackend) heal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing = make(map[string]bool)
}

func (f *flakyBackend) writes(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setCalls[key]
}

func (f *flakyBackend) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.setCalls[key]++
	fail := f.failing[key]
	f.mu.Unlock()

	if fail {
		return errors.New("quota exceeded")
	}
	return f.MemoryBackend.Set(ctx, key, value)
}

func (f *flakyBackend) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	fail := f.failing[key]
	f.mu.Unlock()

	if fail {
		return errors.New("quota exceeded")
	}
	return f.MemoryBackend.Delete(ctx, key)
}

func newTokens() *auth.TokenManager {
	return auth.NewTokenManager("test-secret", "storefront-test", time.Hour)
}

func newTestAuthStore(t *testing.T, backend storage.Backend) AuthStore {
	t.Helper()

	s, err := NewAuthStore(context.Background(), storage.New(backend, zap.NewNop()), newTokens(), zap.NewNop())
	require.NoError(t, err)
	return s
}

func newTestCatalogStore(t *testing.T, backend storage.Backend) CatalogStore {
	t.Helper()

	s, err := NewCatalogStore(context.Background(), storage.New(backend, zap.NewNop()), zap.NewNop())
	require.NoError(t, err)
	return s
}

func newTestCartStore(backend storage.Backend) CartStore {
	return NewCartStore(context.Background(), storage.New(backend, zap.NewNop()), zap.NewNop())
}

func newTestWishlistStore(backend storage.Backend) WishlistStore {
	return NewWishlistStore(context.Background(), storage.New(backend, zap.NewNop()), zap.NewNop())
}

// counter returns a listener and a func reporting how often it ran
func counter() (Listener, func() int) {
	var mu sync.Mutex
	n := 0
	return func() {
			mu.Lock()
			n++
			mu.Unlock()
		}, func() int {
			mu.Lock()
			defer mu.Unlock()
			return n
		}
}
