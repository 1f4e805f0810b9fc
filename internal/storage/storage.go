// Package storage persists JSON-serializable values under string keys. It is the
// stand-in for browser local storage that every store hydrates from and writes
// through to.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Keys under which the stores persist their collections
const (
	KeySession  = "user"
	KeyUsers    = "users"
	KeyProducts = "products"
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
)

var (
	ErrKeyNotFound = errors.New("key not found")
)

// Backend is a raw byte key-value store
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Store adds the JSON contract on top of a Backend
type Store struct {
	backend Backend
	logger  *zap.Logger
}

// New creates a Store over backend
func New(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{backend: backend, logger: logger}
}

// Load decodes the value stored under key into dst, which must be a non-nil
// pointer. It returns false when the key is missing, the backend fails or the
// stored JSON does not decode; such failures are logged and never reach the
// caller. dst is only written when the whole value decodes.
func (s *Store) Load(ctx context.Context, key string, dst any) bool {
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		s.logger.Error("Load target must be a non-nil pointer", zap.String("key", key))
		return false
	}

	data, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Warn("Failed to read persisted value", zap.String("key", key), zap.Error(err))
		}
		return false
	}

	fresh := reflect.New(target.Elem().Type())
	if err := json.Unmarshal(data, fresh.Interface()); err != nil {
		s.logger.Warn("Discarding malformed persisted value", zap.String("key", key), zap.Error(err))
		return false
	}

	target.Elem().Set(fresh.Elem())
	return true
}

// Save encodes value and writes it under key, replacing what was there
func (s *Store) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := s.backend.Set(ctx, key, data); err != nil {
		s.logger.Error("Failed to persist value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}

	return nil
}

// Remove deletes key. A missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil && !errors.Is(err, ErrKeyNotFound) {
		s.logger.Error("Failed to remove value", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close releases the backend
func (s *Store) Close() error {
	return s.backend.Close()
}
