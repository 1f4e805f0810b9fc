package storage

import (
	"context"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func setupPostgres(t *testing.T) database.Service {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()
	container, err := postgres.Run(
		ctx,
		"postgres:15",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	svc, err := database.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.NoError(t, database.RunMigrations(svc.DB(), zap.NewNop()))
	return svc
}

func TestPostgresBackend(t *testing.T) {
	svc := setupPostgres(t)
	backend := NewPostgresBackend(svc.DB())
	store := New(backend, nil)
	ctx := context.Background()

	_, err := backend.Get(ctx, KeyProducts)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	products := domain.SeedProducts()
	require.NoError(t, store.Save(ctx, KeyProducts, products))

	var loaded []domain.Product
	require.True(t, store.Load(ctx, KeyProducts, &loaded))
	assert.Equal(t, products, loaded)

	products[0].Price = 1
	require.NoError(t, store.Save(ctx, KeyProducts, products[:1]))
	require.True(t, store.Load(ctx, KeyProducts, &loaded))
	assert.Len(t, loaded, 1)
	assert.Equal(t, 1.0, loaded[0].Price)

	require.NoError(t, store.Remove(ctx, KeyProducts))
	assert.False(t, store.Load(ctx, KeyProducts, new([]domain.Product)))
}
