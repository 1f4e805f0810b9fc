package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"storefront/internal/auth"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/storage"
	"storefront/internal/store"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config    *config.Config
	logger    *zap.Logger
	storage   *storage.Store
	stores    Stores
	db        database.Service
	limiter   *redis.Client // only set when it is not also the storage client
	publisher events.Publisher
}

// Stores bundles the state layer the routes are bound to
type Stores struct {
	Auth     store.AuthStore
	Catalog  store.CatalogStore
	Cart     store.CartStore
	Wishlist store.WishlistStore
}

func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		config: cfg,
		logger: logger,
	}

	backend, storageRedis, err := s.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	s.storage = storage.New(backend, logger.Named("storage"))

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiry)*time.Minute)

	stores, err := NewStores(ctx, s.storage, tokens, logger)
	if err != nil {
		return nil, s.abort(err)
	}
	s.stores = stores

	s.publisher = s.newPublisher()
	checkoutSvc := checkout.NewService(stores.Cart, s.publisher, cfg.Checkout.ProcessingDelay, logger)

	router := chi.NewRouter()
	for _, mw := range custommiddleware.DefaultMiddlewareStack(logger) {
		router.Use(mw)
	}
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))
	if limiter := s.rateLimitClient(ctx, storageRedis); limiter != nil {
		router.Use(custommiddleware.RateLimitMiddleware(limiter, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         cfg.Storage.Prefix,
		}, logger))
	}

	router.Get("/health", s.health)
	router.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, stores, checkoutSvc, tokens, logger)
	})

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, nil
}

// NewStores hydrates every store from st
func NewStores(ctx context.Context, st *storage.Store, tokens store.TokenIssuer, logger *zap.Logger) (Stores, error) {
	authStore, err := store.NewAuthStore(ctx, st, tokens, logger)
	if err != nil {
		return Stores{}, err
	}

	catalog, err := store.NewCatalogStore(ctx, st, logger)
	if err != nil {
		return Stores{}, err
	}

	return Stores{
		Auth:     authStore,
		Catalog:  catalog,
		Cart:     store.NewCartStore(ctx, st, logger),
		Wishlist: store.NewWishlistStore(ctx, st, logger),
	}, nil
}

// RegisterRoutes binds the handlers to r
func RegisterRoutes(r chi.Router, stores Stores, checkoutSvc checkout.Service, tokens custommiddleware.TokenParser, logger *zap.Logger) {
	authMiddleware := custommiddleware.AuthMiddleware(tokens, stores.Auth, logger)
	adminMiddleware := custommiddleware.RequireAdmin(logger)

	transport.NewAuthHandler(stores.Auth, logger).RegisterRoutes(r, authMiddleware)
	transport.NewProductHandler(stores.Catalog, logger).RegisterRoutes(r)
	transport.NewCartHandler(stores.Cart, stores.Catalog, logger).RegisterRoutes(r)
	transport.NewWishlistHandler(stores.Wishlist, stores.Catalog, logger).RegisterRoutes(r)
	transport.NewCheckoutHandler(checkoutSvc, logger).RegisterRoutes(r)
	transport.NewAdminHandler(stores.Auth, stores.Catalog, logger).RegisterRoutes(r, authMiddleware, adminMiddleware)
}

// openBackend builds the storage backend for the configured driver. The redis
// client is returned so the rate limiter can share it.
func (s *Server) openBackend(ctx context.Context) (storage.Backend, *redis.Client, error) {
	cfg := s.config

	switch cfg.Storage.Driver {
	case config.StorageMemory:
		s.logger.Warn("Using in-memory storage, state is lost on restart")
		return storage.NewMemoryBackend(), nil, nil

	case config.StorageFile, "":
		backend, err := storage.NewFileBackend(afero.NewOsFs(), cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		s.logger.Info("Using file storage", zap.String("path", cfg.Storage.Path))
		return backend, nil, nil

	case config.StorageRedis:
		client, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		s.logger.Info("Using redis storage", zap.String("prefix", cfg.Storage.Prefix))
		return storage.NewRedisBackend(client, cfg.Storage.Prefix), client, nil

	case config.StoragePostgres:
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db.DB(), s.logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		s.db = db
		s.logger.Info("Using postgres storage", zap.String("host", cfg.Database.Host))
		return storage.NewPostgresBackend(db.DB()), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// rateLimitClient returns the redis client for rate limiting, or nil when
// rate limiting is off or redis cannot be reached
func (s *Server) rateLimitClient(ctx context.Context, storageRedis *redis.Client) redis.Cmdable {
	if s.config.RateLimit.Requests <= 0 {
		return nil
	}
	if storageRedis != nil {
		return storageRedis
	}

	client, err := connectRedis(ctx, s.config.Redis)
	if err != nil {
		s.logger.Warn("Rate limiting disabled", zap.Error(err))
		return nil
	}
	s.limiter = client
	return client
}

func (s *Server) newPublisher() events.Publisher {
	if s.config.Broker.URL == "" {
		return events.NewLogPublisher(s.logger)
	}

	publisher, err := events.NewRabbitMQPublisher(s.config.Broker.URL, s.config.Broker.Queue, s.logger)
	if err != nil {
		s.logger.Warn("Falling back to log publisher", zap.Error(err))
		return events.NewLogPublisher(s.logger)
	}
	return publisher
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"storage": s.config.Storage.Driver,
	}
	code := http.StatusOK

	if s.db != nil {
		db := s.db.Health(r.Context())
		status["database"] = db
		if db["status"] != "up" {
			status["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	custommiddleware.RespondWithJSON(w, code, status)
}

// abort releases whatever NewServer opened before failing with err
func (s *Server) abort(err error) error {
	if closeErr := s.Close(); closeErr != nil {
		s.logger.Error("Failed to release resources after init failure",
			zap.NamedError("cause", err),
			zap.Error(closeErr),
		)
	}
	return err
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	var errs []error
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			s.logger.Error("Failed to close event publisher", zap.Error(err))
			errs = append(errs, err)
		}
	}

	if s.limiter != nil {
		if err := s.limiter.Close(); err != nil {
			s.logger.Error("Failed to close rate limit client", zap.Error(err))
			errs = append(errs, err)
		}
	}

	// closes the redis client or postgres pool behind the backend
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			s.logger.Error("Failed to close storage", zap.Error(err))
			errs = append(errs, err)
		}
	}

	s.logger.Sync()
	return errors.Join(errs...)
}
