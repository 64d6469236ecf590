package container

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog/log"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/author"
	authorHandler "blog-backend/internal/domains/author/handler"
	authorRepo "blog-backend/internal/domains/author/repository"
	authorService "blog-backend/internal/domains/author/service"
	"blog-backend/internal/domains/post"
	postHandler "blog-backend/internal/domains/post/handler"
	postRepo "blog-backend/internal/domains/post/repository"
	postService "blog-backend/internal/domains/post/service"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/infrastructure/kvstore"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/logger"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config *config.Config
	DB     *database.PostgresDB // set when STORAGE_DRIVER=postgres
	KV     *badger.DB           // set when STORAGE_DRIVER=badger
	Cache  cache.Cache          // cache.Noop when Redis is disabled

	// ========================================
	// REPOSITORY LAYER
	// ========================================

	AuthorRepo author.Repository
	PostRepo   post.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================

	AuthorService author.Service
	PostService   post.Service

	// ========================================
	// HANDLER LAYER
	// ========================================

	AuthorHandler *authorHandler.AuthorHandler
	PostHandler   *postHandler.PostHandler
}

// NewContainer loads the configuration from the environment and builds the graph.
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return Build(cfg)
}

// Build wires config -> infrastructure -> repositories -> services -> handlers.
// On failure everything opened so far is released.
func Build(cfg *config.Config) (*Container, error) {
	logger.Info("Initializing DI container", map[string]interface{}{
		"env":     cfg.App.Environment,
		"storage": cfg.Storage.Driver,
		"redis":   cfg.Redis.Enabled,
	})

	c := &Container{Config: cfg}

	c.initCache()

	if err := c.initStorage(); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("DI container initialized", nil)
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

// initCache falls back to cache.Noop when Redis is disabled or unreachable.
func (c *Container) initCache() {
	if !c.Config.Redis.Enabled {
		logger.Debug("Redis disabled, using no-op cache")
		c.Cache = cache.Noop{}
		return
	}

	rc := infraCache.NewRedisCache(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.Connect(ctx); err != nil {
		logger.Warn("Redis connection failed, caching disabled", err)
		_ = rc.Close()
		c.Cache = cache.Noop{}
		return
	}

	c.Cache = rc
}

func (c *Container) initStorage() error {
	switch c.Config.Storage.Driver {
	case config.StorageDriverBadger:
		kv, err := kvstore.Open(kvstore.Config{
			Dir:      c.Config.Storage.BadgerDir,
			InMemory: c.Config.Storage.BadgerInMemory,
		})
		if err != nil {
			return fmt.Errorf("failed to open badger: %w", err)
		}
		c.KV = kv

	default:
		dbConfig, err := config.LoadDatabaseConfig()
		if err != nil {
			return fmt.Errorf("failed to load database config: %w", err)
		}

		db := database.NewPostgresDB(dbConfig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := db.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db
	}

	return nil
}

func (c *Container) initRepositories() {
	if c.KV != nil {
		c.AuthorRepo = authorRepo.NewBadgerRepository(c.KV)
		c.PostRepo = postRepo.NewBadgerRepository(c.KV)
		return
	}

	c.AuthorRepo = authorRepo.NewPostgresRepository(c.DB.Pool, c.Cache, c.Config.Redis.CacheTTL)
	c.PostRepo = postRepo.NewPostgresRepository(c.DB.Pool, c.Cache, c.Config.Redis.CacheTTL)
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	c.PostService = postService.NewPostService(c.PostRepo)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.PostHandler = postHandler.NewPostHandler(c.PostService)
}

// ========================================
// HEALTH & LIFECYCLE
// ========================================

// HealthCheck reports per-component status. healthy is false only when the
// store is down; a failing cache degrades to misses.
func (c *Container) HealthCheck(ctx context.Context) (healthy bool, services map[string]string) {
	services = make(map[string]string, 2)
	healthy = true

	switch {
	case c.DB != nil:
		services["database"] = "ok"
		if err := c.DB.HealthCheck(ctx); err != nil {
			services["database"] = fmt.Sprintf("error: %v", err)
			healthy = false
		}
	case c.KV != nil:
		services["badger"] = "ok"
		if c.KV.IsClosed() {
			services["badger"] = "closed"
			healthy = false
		}
	default:
		services["storage"] = "disconnected"
		healthy = false
	}

	if _, disabled := c.Cache.(cache.Noop); disabled {
		services["redis"] = "disabled"
	} else if err := c.Cache.Ping(ctx); err != nil {
		services["redis"] = fmt.Sprintf("error: %v", err)
	} else {
		services["redis"] = "ok"
	}

	return healthy, services
}

// Cleanup releases every connection the container opened. Safe to call twice.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources...")

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Error("Failed to close database", err)
		}
	}

	if c.KV != nil && !c.KV.IsClosed() {
		// Id leases are handed back before the store closes.
		for _, repo := range []interface{}{c.AuthorRepo, c.PostRepo} {
			if closer, ok := repo.(io.Closer); ok {
				if err := closer.Close(); err != nil {
					logger.Error("Failed to release id sequence", err)
				}
			}
		}
		if err := c.KV.Close(); err != nil {
			logger.Error("Failed to close badger", err)
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
		c.Cache = cache.Noop{}
	}

	log.Info().Msg("Container cleanup completed")
}
