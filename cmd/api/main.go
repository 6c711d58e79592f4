package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"stockroom-api/internal/cache"
	"stockroom-api/internal/config"
	"stockroom-api/internal/handler"
	"stockroom-api/internal/middleware"
	"stockroom-api/internal/repository"
	"stockroom-api/internal/router"
	"stockroom-api/internal/service"

	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting stockroom API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Resolve the token-signing secret once; it is read-only afterwards.
	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		secret = randomSecret()
		log.Println("Warning: AUTH_SECRET not set, using a random per-process secret; sessions will not survive a restart")
	}

	// Initialize storage backend based on config
	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer store.Close()

	// Initialize the list cache: Redis when configured and reachable,
	// in-memory otherwise.
	var listCache cache.Cache
	if cfg.Cache.RedisEnabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			log.Printf("Warning: Redis connection failed, falling back to memory cache: %v", err)
		} else {
			listCache = cache.NewRedisCache(redisClient, "")
			defer redisClient.Close()
			log.Println("Redis cache initialized")
		}
	}
	if listCache == nil {
		listCache = cache.NewMemoryCache()
		log.Println("Memory cache initialized")
	}
	defer listCache.Close()

	// Initialize services
	tokenService := service.NewTokenService(secret, cfg.Auth.TokenTTL)
	accountService := service.NewAccountService(store, tokenService)
	inventoryService := service.NewInventoryService(store, listCache, cfg.Cache.TTL)

	// Initialize handlers
	healthHandler := handler.New(store, cfg.App.Version)
	authHandler := handler.NewAuthHandler(accountService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)

	// Create router
	r := router.New(router.Config{
		Handler:          healthHandler,
		AuthHandler:      authHandler,
		InventoryHandler: inventoryHandler,
		AuthMiddleware:   middleware.NewAuthMiddleware(accountService),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// openStore selects and initializes the storage backend.
func openStore(cfg *config.Config) (repository.Store, error) {
	switch cfg.Database.Type {
	case "postgres", "postgresql":
		return repository.NewPostgresStore(cfg.Database.PostgresDSN())
	case "mysql":
		return repository.NewMySQLStore(cfg.Database.MySQLDSN())
	case "mongodb", "mongo":
		return repository.NewMongoStore(cfg.Database.MongoURI, cfg.Database.MongoDatabase)
	case "memory":
		log.Println("Warning: memory storage selected, data will not survive a restart")
		return repository.NewMemoryStore(), nil
	default: // sqlite
		if dir := filepath.Dir(cfg.Database.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		return repository.NewSQLiteStore(cfg.Database.Path)
	}
}

// randomSecret generates a 32-byte hex-encoded signing secret.
func randomSecret() []byte {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("Failed to generate signing secret: %v", err)
	}
	return []byte(hex.EncodeToString(buf))
}
