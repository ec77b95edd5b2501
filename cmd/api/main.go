package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"github.com/pinshare/pinshare-api/internal/auth"
	"github.com/pinshare/pinshare-api/internal/config"
	"github.com/pinshare/pinshare-api/internal/database"
	httpServer "github.com/pinshare/pinshare-api/internal/http"
	"github.com/pinshare/pinshare-api/internal/identifier"
	"github.com/pinshare/pinshare-api/internal/logging"
	"github.com/pinshare/pinshare-api/internal/pin"
	"github.com/pinshare/pinshare-api/internal/ratelimit"
	"github.com/pinshare/pinshare-api/internal/user"
)

// @title           Pinshare API
// @version         1.0
// @description     A pin-sharing REST API: users create geolocated pins and share them with other users.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description The raw bearer token, no prefix.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_scheme", cfg.Auth.TokenScheme,
	)
	if cfg.Auth.TokenScheme == config.TokenSchemeJWT && !cfg.Auth.VerifySignature {
		logger.Warn("token signature verification is DISABLED; set TOKEN_VERIFY_SIGNATURE=true to enforce signatures")
	}

	// Initialize database connection
	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Initialize Redis connection
	redisClient, err := initRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	userRepo := user.NewRepository(db)
	pinRepo := pin.NewRepository(db)

	// Initialize ID generator and rate limiter
	idGenerator := identifier.NewGenerator()
	rateLimiter := ratelimit.NewLimiter(redisClient)

	// Initialize token service
	tokenService, err := initTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Initialize services
	authService := auth.NewService(userRepo, tokenService, idGenerator, logger)
	pinService := pin.NewService(pinRepo, userRepo, idGenerator, logger)

	// Initialize HTTP handlers and middleware
	authHandler := auth.NewHandler(authService, rateLimiter, logger)
	userHandler := user.NewHandler(userRepo)
	pinHandler := pin.NewHandler(pinService, userRepo)
	authMiddleware := auth.NewMiddleware(tokenService, userRepo)

	// Initialize router
	router := httpServer.NewRouter(cfg, authHandler, userHandler, pinHandler, authMiddleware, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// initTokenService builds the configured bearer token implementation
func initTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	switch cfg.TokenScheme {
	case config.TokenSchemePaseto:
		return auth.NewPasetoService(cfg.TokenSecret, cfg.TokenTTL)
	default:
		return auth.NewJWTService(cfg.TokenSecret, cfg.TokenTTL, cfg.VerifySignature)
	}
}
