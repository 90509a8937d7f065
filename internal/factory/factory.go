package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/signullgame/signull/internal/dependencies/clock"
	"github.com/signullgame/signull/internal/dependencies/random"
	"github.com/signullgame/signull/internal/pubsub"
	"github.com/signullgame/signull/internal/services/auth"
	"github.com/signullgame/signull/internal/services/room"
	"github.com/signullgame/signull/internal/services/scoring"
	"github.com/signullgame/signull/internal/storage"
	"github.com/signullgame/signull/internal/storage/memory"
	redisstorage "github.com/signullgame/signull/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Broker         *pubsub.Broker
	ScoringService *scoring.Service
	RoomController *room.Controller
	AuthService    *auth.Service
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	return newWithDependencies(store, clk, rnd, authCfg, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, logger *slog.Logger) *App {
	broker := pubsub.NewBroker(logger)
	scoringService := scoring.New()
	roomController := room.New(store, broker, scoringService, clk, rnd, logger)
	authService := auth.New(store, clk, authCfg)

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Broker:         broker,
		ScoringService: scoringService,
		RoomController: roomController,
		AuthService:    authService,
	}
}
