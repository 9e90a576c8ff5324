package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/tabsplit/tabsplit/internal/dependencies/clock"
	"github.com/tabsplit/tabsplit/internal/dependencies/ident"
	"github.com/tabsplit/tabsplit/internal/extract"
	"github.com/tabsplit/tabsplit/internal/services/bill"
	"github.com/tabsplit/tabsplit/internal/services/session"
	"github.com/tabsplit/tabsplit/internal/storage"
	boltstorage "github.com/tabsplit/tabsplit/internal/storage/bolt"
	"github.com/tabsplit/tabsplit/internal/storage/memory"
	redisstorage "github.com/tabsplit/tabsplit/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeBolt   = "bolt"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	Ids   ident.Source

	// Services
	ExtractService    *extract.Service
	SessionController *session.Controller
	BillController    *bill.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or
	// "bolt"); empty defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if
	// StorageType is "redis")
	RedisConfig *redisstorage.Config
	// BoltPath is the bolt database file (required if StorageType is
	// "bolt")
	BoltPath string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

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
	case StorageTypeBolt:
		if cfg.BoltPath == "" {
			return nil, errors.New("BoltPath required when StorageType is bolt")
		}
		boltStore, err := boltstorage.New(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		store = boltStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'bolt'")
	}

	return newWithDependencies(store, clock.New(), ident.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, ids ident.Source, logger *slog.Logger) *App {
	extractService := extract.New(ids, logger)
	sessionController := session.NewController(store, extractService, clk, ids, logger)
	billController := bill.NewController(store, clk, ids, logger)

	return &App{
		Storage:           store,
		Clock:             clk,
		Ids:               ids,
		ExtractService:    extractService,
		SessionController: sessionController,
		BillController:    billController,
	}
}

// Close releases storage resources for backends that hold any
func (a *App) Close() error {
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
