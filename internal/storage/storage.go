package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/engagerank/internal/config"
	"github.com/IshaanNene/engagerank/internal/types"
)

// Store keeps submissions. Appends are serialised by the store itself;
// records are never updated or deleted.
type Store interface {
	// Name returns the backend identifier.
	Name() string

	// Append adds one submission.
	Append(ctx context.Context, sub types.Submission) error

	// All returns every submission in insertion order.
	All(ctx context.Context) ([]types.Submission, error)

	// Close releases any resources held by the store.
	Close() error
}

// New creates the store selected by cfg.Type.
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Store, error) {
	switch cfg.Type {
	case "file", "":
		return NewFileStore(cfg.Path, logger)
	case "mongo":
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
	case "multi":
		file, err := NewFileStore(cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		mongo, err := NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
		if err != nil {
			_ = file.Close()
			return nil, err
		}
		return NewMultiStore([]Store{file, mongo}, logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
