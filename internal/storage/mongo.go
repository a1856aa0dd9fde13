package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/IshaanNene/engagerank/internal/types"
)

// MongoStore writes submissions to a MongoDB collection.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	mu         sync.Mutex
	count      int
	logger     *slog.Logger
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database, collection string, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("connect: %w", err)}
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("ping: %w", err)}
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_store"),
	}, nil
}

func (s *MongoStore) Name() string { return "mongodb" }

func (s *MongoStore) Append(ctx context.Context, sub types.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := s.collection.InsertOne(ctx, sub); err != nil {
		return &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("insert: %w", err)}
	}

	s.mu.Lock()
	s.count++
	total := s.count
	s.mu.Unlock()

	s.logger.Debug("submission stored in mongodb", "id", sub.ID, "user", sub.User, "total", total)
	return nil
}

// All returns submissions ordered by submission time.
func (s *MongoStore) All(ctx context.Context) ([]types.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: 1}})
	cur, err := s.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("find: %w", err)}
	}
	defer cur.Close(ctx)

	var subs []types.Submission
	if err := cur.All(ctx, &subs); err != nil {
		return nil, &types.StorageError{Backend: "mongodb", Err: fmt.Errorf("decode: %w", err)}
	}
	return subs, nil
}

func (s *MongoStore) Close() error {
	s.logger.Info("mongodb store closing", "appended", s.count)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// --- Multi-Store Fan-Out ---

// MultiStore appends to several backends and reads from the first.
type MultiStore struct {
	backends []Store
	logger   *slog.Logger
}

// NewMultiStore creates a store that fans out to multiple backends.
func NewMultiStore(backends []Store, logger *slog.Logger) *MultiStore {
	return &MultiStore{
		backends: backends,
		logger:   logger.With("component", "multi_store"),
	}
}

func (s *MultiStore) Name() string { return "multi" }

func (s *MultiStore) Append(ctx context.Context, sub types.Submission) error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Append(ctx, sub); err != nil {
			s.logger.Error("backend append failed", "backend", backend.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *MultiStore) All(ctx context.Context) ([]types.Submission, error) {
	if len(s.backends) == 0 {
		return nil, nil
	}
	return s.backends[0].All(ctx)
}

func (s *MultiStore) Close() error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
