package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/IshaanNene/engagerank/internal/types"
)

// FileStore appends submissions to a text file, one
// "user,likes,shares,comments" line each.
type FileStore struct {
	path   string
	mu     sync.Mutex
	count  int
	logger *slog.Logger
}

// NewFileStore creates a flat-file store. The file is created on first append.
func NewFileStore(path string, logger *slog.Logger) (*FileStore, error) {
	if path == "" {
		return nil, &types.StorageError{Backend: "file", Err: errors.New("empty path")}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &types.StorageError{Backend: "file", Err: fmt.Errorf("create data dir: %w", err)}
		}
	}

	return &FileStore{
		path:   path,
		logger: logger.With("component", "file_store"),
	}, nil
}

func (s *FileStore) Name() string { return "file" }

func (s *FileStore) Append(ctx context.Context, sub types.Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &types.StorageError{Backend: "file", Err: fmt.Errorf("open data file: %w", err)}
	}

	if _, err := fmt.Fprintln(f, sub.Line()); err != nil {
		f.Close()
		return &types.StorageError{Backend: "file", Err: fmt.Errorf("write submission: %w", err)}
	}
	if err := f.Close(); err != nil {
		return &types.StorageError{Backend: "file", Err: fmt.Errorf("close data file: %w", err)}
	}

	s.count++
	s.logger.Debug("submission appended", "user", sub.User, "total", s.count)
	return nil
}

// All reads every line. A missing file means no data yet; malformed lines are skipped.
func (s *FileStore) All(ctx context.Context) ([]types.Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &types.StorageError{Backend: "file", Err: fmt.Errorf("open data file: %w", err)}
	}
	defer f.Close()

	var subs []types.Submission
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		sub, err := types.ParseSubmissionLine(line)
		if err != nil {
			s.logger.Warn("skipping malformed line", "path", s.path, "line", lineNo, "error", err)
			continue
		}
		subs = append(subs, sub)
	}
	if err := scanner.Err(); err != nil {
		return nil, &types.StorageError{Backend: "file", Err: fmt.Errorf("read data file: %w", err)}
	}
	return subs, nil
}

func (s *FileStore) Close() error {
	s.logger.Info("file store closing", "path", s.path, "appended", s.count)
	return nil
}
