package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for call-level failures.
var (
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	ErrTimeout             = errors.New("timeout")
	ErrCanceled            = errors.New("extraction canceled")
	ErrEmptyText           = errors.New("empty counter text")
	ErrNotNumeric          = errors.New("counter text is not a plain integer")
	ErrNotFound            = errors.New("locator matched no element")
)

// NavigationError reports that the page could not be loaded.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("failed to load page: %v", e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// SessionError reports that a browser session could not be acquired or closed.
type SessionError struct {
	Op  string // "acquire" or "close"
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("browser session error (%s): %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error { return e.Err }

// CounterError describes a single counter that could not be read.
// It never crosses the extractor boundary; the counter degrades to 0.
type CounterError struct {
	Platform string
	Counter  Counter
	Locator  Locator
	Err      error
}

func (e *CounterError) Error() string {
	return fmt.Sprintf("%s %s unavailable (locator=%s): %v", e.Platform, e.Counter, e.Locator, e.Err)
}

func (e *CounterError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur in a submission store.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
