// Package bot implements the chat commands that submit posts and show rankings.
package bot

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/time/rate"

	"github.com/IshaanNene/engagerank/internal/observability"
	"github.com/IshaanNene/engagerank/internal/ranking"
	"github.com/IshaanNene/engagerank/internal/storage"
	"github.com/IshaanNene/engagerank/internal/types"
)

// Reply messages.
const (
	MsgSubmitUsage    = "Usage: %ssubmit <post url>"
	MsgProcessing     = "%s, processing your submission..."
	MsgSubmitted      = "Submission successful! Likes: %d, Shares: %d, Comments: %d"
	MsgSubmitFailed   = "Failed to process submission: %s"
	MsgSaveFailed     = "Submission could not be saved. Please try again later."
	MsgThrottled      = "Too many submissions right now. Please try again in a moment."
	MsgAccessDenied   = "Access denied. Incorrect password."
	MsgNoData         = "No data available yet."
	MsgUnknownCommand = "Unknown command. Available: %ssubmit <url>, %srankings <password>"
)

// Extractor reads engagement metrics for a post URL.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) types.Outcome
}

// Reply sends one message back to the channel a command came from.
type Reply func(msg string) error

// Option configures a Handler.
type Option func(*Handler)

// WithLimiter throttles submissions.
func WithLimiter(l *rate.Limiter) Option {
	return func(h *Handler) { h.limiter = l }
}

// WithMetrics records submission and ranking counters.
func WithMetrics(m *observability.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// Handler runs bot commands independently of the chat transport.
type Handler struct {
	extractor Extractor
	store     storage.Store
	password  string
	prefix    string
	limiter   *rate.Limiter
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// NewHandler creates a command handler.
func NewHandler(extractor Extractor, store storage.Store, password, prefix string, logger *slog.Logger, opts ...Option) *Handler {
	if prefix == "" {
		prefix = "!"
	}
	h := &Handler{
		extractor: extractor,
		store:     store,
		password:  password,
		prefix:    prefix,
		logger:    logger.With("component", "bot"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Command is a parsed chat command.
type Command struct {
	Name string
	Args []string
}

// ParseCommand splits a message into a command. ok is false when the
// message does not start with the prefix.
func ParseCommand(content, prefix string) (Command, bool) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return Command{}, false
	}
	fields := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(fields) == 0 {
		return Command{}, false
	}
	return Command{Name: strings.ToLower(fields[0]), Args: fields[1:]}, true
}

// Dispatch handles a raw message. It returns false if the message was not a command.
func (h *Handler) Dispatch(ctx context.Context, user, content string, reply Reply) bool {
	cmd, ok := ParseCommand(content, h.prefix)
	if !ok {
		return false
	}

	switch cmd.Name {
	case "submit":
		url := ""
		if len(cmd.Args) > 0 {
			url = cmd.Args[0]
		}
		h.Submit(ctx, user, url, reply)
	case "rankings":
		password := ""
		if len(cmd.Args) > 0 {
			password = cmd.Args[0]
		}
		h.Rankings(ctx, password, reply)
	default:
		h.send(reply, fmt.Sprintf(MsgUnknownCommand, h.prefix, h.prefix))
	}
	return true
}

// Submit extracts metrics for url and stores them under user.
func (h *Handler) Submit(ctx context.Context, user, url string, reply Reply) {
	if url == "" {
		h.send(reply, fmt.Sprintf(MsgSubmitUsage, h.prefix))
		return
	}
	if h.limiter != nil && !h.limiter.Allow() {
		h.logger.Warn("submission throttled", "user", user)
		h.send(reply, MsgThrottled)
		return
	}

	h.send(reply, fmt.Sprintf(MsgProcessing, user))

	outcome := h.extractor.Extract(ctx, url)
	record, ok := outcome.Record()
	if !ok {
		h.logger.Info("submission rejected", "user", user, "url", url, "reason", outcome.Reason())
		h.send(reply, fmt.Sprintf(MsgSubmitFailed, describe(outcome.Err())))
		return
	}

	sub := types.NewSubmission(user, url, record)
	if err := h.store.Append(ctx, sub); err != nil {
		h.logger.Error("failed to store submission", "user", user, "backend", h.store.Name(), "error", err)
		if h.metrics != nil {
			h.metrics.SubmissionsFailed.Add(1)
		}
		h.send(reply, MsgSaveFailed)
		return
	}
	if h.metrics != nil {
		h.metrics.SubmissionsStored.Add(1)
	}

	h.logger.Info("submission stored", "user", user, "url", url, "metrics", record.String())
	h.send(reply, fmt.Sprintf(MsgSubmitted, record.Likes, record.Shares, record.Comments))
}

// Rankings sends the leaderboard if password matches.
func (h *Handler) Rankings(ctx context.Context, password string, reply Reply) {
	if !h.authorized(password) {
		if h.metrics != nil {
			h.metrics.AccessDenied.Add(1)
		}
		h.send(reply, MsgAccessDenied)
		return
	}

	subs, err := h.store.All(ctx)
	if err != nil {
		h.logger.Error("failed to read submissions", "backend", h.store.Name(), "error", err)
		h.send(reply, MsgNoData)
		return
	}
	if len(subs) == 0 {
		h.send(reply, MsgNoData)
		return
	}

	if h.metrics != nil {
		h.metrics.RankingsServed.Add(1)
	}
	for _, chunk := range ranking.Chunk(ranking.Format(ranking.Rank(subs)), ranking.MaxMessageLen) {
		if !h.send(reply, chunk) {
			return
		}
	}
}

// An unset password denies everyone.
func (h *Handler) authorized(password string) bool {
	if h.password == "" || password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(h.password), []byte(password)) == 1
}

func (h *Handler) send(reply Reply, msg string) bool {
	if err := reply(msg); err != nil {
		h.logger.Warn("failed to send reply", "error", err)
		return false
	}
	return true
}

// describe turns an extraction failure into a user-facing reason.
func describe(err error) string {
	var navErr *types.NavigationError
	var sessErr *types.SessionError
	switch {
	case errors.Is(err, types.ErrUnsupportedPlatform):
		return "unsupported platform (supported: X, Threads, YouTube, TikTok, Instagram)"
	case errors.Is(err, types.ErrTimeout):
		return "timed out while reading the post"
	case errors.Is(err, types.ErrCanceled):
		return "request was canceled"
	case errors.As(err, &navErr):
		return "could not load the page, please check the URL"
	case errors.As(err, &sessErr):
		return "browser error, please try again later"
	default:
		return "please check the URL"
	}
}
