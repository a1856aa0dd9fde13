package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Bot connects a Handler to a Discord gateway session.
type Bot struct {
	session *discordgo.Session
	handler *Handler
	logger  *slog.Logger

	ctx context.Context
	wg  sync.WaitGroup
}

// New creates a Discord bot. The connection is opened by Run.
func New(token string, handler *Handler, logger *slog.Logger) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("discord token is empty")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	b := &Bot{
		session: session,
		handler: handler,
		logger:  logger.With("component", "discord"),
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onMessage)
	return b, nil
}

// Run opens the gateway connection and blocks until ctx is done.
// In-flight commands are awaited before the session closes.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	b.logger.Info("discord bot connected")

	<-ctx.Done()

	b.logger.Info("discord bot shutting down")
	b.wg.Wait()
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("close discord session: %w", err)
	}
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("logged in", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	if _, ok := ParseCommand(m.Content, b.handler.prefix); !ok {
		return
	}

	ctx := b.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if ctx.Err() != nil {
		return
	}

	channelID := m.ChannelID
	reply := func(msg string) error {
		_, err := s.ChannelMessageSend(channelID, msg)
		return err
	}

	b.wg.Add(1)
	defer b.wg.Done()
	b.handler.Dispatch(ctx, m.Author.Username, m.Content, reply)
}
