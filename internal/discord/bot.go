package discord

import (
	"context"
	"fmt"
	"log"

	"dispatchkit/internal/framework"

	"github.com/bwmarrin/discordgo"
)

// Bot owns the Discord session and bridges gateway events into dispatcher
// calls. Everything protocol-level (framing, auth, reconnects) stays inside
// discordgo.
type Bot struct {
	dg         *discordgo.Session
	dispatcher *framework.Dispatcher
}

// New creates a bot session for the given token. The session is not opened
// until Run.
func New(token string) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	b := &Bot{dg: dg}
	b.configureIntents()
	return b, nil
}

// configureIntents configures the Discord intents.
func (b *Bot) configureIntents() {
	b.dg.Identify.Intents = discordgo.IntentsAll
}

// ShardID returns the shard this session is connected as.
func (b *Bot) ShardID() int {
	return b.dg.ShardID
}

// Run connects to the gateway and routes message events into the dispatcher
// until ctx is done.
func (b *Bot) Run(ctx context.Context, d *framework.Dispatcher) error {
	b.dispatcher = d

	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onMessageCreate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Println("[INFO] Shutdown signal received. Closing Discord session...")
	return nil
}

// onReady is called when the gateway delivers the READY payload.
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.dispatcher.SetBotIdentity(r.User.ID)
	log.Printf("[INFO] %s is connected.", r.User.Username)
}

// onMessageCreate bridges one inbound message into a dispatch. discordgo runs
// each handler on its own goroutine, so dispatches are naturally concurrent.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID {
		return
	}
	b.dispatcher.Dispatch(context.Background(), framework.Message{
		AuthorID:  m.Author.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
	})
}
