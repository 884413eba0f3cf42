package discord

import (
	"context"
	"errors"
	"fmt"

	"dispatchkit/pkg/sendlimit"

	"github.com/bwmarrin/discordgo"
)

// Replier sends plain-text replies through the session, paced by an adaptive
// limiter so a burst of command replies cannot trip Discord's send limits.
type Replier struct {
	dg  *discordgo.Session
	lim *sendlimit.Limiter
}

// Replier returns the bot's send collaborator.
func (b *Bot) Replier() *Replier {
	return &Replier{dg: b.dg, lim: sendlimit.New(5, 1, 20)}
}

// SendReply sends text to the channel. The outcome is fed back into the
// limiter; a 429 from Discord halves the send rate.
func (r *Replier) SendReply(ctx context.Context, channelID, text string) error {
	if err := r.lim.Wait(ctx); err != nil {
		return err
	}
	_, err := r.dg.ChannelMessageSend(channelID, text)
	var rl *discordgo.RateLimitError
	if errors.As(err, &rl) {
		r.lim.Report(false)
		return fmt.Errorf("rate limited sending to %s: %w", channelID, err)
	}
	r.lim.Report(err == nil)
	if err != nil {
		return fmt.Errorf("sending to %s: %w", channelID, err)
	}
	return nil
}
