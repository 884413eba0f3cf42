package discord

import (
	"dispatchkit/internal/shardinfo"

	"github.com/bwmarrin/discordgo"
)

// shardManager exposes the session's shard as a shardinfo snapshot. discordgo
// runs one shard per session; a multi-session deployment would aggregate here.
type shardManager struct {
	dg *discordgo.Session
}

// ShardManager returns the bot's shard-status collaborator.
func (b *Bot) ShardManager() shardinfo.Manager {
	return &shardManager{dg: b.dg}
}

func (m *shardManager) Statuses() []shardinfo.Status {
	latency := m.dg.HeartbeatLatency()
	return []shardinfo.Status{{
		ID:      m.dg.ShardID,
		Latency: latency,
		Known:   latency > 0,
	}}
}
