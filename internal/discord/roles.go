package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// RoleSource resolves an invoker's role names from session state, falling
// back to the REST API when the cache misses.
type RoleSource struct {
	dg *discordgo.Session
}

// Roles returns the bot's role-lookup collaborator.
func (b *Bot) Roles() *RoleSource {
	return &RoleSource{dg: b.dg}
}

// InvokerRoles returns the names of the member's roles in the guild. Outside
// a guild the role set is empty.
func (r *RoleSource) InvokerRoles(ctx context.Context, userID, guildID string) ([]string, error) {
	if guildID == "" {
		return nil, nil
	}

	member, err := r.dg.State.Member(guildID, userID)
	if err != nil {
		member, err = r.dg.GuildMember(guildID, userID)
		if err != nil {
			return nil, fmt.Errorf("fetching member %s: %w", userID, err)
		}
	}

	names := make(map[string]string)
	guild, err := r.dg.State.Guild(guildID)
	if err != nil || guild == nil || len(guild.Roles) == 0 {
		roles, err := r.dg.GuildRoles(guildID)
		if err != nil {
			return nil, fmt.Errorf("fetching roles for guild %s: %w", guildID, err)
		}
		for _, role := range roles {
			names[role.ID] = role.Name
		}
	} else {
		for _, role := range guild.Roles {
			names[role.ID] = role.Name
		}
	}

	var out []string
	for _, id := range member.Roles {
		if n, ok := names[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// RoleByName finds a guild role id by exact name.
func (r *RoleSource) RoleByName(guildID, name string) (string, bool) {
	guild, err := r.dg.State.Guild(guildID)
	if err != nil || guild == nil {
		guild, err = r.dg.Guild(guildID)
		if err != nil || guild == nil {
			return "", false
		}
	}
	for _, role := range guild.Roles {
		if role.Name == name {
			return role.ID, true
		}
	}
	return "", false
}
