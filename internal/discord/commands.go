package discord

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"dispatchkit/internal/framework"
	"dispatchkit/internal/shardinfo"
	"dispatchkit/pkg/cmd"
)

// RoleDirectory looks up a guild role id by its exact name.
type RoleDirectory interface {
	RoleByName(guildID, name string) (string, bool)
}

// PingCommand looks up a role by name and replies with its id. Restricted to
// members holding the staff role.
type PingCommand struct {
	Directory RoleDirectory
	Replier   framework.Replier
}

func (c *PingCommand) Name() string        { return "ping" }
func (c *PingCommand) Description() string { return "Look up a role ID by role name" }
func (c *PingCommand) Aliases() []string   { return nil }
func (c *PingCommand) Roles() []string     { return []string{"staff"} }
func (c *PingCommand) Bucket() string      { return "" }

func (c *PingCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	roleName := inv.Args
	if id, ok := c.Directory.RoleByName(inv.GuildID, roleName); ok {
		return c.Replier.SendReply(ctx, inv.ChannelID, fmt.Sprintf("Role-ID: %s", id))
	}
	return c.Replier.SendReply(ctx, inv.ChannelID, fmt.Sprintf("Could not find role named: %q", roleName))
}

// LatencyCommand replies with the gateway latency of the shard the command
// arrived on.
type LatencyCommand struct {
	Reporter *shardinfo.Reporter
	ShardID  func() int
	Replier  framework.Replier
}

func (c *LatencyCommand) Name() string        { return "latency" }
func (c *LatencyCommand) Description() string { return "Show the current shard's gateway latency" }
func (c *LatencyCommand) Aliases() []string   { return nil }
func (c *LatencyCommand) Roles() []string     { return nil }
func (c *LatencyCommand) Bucket() string      { return "" }

func (c *LatencyCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	latency, err := c.Reporter.Latency(c.ShardID())
	switch {
	case err == shardinfo.ErrShardNotFound:
		return c.Replier.SendReply(ctx, inv.ChannelID, "No shard found")
	case err == shardinfo.ErrLatencyUnknown:
		return c.Replier.SendReply(ctx, inv.ChannelID, "The shard latency is not measured yet")
	case err != nil:
		return err
	}
	return c.Replier.SendReply(ctx, inv.ChannelID, fmt.Sprintf("The shard latency is %s", latency))
}

// CommandsCommand replies with the usage-counter snapshot. Bound to the
// "complicated" bucket.
type CommandsCommand struct {
	Usage   func() map[string]uint64
	Replier framework.Replier
}

func (c *CommandsCommand) Name() string        { return "commands" }
func (c *CommandsCommand) Description() string { return "Show how often each command has been used" }
func (c *CommandsCommand) Aliases() []string   { return []string{"cmds"} }
func (c *CommandsCommand) Roles() []string     { return nil }
func (c *CommandsCommand) Bucket() string      { return "complicated" }

func (c *CommandsCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	counts := c.Usage()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("Commands used:\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "- %s: %d\n", name, counts[name])
	}
	return c.Replier.SendReply(ctx, inv.ChannelID, sb.String())
}

// GeneralGroup assembles the built-in commands into the guild-only General
// group with the stock help-filter policies.
func GeneralGroup(commands ...cmd.Command) *cmd.Group {
	return &cmd.Group{
		Name:               "General",
		Description:        "General",
		GuildOnly:          true,
		Commands:           commands,
		LackingPermissions: cmd.FilterHide,
		LackingRole:        cmd.FilterNothing,
		WrongChannel:       cmd.FilterStrike,
	}
}
