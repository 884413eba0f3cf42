// Package cmd provides a transport-agnostic command core: a command is something
// with a name, aliases, access metadata, and Run(ctx, invocation). How messages
// are parsed and dispatched (Discord prefix messages, CLI, tests) is defined by
// the layers that wrap this.
package cmd

import "context"

// Invocation is the per-dispatch context passed to a command handler. It is
// owned by the dispatch call that created it and must not be retained or
// shared past Run returning.
type Invocation struct {
	UserID    string
	ChannelID string
	GuildID   string // empty outside a guild

	Message string // raw message text as received
	Command string // resolved command name (primary name, not the alias used)
	Args    string // argument string after the command name, rest-trimmed
}

// Command is the universal contract: identity, access metadata, and execution.
// Implementations are immutable after registration. Roles returns the role
// names required to invoke the command (empty = unrestricted). Bucket returns
// the rate-limit bucket name ("" = none).
type Command interface {
	Name() string
	Description() string
	Aliases() []string
	Roles() []string
	Bucket() string
	Run(ctx context.Context, inv *Invocation) error
}

// HelpFilter controls how the help renderer presents a command the invoker
// cannot use. The dispatcher never enforces these; they are display policy.
type HelpFilter int

const (
	// FilterNothing lists the command normally.
	FilterNothing HelpFilter = iota
	// FilterHide omits the command from help output.
	FilterHide
	// FilterStrike lists the command struck through.
	FilterStrike
)

// Group is an ordered set of commands registered together. GuildOnly restricts
// every command in the group to guild channels.
type Group struct {
	Name        string
	Description string
	GuildOnly   bool
	Commands    []Command

	// Help-display policies for invokers that fail a check.
	LackingPermissions HelpFilter
	LackingRole        HelpFilter
	WrongChannel       HelpFilter
}
