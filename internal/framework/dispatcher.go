package framework

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"dispatchkit/pkg/cmd"
)

// Replier sends a plain-text reply through the gateway collaborator. Send
// failures are logged by the dispatcher, never retried here.
type Replier interface {
	SendReply(ctx context.Context, channelID, text string) error
}

// RoleSource reads the invoker's role names from the gateway collaborator.
type RoleSource interface {
	InvokerRoles(ctx context.Context, userID, guildID string) ([]string, error)
}

// Message is one inbound text message event, as delivered by the gateway.
type Message struct {
	AuthorID  string
	ChannelID string
	GuildID   string // empty outside a guild
	Content   string
}

// BeforeHook runs after checks pass and before the handler. Returning false
// vetoes execution; the usage counter has already been incremented by then.
type BeforeHook func(ctx context.Context, inv *cmd.Invocation) bool

// AfterHook runs after the handler returns, with the handler's error (nil on
// success). It observes the outcome and cannot alter it.
type AfterHook func(ctx context.Context, inv *cmd.Invocation, runErr error)

// OutcomeState is the terminal state of one dispatch.
type OutcomeState int

const (
	// NotACommand: no prefix or mention matched; routed to the normal-message
	// callback. Not an error.
	NotACommand OutcomeState = iota
	// Vetoed: the before hook declined execution.
	Vetoed
	// Completed: the handler ran and returned nil.
	Completed
	// Errored: dispatch failed with a classified DispatchError.
	Errored
)

// Outcome is what Dispatch returns for one inbound message.
type Outcome struct {
	State   OutcomeState
	Command string
	Err     *DispatchError // set when State == Errored
}

// Dispatcher routes inbound messages to registered commands: parse, resolve,
// permission and bucket checks, before hook, handler, after hook. It holds
// typed references to exactly the collaborators it needs and hands each
// handler a narrow per-invocation context.
type Dispatcher struct {
	registry *cmd.Registry
	buckets  *BucketStore
	counter  *UsageCounter
	replier  Replier
	roles    RoleSource

	prefixes   []string
	delimiters []string
	onMention  bool

	before         BeforeHook
	after          AfterHook
	onError        func(ctx context.Context, msg Message, derr *DispatchError)
	onUnrecognised func(ctx context.Context, msg Message, name string)
	onNormal       func(ctx context.Context, msg Message)

	mu    sync.RWMutex
	botID string

	now func() time.Time
}

// New returns a dispatcher over the given registry and collaborators. Call
// Configure and the hook setters before the first Dispatch; they are not safe
// to call concurrently with dispatching.
func New(registry *cmd.Registry, buckets *BucketStore, counter *UsageCounter, replier Replier, roles RoleSource) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		buckets:  buckets,
		counter:  counter,
		replier:  replier,
		roles:    roles,
		now:      time.Now,
	}
}

// Configure sets the recognized prefixes, the argument delimiters (both in
// priority order), and whether a leading bot mention counts as a prefix.
func (d *Dispatcher) Configure(prefixes, delimiters []string, onMention bool) {
	d.prefixes = prefixes
	d.delimiters = delimiters
	d.onMention = onMention
}

// SetBeforeHook installs the pre-execution hook.
func (d *Dispatcher) SetBeforeHook(h BeforeHook) { d.before = h }

// SetAfterHook installs the post-execution hook.
func (d *Dispatcher) SetAfterHook(h AfterHook) { d.after = h }

// OnDispatchError installs an observer for every classified dispatch error.
// The dispatcher itself only replies for Ratelimited; anything user-facing for
// the other kinds is the observer's decision.
func (d *Dispatcher) OnDispatchError(f func(ctx context.Context, msg Message, derr *DispatchError)) {
	d.onError = f
}

// OnUnrecognisedCommand installs a callback for prefix messages whose command
// name has no registry entry.
func (d *Dispatcher) OnUnrecognisedCommand(f func(ctx context.Context, msg Message, name string)) {
	d.onUnrecognised = f
}

// OnNormalMessage installs a callback for messages that are not commands.
func (d *Dispatcher) OnNormalMessage(f func(ctx context.Context, msg Message)) {
	d.onNormal = f
}

// SetBotIdentity records the bot's user id once the gateway's ready event
// delivers it, enabling mention-prefix parsing.
func (d *Dispatcher) SetBotIdentity(id string) {
	d.mu.Lock()
	d.botID = id
	d.mu.Unlock()
}

func (d *Dispatcher) identity() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.botID
}

// UsageSnapshot returns a copy of the per-command invocation counts.
func (d *Dispatcher) UsageSnapshot() map[string]uint64 {
	return d.counter.Snapshot()
}

// Dispatch handles one inbound message end to end and returns its terminal
// outcome. Every failure is classified and reported; nothing panics the
// calling goroutine over a bad message or a failing handler.
//
// The usage counter is incremented as soon as the command resolves, before
// permission and bucket checks: it counts attempted dispatches, so denied
// invocations still count (deliberately matching the original behavior of
// counting inside an unconditional before hook).
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) Outcome {
	rest, isCommand := d.stripPrefix(msg.Content)
	if !isCommand {
		if d.onNormal != nil {
			d.onNormal(ctx, msg)
		}
		return Outcome{State: NotACommand}
	}

	name, args := splitCommand(rest, d.delimiters)
	if name == "" {
		if d.onNormal != nil {
			d.onNormal(ctx, msg)
		}
		return Outcome{State: NotACommand}
	}

	command, group, found := d.registry.Resolve(name)
	if !found {
		if d.onUnrecognised != nil {
			d.onUnrecognised(ctx, msg, name)
		}
		return d.errored(ctx, msg, &DispatchError{Kind: ErrKindUnrecognisedCommand, Command: name})
	}

	root := cmd.Root(command)
	inv := &cmd.Invocation{
		UserID:    msg.AuthorID,
		ChannelID: msg.ChannelID,
		GuildID:   msg.GuildID,
		Message:   msg.Content,
		Command:   root.Name(),
		Args:      args,
	}

	d.counter.Increment(inv.Command)

	if group != nil && group.GuildOnly && msg.GuildID == "" {
		return d.errored(ctx, msg, &DispatchError{Kind: ErrKindWrongChannel, Command: inv.Command})
	}

	if required := root.Roles(); len(required) > 0 {
		invokerRoles, err := d.roles.InvokerRoles(ctx, msg.AuthorID, msg.GuildID)
		if err != nil {
			return d.errored(ctx, msg, &DispatchError{
				Kind:    ErrKindHandlerError,
				Command: inv.Command,
				Cause:   fmt.Errorf("resolving invoker roles: %w", err),
			})
		}
		if !intersects(required, invokerRoles) {
			return d.errored(ctx, msg, &DispatchError{Kind: ErrKindLackingPermissions, Command: inv.Command})
		}
	}

	if bucketName := root.Bucket(); bucketName != "" {
		scopeKey := msg.AuthorID + ":" + msg.ChannelID
		if retryAfter, ok := d.buckets.CheckAndRecord(bucketName, scopeKey, d.now()); !ok {
			d.reply(ctx, msg.ChannelID, fmt.Sprintf("Try this again in %d seconds.", int(retryAfter.Seconds())))
			return d.errored(ctx, msg, &DispatchError{
				Kind:       ErrKindRatelimited,
				Command:    inv.Command,
				RetryAfter: retryAfter,
			})
		}
	}

	if d.before != nil && !d.before(ctx, inv) {
		return Outcome{State: Vetoed, Command: inv.Command}
	}

	runErr := command.Run(ctx, inv)
	if d.after != nil {
		d.after(ctx, inv, runErr)
	}
	if runErr != nil {
		return d.errored(ctx, msg, &DispatchError{Kind: ErrKindHandlerError, Command: inv.Command, Cause: runErr})
	}
	return Outcome{State: Completed, Command: inv.Command}
}

// errored reports a classified error to the observer and builds the outcome.
func (d *Dispatcher) errored(ctx context.Context, msg Message, derr *DispatchError) Outcome {
	if d.onError != nil {
		d.onError(ctx, msg, derr)
	}
	return Outcome{State: Errored, Command: derr.Command, Err: derr}
}

// reply is fire-and-forget: a failed send is the collaborator's problem to
// retry (or not); here it is only logged.
func (d *Dispatcher) reply(ctx context.Context, channelID, text string) {
	if d.replier == nil {
		return
	}
	if err := d.replier.SendReply(ctx, channelID, text); err != nil {
		log.Printf("[ERR] Failed to send reply to %s: %v", channelID, err)
	}
}

func intersects(required, have []string) bool {
	for _, r := range required {
		for _, h := range have {
			if r == h {
				return true
			}
		}
	}
	return false
}
