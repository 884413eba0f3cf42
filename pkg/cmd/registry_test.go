package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommand struct {
	name    string
	aliases []string
}

func (c *fakeCommand) Name() string        { return c.name }
func (c *fakeCommand) Description() string { return "fake" }
func (c *fakeCommand) Aliases() []string   { return c.aliases }
func (c *fakeCommand) Roles() []string     { return nil }
func (c *fakeCommand) Bucket() string      { return "" }
func (c *fakeCommand) Run(ctx context.Context, inv *Invocation) error {
	return nil
}

func TestResolveByAliasReturnsSameCommand(t *testing.T) {
	reg := NewRegistry()
	ping := &fakeCommand{name: "ping", aliases: []string{"p", "pong"}}
	require.NoError(t, reg.RegisterGroup(&Group{Name: "General", Commands: []Command{ping}}))

	byName, _, ok := reg.Resolve("ping")
	require.True(t, ok)
	for _, alias := range []string{"p", "pong"} {
		byAlias, _, ok := reg.Resolve(alias)
		require.True(t, ok, "alias %q should resolve", alias)
		assert.Same(t, byName, byAlias)
	}
}

func TestResolveIsCaseSensitive(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterGroup(&Group{
		Name:     "General",
		Commands: []Command{&fakeCommand{name: "ping"}},
	}))

	_, _, ok := reg.Resolve("Ping")
	assert.False(t, ok)
}

func TestDuplicateNameAcrossGroupsRejected(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterGroup(&Group{
		Name:     "General",
		Commands: []Command{&fakeCommand{name: "ping"}},
	}))

	err := reg.RegisterGroup(&Group{
		Name: "Other",
		Commands: []Command{
			&fakeCommand{name: "latency"},
			&fakeCommand{name: "roll", aliases: []string{"ping"}},
		},
	})
	var dup *DuplicateCommandError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "ping", dup.Name)

	// Failed registration must leave the registry untouched.
	_, _, ok := reg.Resolve("latency")
	assert.False(t, ok, "partial registration leaked into the registry")
	_, group, ok := reg.Resolve("ping")
	require.True(t, ok)
	assert.Equal(t, "General", group.Name)
	assert.Len(t, reg.Groups(), 1)
}

func TestDuplicateAliasWithinGroupRejected(t *testing.T) {
	reg := NewRegistry()
	err := reg.RegisterGroup(&Group{
		Name: "General",
		Commands: []Command{
			&fakeCommand{name: "ping", aliases: []string{"p"}},
			&fakeCommand{name: "purge", aliases: []string{"p"}},
		},
	})
	var dup *DuplicateCommandError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "p", dup.Name)
	assert.Empty(t, reg.All())
}

func TestRegistryResolvesWrappedCommands(t *testing.T) {
	reg := NewRegistry()
	inner := &fakeCommand{name: "ping", aliases: []string{"p"}}
	wrapped := Wrap(inner, func(ctx context.Context, inv *Invocation) error { return nil })
	require.NoError(t, reg.RegisterGroup(&Group{Name: "General", Commands: []Command{wrapped}}))

	got, _, ok := reg.Resolve("p")
	require.True(t, ok)
	assert.Same(t, inner, Root(got))
}
