package cmd

import "fmt"

// DuplicateCommandError reports a name or alias that collides with an entry
// already in the registry (or with another entry in the same group).
type DuplicateCommandError struct {
	Name string
}

func (e *DuplicateCommandError) Error() string {
	return fmt.Sprintf("command name or alias already registered: %q", e.Name)
}

type entry struct {
	cmd   Command
	group *Group
}

// Registry stores commands by name and alias. Registration happens once at
// startup; afterwards the registry is read-only and safe for unsynchronized
// concurrent lookups. It does not perform dispatch; the dispatcher resolves
// commands here and invokes them with its own context.
type Registry struct {
	entries map[string]entry
	groups  []*Group
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// RegisterGroup adds every command of the group under its name and all of its
// aliases. Lookup keys are case-sensitive. If any key collides, nothing is
// inserted and a *DuplicateCommandError for the first collision is returned.
func (r *Registry) RegisterGroup(g *Group) error {
	type pending struct {
		key string
		e   entry
	}
	var inserts []pending
	seen := make(map[string]bool, len(g.Commands)*2)
	for _, c := range g.Commands {
		root := Root(c)
		names := append([]string{root.Name()}, root.Aliases()...)
		for _, n := range names {
			if seen[n] {
				return &DuplicateCommandError{Name: n}
			}
			if _, ok := r.entries[n]; ok {
				return &DuplicateCommandError{Name: n}
			}
			seen[n] = true
			inserts = append(inserts, pending{key: n, e: entry{cmd: c, group: g}})
		}
	}

	for _, p := range inserts {
		r.entries[p.key] = p.e
	}
	r.groups = append(r.groups, g)
	return nil
}

// Resolve looks up a command by primary name or alias. Exact match only;
// suggestions for near-misses are a help-display concern, not handled here.
func (r *Registry) Resolve(nameOrAlias string) (Command, *Group, bool) {
	e, ok := r.entries[nameOrAlias]
	if !ok {
		return nil, nil, false
	}
	return e.cmd, e.group, true
}

// Groups returns the registered groups in registration order.
func (r *Registry) Groups() []*Group {
	return r.groups
}

// All returns each registered command once, in group order.
func (r *Registry) All() []Command {
	var list []Command
	for _, g := range r.groups {
		list = append(list, g.Commands...)
	}
	return list
}
