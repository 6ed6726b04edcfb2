package commands

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"
)

// Registry maps command names and aliases to commands.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]Command
	primary []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Command)}
}

// Register adds c under its name and aliases. Names are case-insensitive;
// a name or alias that is already taken is an error and nothing is added.
func (r *Registry) Register(c Command) error {
	keys := append([]string{c.Name()}, c.Aliases()...)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, k := range keys {
		if _, taken := r.byName[strings.ToLower(k)]; taken {
			return fmt.Errorf("command name already registered: %s", k)
		}
	}
	for _, k := range keys {
		r.byName[strings.ToLower(k)] = c
	}
	r.primary = append(r.primary, c.Name())
	sort.Strings(r.primary)
	return nil
}

// Find looks up a command by name or alias.
func (r *Registry) Find(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byName[strings.ToLower(name)]
	return c, ok
}

// All returns every command once, sorted by name.
func (r *Registry) All() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Command, 0, len(r.primary))
	for _, name := range r.primary {
		out = append(out, r.byName[strings.ToLower(name)])
	}
	return out
}

// WriteSummary prints one line per command: name, aliases and synopsis.
// Commands that need a session are marked with an asterisk.
func (r *Registry) WriteSummary(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range r.All() {
		name := c.Name()
		if c.NeedsAuth() {
			name += "*"
		}
		aliases := ""
		if a := c.Aliases(); len(a) > 0 {
			aliases = "(" + strings.Join(a, ", ") + ")"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", name, aliases, c.Synopsis())
	}
	tw.Flush()
}

// DefaultRegistry is the registry the phototask binary dispatches from.
var DefaultRegistry = NewRegistry()

// Register adds a command to the default registry. It panics on a
// duplicate name, which can only happen at init time.
func Register(c Command) {
	if err := DefaultRegistry.Register(c); err != nil {
		panic(err)
	}
}
