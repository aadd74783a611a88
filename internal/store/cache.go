package store

import (
	"context"
	"sync"

	"github.com/jrodal98/brunnylol/internal/command"
)

// Cache is the shared in-memory view of the global command set. Readers get
// the map the last Reload produced; the map itself is never mutated after a
// load, so handing it out without copying is safe.
type Cache struct {
	store *Store

	mu       sync.RWMutex
	commands map[string]*command.Command
}

// NewCache creates an empty cache over the store. Call Reload before first
// use.
func NewCache(store *Store) *Cache {
	return &Cache{store: store, commands: make(map[string]*command.Command)}
}

// Reload replaces the cached command set from the database.
func (c *Cache) Reload(ctx context.Context) error {
	commands, err := c.store.GlobalCommands(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.commands = commands
	c.mu.Unlock()
	return nil
}

// Commands returns the current global command set. The returned map must be
// treated as read-only.
func (c *Cache) Commands() map[string]*command.Command {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.commands
}

// Len reports how many global commands are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.commands)
}
