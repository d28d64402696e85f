// Package cache implements the bounded short-term conversation memory.
package cache

import "parlor/internal/core"

// DefaultCapacity is the number of turns kept when no capacity is configured.
const DefaultCapacity = 20

// Cache is a fixed-capacity FIFO of turns. It is owned by exactly one agent
// for the lifetime of a session and is never written concurrently, so it
// carries no locking.
type Cache struct {
	capacity int
	turns    []core.Turn
}

func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Cache{
		capacity: capacity,
		turns:    make([]core.Turn, 0, capacity),
	}
}

// Add appends a turn at the tail, evicting the oldest turn first when the
// cache is full. The length never exceeds the capacity, even transiently.
func (c *Cache) Add(turn core.Turn) {
	if len(c.turns) == c.capacity {
		copy(c.turns, c.turns[1:])
		c.turns = c.turns[:c.capacity-1]
	}

	c.turns = append(c.turns, turn)
}

// Recent returns the cached turns oldest to newest. The returned slice is a
// snapshot: later mutation of the cache does not affect it.
func (c *Cache) Recent() []core.Turn {
	snapshot := make([]core.Turn, len(c.turns))
	copy(snapshot, c.turns)

	return snapshot
}

func (c *Cache) Len() int {
	return len(c.turns)
}

func (c *Cache) Capacity() int {
	return c.capacity
}
