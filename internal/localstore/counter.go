package localstore

import (
	"fmt"
	"strconv"
	"strings"
)

// Counter mints the sequential item IDs shared by all three local
// collections. The next value is persisted after every mint so IDs keep
// increasing across restarts and are never reused.
type Counter struct {
	s *Store
}

// Counter returns the shared ID counter.
func (s *Store) Counter() *Counter {
	return &Counter{s: s}
}

// current returns the next value to assign. A missing or corrupt stored value
// restarts the sequence at 1, matching the adapter's "corrupt means empty"
// read semantics.
func (c *Counter) current() int {
	val, err := c.s.d.Read(KeyNextID)
	if err != nil {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(val)))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Peek returns the ID the next mint will produce, without consuming it.
func (c *Counter) Peek() string {
	return fmt.Sprintf("%03d", c.current())
}

// Next mints the next ID as a zero-padded 3-digit string and persists the
// incremented counter.
func (c *Counter) Next() (string, error) {
	n := c.current()
	if err := c.s.d.Write(KeyNextID, []byte(strconv.Itoa(n+1))); err != nil {
		return "", fmt.Errorf("persisting counter: %w", err)
	}
	return fmt.Sprintf("%03d", n), nil
}
