package samples

import "sync"

// Cell is the single-owner holder of the current Index. Updates replace the
// whole value; readers take the value current at call time, so a sample-map
// push is visible on the very next keystroke.
type Cell struct {
	mu  sync.RWMutex
	idx Index
}

func NewCell() *Cell {
	return &Cell{}
}

// Replace swaps in a new index wholesale.
func (c *Cell) Replace(idx Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.idx = idx
}

// Current returns the index as of now.
func (c *Cell) Current() Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.idx
}
