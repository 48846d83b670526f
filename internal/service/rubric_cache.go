package service

import "sync"

// rubric is the preprocessed grading input for one question.
type rubric struct {
	criterion string
	maxScore  float64
}

// rubricCache memoizes rubric lookups across students of a job (and across
// jobs). It is a plain capacity-bounded map with FIFO eviction. Entries are
// not invalidated when a problem is edited, so a job running across an edit
// may grade against the old rubric.
type rubricCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]rubric
	order    []string // insertion order, oldest first
}

func newRubricCache(capacity int) *rubricCache {
	return &rubricCache{
		capacity: capacity,
		entries:  make(map[string]rubric, capacity),
	}
}

func (c *rubricCache) get(qID string) (rubric, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rub, ok := c.entries[qID]
	return rub, ok
}

func (c *rubricCache) put(qID string, rub rubric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[qID]; exists {
		c.entries[qID] = rub
		return
	}

	if len(c.entries) >= c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[qID] = rub
	c.order = append(c.order, qID)
}
