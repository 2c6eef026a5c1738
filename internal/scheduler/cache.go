package scheduler

import (
	"sync"
	"time"

	"github.com/me/studyplan/internal/engine"
	"github.com/me/studyplan/pkg/model"
)

// cachedConflict pairs a detected conflict with the candidate placement it
// was detected for, so a later resolution call can apply a remedy without
// the caller resending the context.
type cachedConflict struct {
	conflict  model.Conflict
	candidate engine.Candidate
	expiresAt time.Time
}

// conflictCache holds transient conflicts for the duration of one
// detection/resolution interaction. Entries expire after a TTL; nothing
// here is ever persisted.
type conflictCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cachedConflict
}

func newConflictCache(ttl time.Duration, now func() time.Time) *conflictCache {
	return &conflictCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cachedConflict),
	}
}

func (c *conflictCache) put(conflict model.Conflict, cand engine.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune()
	c.entries[conflict.ID] = cachedConflict{
		conflict:  conflict,
		candidate: cand,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *conflictCache) get(id string) (cachedConflict, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prune()
	entry, ok := c.entries[id]
	return entry, ok
}

func (c *conflictCache) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// prune drops expired entries. Callers hold the lock.
func (c *conflictCache) prune() {
	now := c.now()
	for id, entry := range c.entries {
		if entry.expiresAt.Before(now) {
			delete(c.entries, id)
		}
	}
}
