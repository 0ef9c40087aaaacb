package storage

import (
	"context"
	"sync"
)

type memoryTracker struct {
	mu        sync.RWMutex
	revisions map[string]map[int]string
}

// NewMemoryTracker returns a process-local Tracker. Its state is lost on restart.
func NewMemoryTracker() Tracker {
	return &memoryTracker{revisions: make(map[string]map[int]string)}
}

func (t *memoryTracker) ShouldProcess(_ context.Context, repo string, pr int, rev string) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	last, ok := t.revisions[repo][pr]
	return !ok || last != rev, nil
}

func (t *memoryTracker) MarkProcessed(_ context.Context, repo string, pr int, rev string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	prs, ok := t.revisions[repo]
	if !ok {
		prs = make(map[int]string)
		t.revisions[repo] = prs
	}
	prs[pr] = rev
	return nil
}
