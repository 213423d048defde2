package gallery

import (
	"sync"

	"github.com/teranos/carousel"
)

// StateBoard publishes the latest navigation snapshot to readers on other
// goroutines, such as the HTTP remote. Only the owning loop writes to it.
type StateBoard struct {
	mu   sync.RWMutex
	snap carousel.Snapshot
}

// Publish replaces the snapshot.
func (b *StateBoard) Publish(s carousel.Snapshot) {
	b.mu.Lock()
	b.snap = s
	b.mu.Unlock()
}

// Snapshot returns the last published snapshot.
func (b *StateBoard) Snapshot() carousel.Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}
