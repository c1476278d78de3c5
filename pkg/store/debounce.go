package store

import (
	"context"
	"sync"
	"time"

	"github.com/ideamap/ideamap/pkg/document"
)

// DefaultSaveDelay is how long a DebouncedSaver waits after the last edit
// before writing. Continuous gestures schedule a save on every commit, so
// the delay collapses a burst of edits into one write.
const DefaultSaveDelay = 500 * time.Millisecond

// DebouncedSaver coalesces rapid Save calls for a single map into one
// backend write after a quiet period. It is safe for concurrent use.
type DebouncedSaver struct {
	store Store
	name  string
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *document.Document
	lastErr error
}

// NewDebouncedSaver wraps the store for the named map. A zero delay uses
// DefaultSaveDelay.
func NewDebouncedSaver(s Store, name string, delay time.Duration) *DebouncedSaver {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &DebouncedSaver{store: s, name: name, delay: delay}
}

// Schedule records the latest document state and restarts the quiet
// timer. Only the newest document is written when the timer fires.
func (d *DebouncedSaver) Schedule(doc document.Document) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = &doc
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *DebouncedSaver) fire() {
	d.mu.Lock()
	doc := d.pending
	d.pending = nil
	d.mu.Unlock()
	if doc == nil {
		return
	}
	err := d.store.Save(context.Background(), d.name, *doc)
	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()
}

// Flush writes any pending state immediately and reports the first error
// from it or from an earlier background write.
func (d *DebouncedSaver) Flush(ctx context.Context) error {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	doc := d.pending
	d.pending = nil
	err := d.lastErr
	d.lastErr = nil
	d.mu.Unlock()

	if doc != nil {
		if saveErr := d.store.Save(ctx, d.name, *doc); saveErr != nil {
			return saveErr
		}
	}
	return err
}
