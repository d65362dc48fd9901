package watcher

import (
	"slices"
	"sync"
	"time"
	"unique"
)

// DefaultDebounceWindow is how long the tree must stay quiet before a batch is delivered.
const DefaultDebounceWindow = 100 * time.Millisecond

// Debouncer collects changed paths and hands them over in one sorted batch
// once no new path has arrived for a full window.
type Debouncer struct {
	mu      sync.Mutex
	seen    map[unique.Handle[string]]struct{}
	quiet   *time.Timer
	window  time.Duration
	onBatch func(paths []string)
}

// NewDebouncer returns a Debouncer that calls onBatch after each quiet window.
// onBatch may be nil.
func NewDebouncer(window time.Duration, onBatch func(paths []string)) *Debouncer {
	return &Debouncer{
		seen:    make(map[unique.Handle[string]]struct{}),
		window:  window,
		onBatch: onBatch,
	}
}

// Add records path and pushes the delivery back by one window.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seen[unique.Make(path)] = struct{}{}
	if d.quiet != nil {
		d.quiet.Stop()
	}
	d.quiet = time.AfterFunc(d.window, d.expire)
}

// expire runs on the timer goroutine and delivers the batch asynchronously.
func (d *Debouncer) expire() {
	d.mu.Lock()
	d.quiet = nil
	paths := d.drainLocked()
	d.mu.Unlock()

	if len(paths) > 0 && d.onBatch != nil {
		go d.onBatch(paths)
	}
}

// Flush delivers whatever is pending right away and waits for onBatch to return.
// It does nothing if the window has already expired and delivery is under way.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.quiet != nil && !d.quiet.Stop() {
		d.mu.Unlock()
		return
	}
	d.quiet = nil
	paths := d.drainLocked()
	d.mu.Unlock()

	if len(paths) > 0 && d.onBatch != nil {
		d.onBatch(paths)
	}
}

// Stop drops pending paths and cancels the window.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.quiet != nil {
		d.quiet.Stop()
		d.quiet = nil
	}
	clear(d.seen)
}

func (d *Debouncer) drainLocked() []string {
	if len(d.seen) == 0 {
		return nil
	}
	paths := make([]string, 0, len(d.seen))
	for h := range d.seen {
		paths = append(paths, h.Value())
	}
	clear(d.seen)
	slices.Sort(paths)
	return paths
}
