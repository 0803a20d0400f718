package catalog

import (
	"context"
	"sync"
	"time"
)

// ChangeFeed hands out a channel that is closed on the next Notify.
type ChangeFeed struct {
	mu sync.Mutex
	ch chan struct{}
}

// NewChangeFeed returns a ready feed.
func NewChangeFeed() *ChangeFeed { return &ChangeFeed{ch: make(chan struct{})} }

// Changes returns the channel for the next notification.
func (f *ChangeFeed) Changes() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ch
}

// Notify wakes every current waiter.
func (f *ChangeFeed) Notify() {
	f.mu.Lock()
	close(f.ch)
	f.ch = make(chan struct{})
	f.mu.Unlock()
}

// WaitForChange blocks until the next notification or timeout. It returns
// true when woken by a change. A non-positive timeout waits indefinitely.
func (f *ChangeFeed) WaitForChange(timeout time.Duration) bool {
	ch := f.Changes()
	if timeout <= 0 {
		<-ch
		return true
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-ch:
		return true
	case <-t.C:
		return false
	}
}

// Changer is anything with a change feed.
type Changer interface {
	Changes() <-chan struct{}
}

// Watch calls fn after every change of src until ctx is done.
func Watch(ctx context.Context, src Changer, fn func()) {
	for {
		ch := src.Changes()
		select {
		case <-ctx.Done():
			return
		case <-ch:
			fn()
		}
	}
}
