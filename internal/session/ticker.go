// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"sync"
	"time"
)

// Ticker emits on C every period until Stop is called or its context ends.
// Ticks are dropped, not queued, when the receiver falls behind.
type Ticker struct {
	C <-chan struct{}

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// NewTicker starts a ticker bound to ctx. A non-positive period uses
// StatusInterval.
func NewTicker(ctx context.Context, period time.Duration) *Ticker {
	if period <= 0 {
		period = StatusInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	c := make(chan struct{}, 1)
	t := &Ticker{C: c, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		tk := time.NewTicker(period)
		defer tk.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tk.C:
				select {
				case c <- struct{}{}:
				default:
				}
			}
		}
	}()
	return t
}

// Stop ends the ticker and waits for its goroutine to exit. It is safe to
// call more than once.
func (t *Ticker) Stop() {
	t.once.Do(t.cancel)
	<-t.done
}
