package interview

import (
	"sync"
	"time"
)

// Clock drives the per-question countdown. Start fires onTick once per
// second with the remaining whole seconds and onExpire exactly once when
// the budget is spent. Start must return without invoking either
// callback; the controller calls it with its own lock held. Stop halts
// the countdown; callbacks already in flight may still land, so
// consumers must be prepared to discard a late tick or expiry (the
// controller's clock epochs do this).
type Clock interface {
	Start(d time.Duration, onTick func(remaining int), onExpire func())
	Stop()
}

// TickerClock counts down on a real time.Ticker, one active countdown at
// most. Starting it again replaces the previous countdown.
type TickerClock struct {
	mu   sync.Mutex
	stop chan struct{}
}

var _ Clock = (*TickerClock)(nil)

func NewTickerClock() *TickerClock {
	return &TickerClock{}
}

func (c *TickerClock) Start(d time.Duration, onTick func(remaining int), onExpire func()) {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
	}
	stop := make(chan struct{})
	c.stop = stop
	c.mu.Unlock()

	remaining := int(d / time.Second)

	go func() {
		onTick(remaining)

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				remaining--
				if remaining <= 0 {
					onTick(0)
					onExpire()
					return
				}
				onTick(remaining)
			}
		}
	}()
}

func (c *TickerClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}
