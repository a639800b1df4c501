package services

import (
	"sync"
	"time"
)

// Debouncer runs a function only after its key has been quiet for the
// configured delay; each new trigger for the same key resets the timer. Used
// to coalesce bursts of log writes into one background recomputation.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[uint]*time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:  delay,
		timers: make(map[uint]*time.Timer),
	}
}

func (debouncer *Debouncer) Trigger(key uint, fn func()) {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()

	if timer, ok := debouncer.timers[key]; ok {
		timer.Stop()
	}
	debouncer.timers[key] = time.AfterFunc(debouncer.delay, func() {
		debouncer.mu.Lock()
		delete(debouncer.timers, key)
		debouncer.mu.Unlock()
		fn()
	})
}

// Stop cancels all pending timers without running them.
func (debouncer *Debouncer) Stop() {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()
	for key, timer := range debouncer.timers {
		timer.Stop()
		delete(debouncer.timers, key)
	}
}
