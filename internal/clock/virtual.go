package clock

import (
	"sync"
	"time"
)

// Virtual is a Clock whose passage of time is controlled entirely by test
// code calling Advance. Sleep and After block until Advance moves "now"
// past their deadline. Grounded on hailburst's SimContext, which resolves
// timers against a caller-driven virtual clock rather than the OS.
type Virtual struct {
	mu      sync.Mutex
	now     time.Time
	waiters []virtualWaiter
}

type virtualWaiter struct {
	deadline time.Time
	ch       chan time.Time
}

// NewVirtual returns a Virtual clock starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

func (v *Virtual) Sleep(d time.Duration) {
	<-v.After(d)
}

func (v *Virtual) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)

	v.mu.Lock()
	defer v.mu.Unlock()

	deadline := v.now.Add(d)
	if !deadline.After(v.now) {
		ch <- v.now
		return ch
	}
	v.waiters = append(v.waiters, virtualWaiter{deadline: deadline, ch: ch})
	return ch
}

// Advance moves the virtual clock forward by d, firing any waiter whose
// deadline has now passed.
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.now = v.now.Add(d)

	remaining := v.waiters[:0]
	for _, w := range v.waiters {
		if !w.deadline.After(v.now) {
			w.ch <- v.now
		} else {
			remaining = append(remaining, w)
		}
	}
	v.waiters = remaining
}
